package linkmeta

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrNotFound      = errors.New("link not found")
	ErrNotEmbeddable = errors.New("link is not embeddable")
)

type Metadata struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// Client trusts the configured oEmbed endpoint. Pages behind client
// supplied links are fetched through pageClient, which only dials public
// addresses.
type Client struct {
	httpClient *http.Client
	pageClient *http.Client
	oEmbedURL  string
}

// NewClient creates a client resolving links through the oEmbed endpoint
// at oEmbedURL, e.g. https://www.youtube.com/oembed.
func NewClient(oEmbedURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		pageClient: newPageClient(timeout),
		oEmbedURL:  oEmbedURL,
	}
}

// Resolve asks the oEmbed provider first and falls back to the page itself
// when the provider refuses to embed the link.
func (c *Client) Resolve(ctx context.Context, link string) (*Metadata, error) {
	data, err := c.getWithEmbed(ctx, link)
	if err != nil {
		if !errors.Is(err, ErrNotEmbeddable) {
			return nil, fmt.Errorf("failed to get link data with embed: %w", err)
		}

		data, err = c.getFromPage(ctx, link)
		if err != nil {
			return nil, fmt.Errorf("failed to get link data from page: %w", err)
		}
	}

	return data, nil
}
