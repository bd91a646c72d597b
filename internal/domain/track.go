package domain

import (
	"math"
	"time"
)

type SourceKind string

const (
	SourceUpload SourceKind = "upload"
	SourceStream SourceKind = "stream"
	SourceLink   SourceKind = "link"
)

// Track is immutable once it has been added to a playlist.
type Track struct {
	ID       int        `json:"id"`
	Title    string     `json:"title"`
	Artist   string     `json:"artist,omitempty"`
	Duration int64      `json:"duration_ms,omitempty"`
	Source   SourceKind `json:"source"`
	Locator  string     `json:"locator"`
	AddedBy  string     `json:"added_by"`
}

// maxDurationMs is the longest duration a time.Duration can hold in ms.
const maxDurationMs = math.MaxInt64 / int64(time.Millisecond)

// Length returns Duration as a time.Duration, saturating instead of
// overflowing. Zero means unknown.
func (t Track) Length() time.Duration {
	if t.Duration <= 0 {
		return 0
	}

	return time.Duration(min(t.Duration, maxDurationMs)) * time.Millisecond
}
