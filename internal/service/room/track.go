package room

import (
	"context"
	"fmt"

	"github.com/sharetube/roomsync/internal/domain"
)

func (s service) addSong(ctx context.Context, connID string, cmd AddSong) error {
	roomID, err := s.memberRoom(connID)
	if err != nil {
		return fmt.Errorf("failed to add song: %w", err)
	}

	track := domain.Track{
		Title:    cmd.Title,
		Artist:   cmd.Artist,
		Duration: cmd.Duration,
		Source:   cmd.Source,
		Locator:  cmd.Locator,
	}

	// resolved before taking the room lock, a failed lookup never reaches
	// room state
	if track.Source == domain.SourceLink && track.Title == "" {
		metadata, err := s.resolver.Resolve(ctx, track.Locator)
		if err != nil {
			return fmt.Errorf("failed to resolve link metadata: %w", err)
		}

		track.Title = metadata.Title
		if track.Artist == "" {
			track.Artist = metadata.AuthorName
		}
	}

	if err := s.roomRepo.Update(ctx, roomID, func(rm *domain.Room) error {
		member, err := rm.Member(connID)
		if err != nil {
			return ErrNotInRoom
		}

		track.AddedBy = member.Username
		added, playlist, err := rm.AddSong(track)
		if err != nil {
			return err
		}

		s.broadcast(ctx, rm, &Output{
			Type: TypeSongAdded,
			Payload: SongAdded{
				Song:     added,
				Playlist: playlist,
				AddedBy:  member.Username,
			},
		})

		return nil
	}); err != nil {
		return fmt.Errorf("failed to add song: %w", err)
	}

	return nil
}
