package room

import (
	"context"
	"fmt"

	"github.com/sharetube/roomsync/internal/domain"
)

// screenShare lets the latest member to start sharing take over. Stopping
// is a no-op for anyone but the current sharer.
func (s service) screenShare(ctx context.Context, connID string, cmd ScreenShare) error {
	roomID, err := s.memberRoom(connID)
	if err != nil {
		return fmt.Errorf("failed to update screen share: %w", err)
	}

	if err := s.roomRepo.Update(ctx, roomID, func(rm *domain.Room) error {
		member, err := rm.Member(connID)
		if err != nil {
			return ErrNotInRoom
		}

		payload := ScreenShareState{
			UserID:   member.ID,
			Username: member.Username,
		}

		if cmd.Active {
			if err := rm.SetScreenSharer(connID); err != nil {
				return err
			}

			s.broadcast(ctx, rm, &Output{Type: TypeScreenShareStarted, Payload: payload})
			return nil
		}

		if rm.ClearScreenSharer(connID) {
			s.broadcast(ctx, rm, &Output{Type: TypeScreenShareStopped, Payload: payload})
		}

		return nil
	}); err != nil {
		return fmt.Errorf("failed to update screen share: %w", err)
	}

	return nil
}
