package room

import (
	"context"
	"encoding/json"

	"github.com/sharetube/roomsync/internal/domain"
	omitnilpointers "github.com/sharetube/roomsync/pkg/omit-nil-pointers"
)

// relay forwards a setup message to its target. Invalid messages are
// dropped and logged, never reported back to the sender.
func (s service) relay(ctx context.Context, connID string, cmd Signal) {
	hasDescription, hasCandidate := present(cmd.Description), present(cmd.Candidate)
	if hasDescription == hasCandidate {
		s.logger.InfoContext(ctx, "dropping signal without exactly one of description and candidate",
			"conn_id", connID,
			"room_id", cmd.RoomID,
			"target_id", cmd.TargetID,
		)
		return
	}

	if !hasDescription {
		cmd.Description = nil
	}
	if !hasCandidate {
		cmd.Candidate = nil
	}

	err := s.roomRepo.Update(ctx, cmd.RoomID, func(rm *domain.Room) error {
		if !rm.HasMember(connID) || !rm.HasMember(cmd.TargetID) {
			s.logger.InfoContext(ctx, "dropping signal between non-members",
				"conn_id", connID,
				"room_id", cmd.RoomID,
				"target_id", cmd.TargetID,
			)
			return nil
		}

		s.send(ctx, cmd.TargetID, &Output{
			Type: TypeSignal,
			Payload: omitnilpointers.OmitNilPointers(map[string]any{
				"room":        cmd.RoomID,
				"fromUser":    connID,
				"description": cmd.Description,
				"candidate":   cmd.Candidate,
			}),
		})

		return nil
	})
	if err != nil {
		s.logger.InfoContext(ctx, "dropping signal", "conn_id", connID, "room_id", cmd.RoomID, "error", err)
	}
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}
