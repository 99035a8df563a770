package intake

import (
	"context"

	"github.com/rs/zerolog/log"

	"dari/internal/domain"
)

// Ack accepts every submission without forwarding it anywhere.
type Ack struct{}

func (Ack) Submit(ctx context.Context, s domain.Submission) error {
	ev := log.Info().
		Str("id", s.ID).
		Str("kind", string(s.Kind)).
		Time("received_at", s.ReceivedAt)
	if s.ListingID != "" {
		ev = ev.Str("listing", s.ListingID)
	}
	if len(s.Fields) > 0 {
		ev = ev.Interface("fields", s.Fields)
	}
	ev.Msg("intake acknowledged (not forwarded)")
	return nil
}
