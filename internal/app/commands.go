package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"dari/internal/adapters/observability"
	"dari/internal/catalog"
	"dari/internal/domain"
)

// IntakeService validates simulated submissions and forwards them to the intake
// collaborator. Nothing is written back to the dataset.
type IntakeService struct {
	ds     *catalog.Dataset
	intake domain.Intake
	now    func() time.Time
}

func NewIntakeService(ds *catalog.Dataset, in domain.Intake) *IntakeService {
	return &IntakeService{ds: ds, intake: in, now: time.Now}
}

func (s *IntakeService) Notify(ctx context.Context, email string) (domain.Receipt, error) {
	email = strings.TrimSpace(email)
	if err := domain.ValidateVar("email", email, "required,email"); err != nil {
		return domain.Receipt{}, s.fail(domain.KindNotify, err)
	}
	return s.submit(ctx, domain.Submission{Kind: domain.KindNotify, Email: email})
}

func (s *IntakeService) ListProperty(ctx context.Context, f domain.ListPropertyForm) (domain.Receipt, error) {
	f.Title = strings.TrimSpace(f.Title)
	f.PriceUSD = strings.TrimSpace(f.PriceUSD)
	f.Contact = strings.TrimSpace(f.Contact)
	if err := domain.Validate(f); err != nil {
		return domain.Receipt{}, s.fail(domain.KindListProperty, err)
	}
	return s.submit(ctx, domain.Submission{
		Kind: domain.KindListProperty,
		Fields: map[string]string{
			"status":   f.Status,
			"city":     f.City,
			"type":     f.Type,
			"title":    f.Title,
			"priceUSD": f.PriceUSD,
			"contact":  f.Contact,
		},
	})
}

// ListingAction covers the per-listing buttons: book a viewing, save, email.
func (s *IntakeService) ListingAction(ctx context.Context, kind domain.SubmissionKind, listingID string) (domain.Receipt, error) {
	switch kind {
	case domain.KindBookViewing, domain.KindSave, domain.KindEmailAgent:
	default:
		return domain.Receipt{}, fmt.Errorf("%w: %q is not a listing action", domain.ErrValidation, kind)
	}
	if _, ok := s.ds.Get(listingID); !ok {
		return domain.Receipt{}, s.fail(kind, fmt.Errorf("listing %q: %w", listingID, domain.ErrNotFound))
	}
	return s.submit(ctx, domain.Submission{Kind: kind, ListingID: listingID})
}

func (s *IntakeService) AgentSignup(ctx context.Context) (domain.Receipt, error) {
	return s.submit(ctx, domain.Submission{Kind: domain.KindAgentSignup})
}

func (s *IntakeService) submit(ctx context.Context, sub domain.Submission) (domain.Receipt, error) {
	sub.ID = uuid.NewString()
	sub.ReceivedAt = s.now().UTC()

	if err := s.intake.Submit(ctx, sub); err != nil {
		// collaborators should classify; anything else counts as unavailable
		if !errors.Is(err, domain.ErrIntakeRejected) && !errors.Is(err, domain.ErrIntakeUnavailable) {
			err = fmt.Errorf("%w: %v", domain.ErrIntakeUnavailable, err)
		}
		return domain.Receipt{}, s.fail(sub.Kind, err)
	}

	observability.ObserveSubmission(string(sub.Kind), "ok")
	log.Info().Str("kind", string(sub.Kind)).Str("id", sub.ID).Str("listing", sub.ListingID).Msg("submission accepted")
	return domain.Receipt{SubmissionID: sub.ID, Kind: sub.Kind, Message: sub.Kind.Acknowledgement()}, nil
}

func (s *IntakeService) fail(kind domain.SubmissionKind, err error) error {
	outcome := "error"
	switch {
	case errors.Is(err, domain.ErrValidation):
		outcome = "invalid"
	case errors.Is(err, domain.ErrNotFound):
		outcome = "not_found"
	case errors.Is(err, domain.ErrIntakeRejected):
		outcome = "rejected"
	case errors.Is(err, domain.ErrIntakeUnavailable):
		outcome = "unavailable"
	}
	observability.ObserveSubmission(string(kind), outcome)
	log.Warn().Err(err).Str("kind", string(kind)).Str("outcome", outcome).Msg("submission failed")
	return err
}
