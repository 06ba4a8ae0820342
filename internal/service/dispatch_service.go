// internal/service/dispatch_service.go
package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/repository"
	"github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/retently"
)

// SurveySender is the outbound side of a sweep. Satisfied by retently.Client.
type SurveySender interface {
	SendSurvey(ctx context.Context, contact retently.SurveyContact) error
}

// DispatchService sweeps the store for due, unsent interactions and forwards
// them to Retently. A failed send is only logged; the row stays pending and
// the next sweep picks it up again.
type DispatchService struct {
	Repo   repository.InteractionRepositoryInterface
	Sender SurveySender
	Logger *zap.Logger

	// Test mode restricts dispatch to emails containing TestEmailFilter so a
	// test deployment never contacts production customers.
	TestMode        bool
	TestEmailFilter string
}

// Run executes a sweep on every tick until ctx is cancelled. Sweeps run
// sequentially on this goroutine, so a slow sweep delays the next tick
// instead of overlapping it.
func (s *DispatchService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.Logger.Info("dispatch scheduler started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			s.Logger.Info("dispatch scheduler stopped")
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.Logger.Error("sweep aborted", zap.Error(err))
			}
		}
	}
}

// Sweep runs one dispatch pass. A storage failure aborts the whole pass;
// per-row forwarding failures do not.
func (s *DispatchService) Sweep(ctx context.Context) error {
	due, err := s.Repo.DueForDispatch()
	if err != nil {
		return err
	}

	for _, interaction := range due {
		email, name := interaction.InteractionData.Requester()
		if email == "" {
			email = interaction.RequesterEmail
		}
		if email == "" {
			s.Logger.Warn("skipping interaction: customer email not found",
				zap.Int("interaction_id", interaction.ID))
			continue
		}

		if s.TestMode && !strings.Contains(email, s.TestEmailFilter) {
			s.Logger.Warn("test mode: skipping production customer",
				zap.Int("interaction_id", interaction.ID),
				zap.String("email", email))
			continue
		}

		contact := retently.SurveyContact{
			Email:     email,
			FirstName: name,
			LastName:  "",
		}
		if err := s.Sender.SendSurvey(ctx, contact); err != nil {
			s.Logger.Error("failed to send data to retently",
				zap.Int("interaction_id", interaction.ID),
				zap.String("email", email),
				zap.Error(err))
			continue
		}

		if err := s.Repo.MarkSent(interaction.ID); err != nil {
			// The send happened; the row will be re-sent next sweep. Sends
			// are treated as safely repeatable, so log and move on.
			s.Logger.Error("failed to mark interaction sent",
				zap.Int("interaction_id", interaction.ID),
				zap.Error(err))
			continue
		}

		s.Logger.Info("data sent to retently",
			zap.Int("interaction_id", interaction.ID),
			zap.String("email", email))
	}
	return nil
}
