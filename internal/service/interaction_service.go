// internal/service/interaction_service.go
package service

import (
	"errors"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/errors"
	"github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/model"
	"github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/repository"
)

// IngestOutcome tells the HTTP layer how an event was handled. Duplicates
// are a success from the caller's point of view, not an error.
type IngestOutcome int

const (
	OutcomeAccepted IngestOutcome = iota
	OutcomeDuplicate
)

type InteractionService struct {
	Repo   repository.InteractionRepositoryInterface
	Delay  time.Duration
	Logger *zap.Logger
}

// ProcessEvent turns one inbound webhook event into a durably-scheduled
// interaction, at most once per customer. The Exists call is a best-effort
// pre-filter; two concurrent events for the same customer race on the
// store's uniqueness constraint and the loser is folded into OutcomeDuplicate.
func (s *InteractionService) ProcessEvent(event *model.EventData) (IngestOutcome, error) {
	email, _ := event.Conversation.Requester()
	if email == "" {
		return 0, appErrors.NewValidation("requester email missing")
	}

	customerID := email
	if event.Customer != nil && event.Customer.ID != "" {
		customerID = event.Customer.ID
	}

	exists, err := s.Repo.Exists(customerID, email)
	if err != nil {
		return 0, err
	}
	if exists {
		s.Logger.Info("customer already has an interaction, skipping",
			zap.String("customer_id", customerID))
		return OutcomeDuplicate, nil
	}

	interaction, err := s.Repo.Save(customerID, model.InteractionTypeWebhookEvent, event.Conversation, s.Delay)
	if err != nil {
		var dup *appErrors.DuplicateCustomerError
		if errors.As(err, &dup) {
			s.Logger.Info("concurrent event lost the uniqueness race, skipping",
				zap.String("customer_id", customerID))
			return OutcomeDuplicate, nil
		}
		return 0, err
	}

	s.Logger.Info("retently sending scheduled",
		zap.String("customer_id", customerID),
		zap.Int("interaction_id", interaction.ID),
		zap.Timep("scheduled_at", interaction.RetentlyScheduledAt))
	return OutcomeAccepted, nil
}

// ListInteractions fetches one page for the viewer, newest first.
func (s *InteractionService) ListInteractions(page, pageSize int) ([]model.Interaction, map[string]int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	ptrs, total, err := s.Repo.Page(offset, pageSize)
	if err != nil {
		return nil, nil, err
	}

	interactions := make([]model.Interaction, len(ptrs))
	for i, interaction := range ptrs {
		interactions[i] = *interaction
	}

	totalPages := (total + pageSize - 1) / pageSize
	pagination := map[string]int{
		"page":        page,
		"page_size":   pageSize,
		"total_count": total,
		"total_pages": totalPages,
	}
	return interactions, pagination, nil
}
