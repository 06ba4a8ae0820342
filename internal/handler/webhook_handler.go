// internal/handler/webhook_handler.go
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	appErrors "github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/errors"
	"github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/model"
	"github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/service"
)

// WebhookHandler holds the dependencies for the Dixa webhook endpoint.
type WebhookHandler struct {
	Interactions *service.InteractionService
	Logger       *zap.Logger
}

// HandleDixaWebhook accepts one conversation event. Duplicates respond 200
// like accepted events; ingestion success is decoupled from whether the
// survey send later succeeds.
func (h *WebhookHandler) HandleDixaWebhook(w http.ResponseWriter, r *http.Request) {
	var event model.WebhookEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "Invalid request body.", http.StatusBadRequest)
		return
	}

	outcome, err := h.Interactions.ProcessEvent(&event.Data)
	if err != nil {
		var validationErr *appErrors.ValidationError
		if errors.As(err, &validationErr) {
			http.Error(w, "Customer email is required.", http.StatusBadRequest)
			return
		}
		h.Logger.Error("error processing dixa webhook", zap.Error(err))
		http.Error(w, "Internal server error.", http.StatusInternalServerError)
		return
	}

	if outcome == service.OutcomeDuplicate {
		w.Write([]byte("Skipped due to previous interaction."))
		return
	}
	w.Write([]byte("Webhook processed. Retently sending scheduled."))
}
