// internal/controller/interaction_controller.go
package controller

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/service"
)

type InteractionController struct {
	InteractionService *service.InteractionService
	Logger             *zap.Logger
}

// ListInteractions returns a page of stored interactions, newest first.
func (c *InteractionController) ListInteractions(w http.ResponseWriter, r *http.Request) {
	page := 1
	pageSize := 10

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	if pageSizeStr := r.URL.Query().Get("page_size"); pageSizeStr != "" {
		if ps, err := strconv.Atoi(pageSizeStr); err == nil && ps > 0 {
			pageSize = ps
		}
	}

	interactions, pagination, err := c.InteractionService.ListInteractions(page, pageSize)
	if err != nil {
		c.Logger.Error("failed to fetch interactions", zap.Error(err))
		http.Error(w, "Error retrieving data.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data":       interactions,
		"pagination": pagination,
	})
}
