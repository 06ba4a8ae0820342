// internal/retently/client.go
package retently

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	appErrors "github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/errors"
)

// SurveyContact is the payload Retently's campaign webhook accepts.
type SurveyContact struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Client posts survey contacts to the configured Retently webhook. The
// timeout bounds the whole call so a hung endpoint cannot stall a sweep.
type Client struct {
	webhookURL string
	httpClient *http.Client
}

func NewClient(webhookURL string, timeout time.Duration) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) SendSurvey(ctx context.Context, contact SurveyContact) error {
	body, err := json.Marshal(contact)
	if err != nil {
		return fmt.Errorf("failed to encode survey contact: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build retently request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &appErrors.ForwardingError{Email: contact.Email, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &appErrors.ForwardingError{Email: contact.Email, StatusCode: resp.StatusCode}
	}
	return nil
}
