// internal/model/interaction.go
package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// InteractionTypeWebhookEvent is the classification tag for interactions
// created from inbound Dixa webhooks. Currently the only type.
const InteractionTypeWebhookEvent = "webhook_event"

// Interaction is one customer_interactions row. At most one row exists per
// customer; retently_sent transitions false -> true exactly once.
type Interaction struct {
	ID                  int             `db:"id" json:"id"`
	CustomerID          *string         `db:"customer_id" json:"customer_id,omitempty"`
	InteractionType     string          `db:"interaction_type" json:"interaction_type"`
	InteractionData     InteractionData `db:"interaction_data" json:"interaction_data"`
	RequesterEmail      string          `db:"requester_email" json:"requester_email,omitempty"`
	CreatedAt           time.Time       `db:"created_at" json:"created_at"`
	RetentlySent        bool            `db:"retently_sent" json:"retently_sent"`
	RetentlyScheduledAt *time.Time      `db:"retently_scheduled_at" json:"retently_scheduled_at,omitempty"`
}

// InteractionData is the conversation payload stored verbatim as JSONB.
type InteractionData map[string]interface{}

func (d InteractionData) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

func (d *InteractionData) Scan(src interface{}) error {
	if src == nil {
		*d = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into InteractionData", src)
	}
	return json.Unmarshal(b, d)
}

// Requester projects the requester's email and name out of the stored
// payload. Both are empty strings when the nested shape is absent.
func (d InteractionData) Requester() (email, name string) {
	requester, ok := d["requester"].(map[string]interface{})
	if !ok {
		return "", ""
	}
	email, _ = requester["email"].(string)
	name, _ = requester["name"].(string)
	return email, name
}
