// internal/model/event.go
package model

// WebhookEvent is the inbound Dixa webhook body. The conversation object is
// decoded into an InteractionData map so it can be persisted verbatim.
type WebhookEvent struct {
	Data EventData `json:"data"`
}

type EventData struct {
	Conversation InteractionData `json:"conversation"`
	Customer     *EventCustomer  `json:"customer,omitempty"`
}

// EventCustomer carries Dixa's customer identifier. It may be absent, in
// which case the requester email becomes the dedup key.
type EventCustomer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
