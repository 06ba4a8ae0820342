package model_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/model"
)

func TestRequesterProjection(t *testing.T) {
	data := model.InteractionData{
		"csid": "42",
		"requester": map[string]interface{}{
			"email": "a@x.com",
			"name":  "A",
		},
	}

	email, name := data.Requester()
	assert.Equal(t, "a@x.com", email)
	assert.Equal(t, "A", name)
}

func TestRequesterProjectionMissingShape(t *testing.T) {
	for _, data := range []model.InteractionData{
		nil,
		{},
		{"requester": "not an object"},
		{"requester": map[string]interface{}{"name": 7}},
	} {
		email, name := data.Requester()
		assert.Equal(t, "", email)
		assert.Equal(t, "", name)
	}
}

func TestInteractionDataScansWebhookJSON(t *testing.T) {
	raw := []byte(`{"csid":"42","subject":"Hi","requester":{"email":"a@x.com","name":"A"}}`)

	var data model.InteractionData
	require.NoError(t, data.Scan(raw))

	email, name := data.Requester()
	assert.Equal(t, "a@x.com", email)
	assert.Equal(t, "A", name)

	value, err := data.Value()
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(value.([]byte)))
}

func TestWebhookEventDecoding(t *testing.T) {
	body := `{
	  "data": {
	    "conversation": {
	      "csid": "42",
	      "subject": "Order query",
	      "requester": {"email": "a@x.com", "name": "A"},
	      "channel": "email"
	    },
	    "customer": {"id": "c1", "name": "A"}
	  }
	}`

	var event model.WebhookEvent
	require.NoError(t, json.Unmarshal([]byte(body), &event))

	email, _ := event.Data.Conversation.Requester()
	assert.Equal(t, "a@x.com", email)
	require.NotNil(t, event.Data.Customer)
	assert.Equal(t, "c1", event.Data.Customer.ID)
	// Fields outside the known shape survive into the stored payload.
	assert.Equal(t, "email", event.Data.Conversation["channel"])
}
