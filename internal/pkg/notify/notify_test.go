package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublisher_DefaultSubject(t *testing.T) {
	assert.Equal(t, SubjectLoginAttempted, NewPublisher(nil, "").Subject())
	assert.Equal(t, "custom.subject", NewPublisher(nil, "custom.subject").Subject())
}

func TestPublisher_NilConnIsNoop(t *testing.T) {
	var nilPublisher *Publisher

	assert.NoError(t, NewPublisher(nil, "").PublishLoginEvent(context.Background(), LoginEvent{Outcome: "success"}))
	assert.NoError(t, nilPublisher.PublishLoginEvent(context.Background(), LoginEvent{}))
}

func TestLoginEvent_JSONShape(t *testing.T) {
	event := LoginEvent{
		Email:      "any_email@mail.com",
		Outcome:    "unauthorized",
		StatusCode: 401,
		TraceID:    "trace-1",
		OccurredAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, map[string]any{
		"email":       "any_email@mail.com",
		"outcome":     "unauthorized",
		"status_code": float64(401),
		"trace_id":    "trace-1",
		"occurred_at": "2024-01-02T03:04:05Z",
	}, fields)
}
