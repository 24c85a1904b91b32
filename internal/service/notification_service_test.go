package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/civic-kit/complaint-service/internal/config"
	"github.com/civic-kit/complaint-service/internal/events"
)

func TestBurstAlertText(t *testing.T) {
	text := burstAlertText(events.BurstDetectedPayload{
		City:     "Pune",
		Category: "Road",
		Count:    4,
	})
	assert.Equal(t, "Burst alert: 4 active Road complaints in Pune", text)
}

func TestNotificationHandlersWithoutSlack(t *testing.T) {
	ctx := context.Background()
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewNotificationService(dispatcher, zap.NewNop(), config.NotificationConfig{})
	svc.RegisterHandlers()

	// Without Slack or a webhook configured the handlers are log-only and
	// must not fail the publishing side.
	require.NoError(t, dispatcher.Publish(ctx, events.Event{
		Type:  events.EventComplaintFiled,
		Actor: events.ActorCitizen,
		Payload: events.ComplaintFiledPayload{
			City: "Pune", Category: "Road",
		},
	}))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{
		Type:    events.EventBurstDetected,
		Actor:   events.ActorEscalator,
		Payload: events.BurstDetectedPayload{City: "Pune", Category: "Road", Count: 3},
	}))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{
		Type:    events.EventComplaintStatusChanged,
		Actor:   events.ActorAuthority,
		Payload: events.ComplaintStatusChangedPayload{},
	}))
}

func TestNotificationServiceSlackClientGating(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()

	svc := NewNotificationService(dispatcher, zap.NewNop(), config.NotificationConfig{SlackToken: "xoxb-test"})
	assert.Nil(t, svc.slack, "token without a channel must not enable Slack")

	svc = NewNotificationService(dispatcher, zap.NewNop(), config.NotificationConfig{
		SlackToken:   "xoxb-test",
		SlackChannel: "#city-alerts",
	})
	assert.NotNil(t, svc.slack)
}
