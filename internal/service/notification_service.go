package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/civic-kit/complaint-service/internal/config"
	"github.com/civic-kit/complaint-service/internal/events"
)

// NotificationService handles emitting notifications for domain events. The
// notification path is advisory: failures here are logged and never bubble
// back into the operation that triggered the event.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	slack      *slack.Client
}

// NewNotificationService creates the service. A Slack client is only built
// when both a bot token and an alert channel are configured.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	n := &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
	if cfg.SlackConfigured() {
		n.slack = slack.New(cfg.SlackToken)
	}
	return n
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventComplaintFiled, n.handleComplaintFiled)
	n.dispatcher.Subscribe(events.EventComplaintStatusChanged, n.handleComplaintStatusChanged)
	n.dispatcher.Subscribe(events.EventBurstDetected, n.handleBurstDetected)
}

func (n *NotificationService) handleComplaintFiled(ctx context.Context, event events.Event) error {
	n.logger.Info("ComplaintFiled", zap.String("tracking_id", event.TrackingID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleComplaintStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("ComplaintStatusChanged", zap.String("tracking_id", event.TrackingID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleBurstDetected(ctx context.Context, event events.Event) error {
	n.logger.Info("BurstDetected", zap.Any("payload", event.Payload))

	payload, ok := event.Payload.(events.BurstDetectedPayload)
	if ok {
		n.postBurstAlert(ctx, payload)
	}
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) postBurstAlert(ctx context.Context, payload events.BurstDetectedPayload) {
	if n.slack == nil {
		return
	}

	_, _, err := n.slack.PostMessageContext(ctx, n.cfg.SlackChannel,
		slack.MsgOptionText(burstAlertText(payload), false),
	)
	if err != nil {
		n.logger.Error("slack burst alert failed",
			zap.String("channel", n.cfg.SlackChannel),
			zap.Error(err),
		)
	}
}

func burstAlertText(payload events.BurstDetectedPayload) string {
	return fmt.Sprintf("Burst alert: %d active %s complaints in %s",
		payload.Count, payload.Category, payload.City)
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_type", string(event.Type)))
}
