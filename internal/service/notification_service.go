package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/pic-backend/internal/events"
)

// NotificationService turns domain events into audit log entries.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventUserLoggedIn, n.handleUserLoggedIn)
	n.dispatcher.Subscribe(events.EventFormAnswered, n.handleFormAnswered)
}

func (n *NotificationService) handleUserRegistered(_ context.Context, event events.Event) error {
	n.logger.Info("UserRegistered", zap.Int64("user_id", event.UserID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleUserLoggedIn(_ context.Context, event events.Event) error {
	n.logger.Debug("UserLoggedIn", zap.Int64("user_id", event.UserID))
	return nil
}

func (n *NotificationService) handleFormAnswered(_ context.Context, event events.Event) error {
	n.logger.Info("FormAnswered", zap.Int64("user_id", event.UserID), zap.Any("payload", event.Payload))
	return nil
}
