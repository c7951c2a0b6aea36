package impl

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"

	deliverycontext "medistore/internal/delivery/context"
	"medistore/internal/domain/entity"
	domainerrors "medistore/internal/domain/errors"
	"medistore/internal/domain/repository"
	"medistore/internal/domain/service"
	"medistore/internal/usecase"
)

const (
	// Firebase batch size limit
	firebaseBatchSize = 500
)

type notificationService struct {
	deviceRepo      repository.DeviceRepository
	notificationSvc service.NotificationService
	logger          *slog.Logger
}

// NotificationServiceParams holds dependencies for NotificationService, injected by Fx.
type NotificationServiceParams struct {
	fx.In

	DeviceRepo      repository.DeviceRepository
	NotificationSvc service.NotificationService
	Logger          *slog.Logger
}

// NewNotificationService creates a new notification service instance
func NewNotificationService(params NotificationServiceParams) usecase.NotificationUsecase {
	return &notificationService{
		deviceRepo:      params.DeviceRepo,
		notificationSvc: params.NotificationSvc,
		logger:          params.Logger,
	}
}

func (s *notificationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, s.logger)
}

// orderMessage is the push content for one event.
type orderMessage struct {
	recipients []uuid.UUID
	title      string
	body       string
}

func parseRecipients(ids []string) ([]uuid.UUID, error) {
	recipients := make([]uuid.UUID, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, domainerrors.ErrValidationFailed.WithDetails("invalid recipient id " + raw)
		}
		recipients = append(recipients, id)
	}

	return recipients, nil
}

// shortOrderID is the prefix customers see on receipts.
func shortOrderID(orderID string) string {
	if len(orderID) < 8 {
		return orderID
	}

	return strings.ToUpper(orderID[:8])
}

// buildOrderMessage decides who hears about the event and what they read.
func buildOrderMessage(event *entity.OrderEvent) (*orderMessage, error) {
	if _, err := uuid.Parse(event.OrderID); err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("invalid order id")
	}

	switch event.Type {
	case entity.OrderEventCreated:
		sellers, err := parseRecipients(event.SellerIDs)
		if err != nil {
			return nil, err
		}

		return &orderMessage{
			recipients: sellers,
			title:      "New order received",
			body:       "Order " + shortOrderID(event.OrderID) + " includes your medicines and is waiting to be shipped.",
		}, nil
	case entity.OrderEventStatusChanged:
		if !event.Status.IsValid() {
			return nil, domainerrors.ErrValidationFailed.WithDetails("invalid order status")
		}
		customer, err := parseRecipients([]string{event.CustomerID})
		if err != nil {
			return nil, err
		}

		return &orderMessage{
			recipients: customer,
			title:      "Order " + strings.ToLower(event.Status.String()),
			body:       "Your order " + shortOrderID(event.OrderID) + " is now " + event.Status.String() + ".",
		}, nil
	default:
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown event type " + string(event.Type))
	}
}

// NotifyOrderEvent pushes the event to the active devices of its recipients.
// Invalid tokens are deactivated. The call fails only if no batch could be handed to the provider.
func (s *notificationService) NotifyOrderEvent(ctx context.Context, event *entity.OrderEvent) (*usecase.NotificationResult, error) {
	if event == nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("empty event")
	}

	message, err := buildOrderMessage(event)
	if err != nil {
		return nil, err
	}

	result := &usecase.NotificationResult{Recipients: len(message.recipients)}
	if len(message.recipients) == 0 {
		return result, nil
	}

	devices, err := s.deviceRepo.FindActiveDevicesByUsers(ctx, message.recipients)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch devices")
	}

	seen := make(map[string]struct{}, len(devices))
	tokens := make([]string, 0, len(devices))
	for _, device := range devices {
		if _, ok := seen[device.FCMToken]; ok {
			continue
		}
		seen[device.FCMToken] = struct{}{}
		tokens = append(tokens, device.FCMToken)
	}
	result.Devices = len(tokens)
	if len(tokens) == 0 {
		return result, nil
	}

	data := map[string]string{
		"event_id":   event.EventID,
		"event_type": string(event.Type),
		"order_id":   event.OrderID,
		"status":     event.Status.String(),
	}

	var (
		invalidTokens []string
		batchErrs     int
		lastErr       error
	)
	for i := 0; i < len(tokens); i += firebaseBatchSize {
		batch := tokens[i:min(i+firebaseBatchSize, len(tokens))]

		sent, failed, batchInvalid, err := s.notificationSvc.SendBatchNotification(ctx, batch, message.title, message.body, data)
		if err != nil {
			s.log(ctx).Warn("Push batch failed", slog.String("order_id", event.OrderID), slog.Int("size", len(batch)), slog.Any("error", err))
			result.Failed += len(batch)
			batchErrs++
			lastErr = err

			continue
		}

		result.Sent += sent
		result.Failed += failed
		invalidTokens = append(invalidTokens, batchInvalid...)
	}

	if len(invalidTokens) > 0 {
		result.InvalidTokens = len(invalidTokens)
		if err := s.deviceRepo.DeactivateByTokens(ctx, invalidTokens); err != nil {
			s.log(ctx).Error("Failed to deactivate invalid tokens", slog.Int("count", len(invalidTokens)), slog.Any("error", err))
		}
	}

	batches := (len(tokens) + firebaseBatchSize - 1) / firebaseBatchSize
	if batchErrs == batches {
		return result, errors.Wrap(lastErr, "failed to send push notifications")
	}

	s.log(ctx).Info("Order event notified",
		slog.String("event_id", event.EventID),
		slog.String("event_type", string(event.Type)),
		slog.Int("devices", result.Devices),
		slog.Int("sent", result.Sent),
		slog.Int("failed", result.Failed),
	)

	return result, nil
}
