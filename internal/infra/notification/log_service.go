package notification

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"medistore/internal/domain/service"
)

// logService records notifications in the log instead of sending them.
type logService struct {
	logger *slog.Logger
}

// NewLogNotificationService creates a sender for environments without Firebase.
func NewLogNotificationService(logger *slog.Logger) service.NotificationService {
	return &logService{logger: logger}
}

func (s *logService) SendSingleNotification(ctx context.Context, token, title, body string, data map[string]string) error {
	s.logger.InfoContext(ctx, "[Push] Notification",
		slog.String("token_prefix", tokenPrefix(token)),
		slog.String("title", title),
		slog.String("body", body),
		slog.Any("data", data),
	)

	return nil
}

func (s *logService) SendBatchNotification(ctx context.Context, tokens []string, title, body string, data map[string]string) (successCount, failureCount int, invalidTokens []string, err error) {
	if len(tokens) > MaxMulticastTokens {
		return 0, 0, nil, errors.Errorf("token count exceeds limit: %d (max %d)", len(tokens), MaxMulticastTokens)
	}

	s.logger.InfoContext(ctx, "[Push] Batch notification",
		slog.Int("token_count", len(tokens)),
		slog.String("title", title),
		slog.String("body", body),
		slog.Any("data", data),
	)

	return len(tokens), 0, nil, nil
}

func tokenPrefix(token string) string {
	return token[:min(10, len(token))]
}
