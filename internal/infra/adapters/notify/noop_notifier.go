package notify

import (
	"context"

	"github.com/rs/zerolog"

	"tripreel/internal/domain/ports/adapter"
)

var _ adapter.Notifier = (*NoopNotifier)(nil)

// NoopNotifier logs instead of sending, for runs without a bot token.
type NoopNotifier struct {
	logger zerolog.Logger
}

func NewNoopNotifier(logger zerolog.Logger) *NoopNotifier {
	return &NoopNotifier{logger: logger.With().Str("component", "noop-notifier").Logger()}
}

func (n *NoopNotifier) Send(ctx context.Context, chatID int64, text string) error {
	n.logger.Info().Int64("chat_id", chatID).Str("text", text).Msg("notification suppressed")
	return nil
}
