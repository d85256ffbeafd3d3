package notify

import (
	"context"
	"log/slog"
)

// Notifier receives progress updates and user-facing messages from the
// enrichment pipeline. Delivery is fire-and-forget: the pipeline never
// blocks on a notifier and never reads anything back from it.
type Notifier interface {
	Progress(ctx context.Context, current int, total int)
	Info(ctx context.Context, message string)
	Warn(ctx context.Context, message string)
	Error(ctx context.Context, message string)
}

// LogNotifier routes notifications to a structured logger.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Progress(ctx context.Context, current int, total int) {
	n.log.InfoContext(ctx, "Processing record",
		"current", current,
		"total", total)
}

func (n *LogNotifier) Info(ctx context.Context, message string) {
	n.log.InfoContext(ctx, message)
}

func (n *LogNotifier) Warn(ctx context.Context, message string) {
	n.log.WarnContext(ctx, message)
}

func (n *LogNotifier) Error(ctx context.Context, message string) {
	n.log.ErrorContext(ctx, message)
}

// NopNotifier discards every notification.
type NopNotifier struct{}

func (NopNotifier) Progress(context.Context, int, int) {}
func (NopNotifier) Info(context.Context, string)       {}
func (NopNotifier) Warn(context.Context, string)       {}
func (NopNotifier) Error(context.Context, string)      {}
