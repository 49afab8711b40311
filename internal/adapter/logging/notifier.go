package logging

import (
	"context"

	"qiitawatch/internal/domain/model"
	"qiitawatch/internal/domain/ports"
)

// Notifier writes notifications to the log. It is used when no webhook is configured.
type Notifier struct {
	logger ports.Logger
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier creates a Notifier.
func NewNotifier(logger ports.Logger) *Notifier {
	return &Notifier{logger: logger}
}

// Send logs the notification title and one line per field.
func (n *Notifier) Send(ctx context.Context, notification model.Notification) error {
	n.logger.Info(ctx, notification.Title, "description", notification.Description, "url", notification.URL)
	for _, field := range notification.Fields {
		n.logger.Info(ctx, "  "+field.Name, "detail", field.Value)
	}
	return nil
}
