package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jobportal-dev/job-portal/backend/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

// queueMail publishes a mail message to the email queue. Notification mail
// is strictly best effort: a serialization or publish failure is logged and
// the request goes on as if nothing happened.
func (h *Handler) queueMail(msg domain.MailMessage) {
	if h.mailChannel == nil {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		slog.Warn("failed to serialize mail message", "type", msg.Type, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        data,
		},
	); err != nil {
		slog.Warn("failed to publish mail message", "type", msg.Type, "error", err)
	}
}
