package reminderevents

import (
	"context"
	e "medremind/internal/core/domain/errors"
	"medremind/internal/core/domain/logging"
	"medremind/internal/core/domain/reminder"
	"medremind/internal/rabbitmq/schema"

	"github.com/rabbitmq/amqp091-go"
)

type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, msg amqp091.Publishing) error
}

// RabbitMQ fans reminder status changes out to an exchange, routed by status.
type RabbitMQ struct {
	log      logging.Logger
	channel  Publisher
	exchange string
}

func NewRabbitMQ(log logging.Logger, channel Publisher, exchange string) *RabbitMQ {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	if exchange == "" {
		panic("exchange name must not be empty")
	}
	return &RabbitMQ{log: log, channel: channel, exchange: exchange}
}

func (p *RabbitMQ) Publish(ctx context.Context, event reminder.Event) {
	message := schema.ReminderEvent{
		ReminderID:   int64(event.ReminderID),
		UserID:       int64(event.UserID),
		MedicationID: int64(event.MedicationID),
		Status:       event.Status.String(),
		AttemptCount: event.AttemptCount,
		At:           event.At,
	}
	body, err := message.Marshal()
	if err != nil {
		logging.Error(ctx, p.log, err, logging.Entry("event", event))
		return
	}
	routingKey := "reminder." + event.Status.String()
	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    event.At,
		Body:         body,
	})
	if err != nil {
		p.log.Error(
			ctx,
			"Could not publish reminder event.",
			logging.Entry("err", err),
			logging.Entry("reminderID", event.ReminderID),
		)
		return
	}
	p.log.Debug(
		ctx,
		"AMQP message has been successfully published.",
		logging.Entry("exchange", p.exchange),
		logging.Entry("RK", routingKey),
		logging.Entry("reminderID", event.ReminderID),
	)
}
