package reminderconfirmations

import (
	"context"
	"errors"
	e "medremind/internal/core/domain/errors"
	"medremind/internal/core/domain/logging"
	ratelimiter "medremind/internal/core/domain/rate_limiter"
	"medremind/internal/core/domain/reminder"
	"medremind/internal/core/services"
	confirmreminder "medremind/internal/core/services/confirm_reminder"
	"medremind/internal/rabbitmq"
	"medremind/internal/rabbitmq/schema"

	"github.com/rabbitmq/amqp091-go"
)

type outcome int

const (
	ack outcome = iota
	// Unexpected failures are redelivered once.
	retry
)

type Consumer struct {
	log     logging.Logger
	channel *rabbitmq.Channel
	queue   string
	service services.Service[confirmreminder.Input, confirmreminder.Result]
}

func New(
	log logging.Logger,
	channel *rabbitmq.Channel,
	queue string,
	service services.Service[confirmreminder.Input, confirmreminder.Result],
) *Consumer {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	if queue == "" {
		panic("queue name must not be empty")
	}
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Consumer{log: log, channel: channel, queue: queue, service: service}
}

func (c *Consumer) Consume() {
	deliveries := c.channel.Consume(c.queue, "")

	go func() {
		for delivery := range deliveries {
			switch c.handle(context.Background(), delivery.Body) {
			case retry:
				c.Nack(delivery, !delivery.Redelivered)
			default:
				c.Ack(delivery)
			}
		}
	}()
}

func (c *Consumer) handle(ctx context.Context, body []byte) outcome {
	confirmation := &schema.ReminderConfirmation{}
	if err := confirmation.Unmarshal(body); err != nil {
		c.log.Error(
			ctx,
			"Could not unmarshal reminder confirmation.",
			logging.Entry("err", err),
			logging.Entry("body", string(body)),
		)
		return ack
	}

	c.log.Info(ctx, "Got reminder confirmation.", logging.Entry("confirmation", confirmation))
	_, err := c.service.Run(
		ctx,
		confirmreminder.Input{
			ReminderID: reminder.ID(confirmation.ReminderID),
			Method:     confirmation.Method,
		},
	)
	switch {
	case err == nil:
		return ack
	case errors.Is(err, reminder.ErrReminderDoesNotExist),
		errors.Is(err, reminder.ErrReminderStateConflict),
		errors.Is(err, reminder.ErrInvalidConfirmationMethod),
		errors.Is(err, ratelimiter.ErrRateLimitExceeded):
		c.log.Info(
			ctx,
			"Reminder confirmation has been rejected.",
			logging.Entry("confirmation", confirmation),
			logging.Entry("err", err),
		)
		return ack
	default:
		c.log.Error(
			ctx,
			"Could not confirm reminder, service returned an error.",
			logging.Entry("confirmation", confirmation),
			logging.Entry("err", err),
		)
		return retry
	}
}

func (c *Consumer) Ack(delivery amqp091.Delivery) {
	if err := delivery.Ack(false); err != nil {
		c.log.Error(context.Background(), "Could not ACK AMQP message.", logging.Entry("err", err))
	}
}

func (c *Consumer) Nack(delivery amqp091.Delivery, requeue bool) {
	if err := delivery.Nack(false, requeue); err != nil {
		c.log.Error(context.Background(), "Could not NACK AMQP message.", logging.Entry("err", err))
	}
}
