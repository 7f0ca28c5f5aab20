package consumers

import (
	"context"
	"medremind/internal/app/deps"
	"medremind/internal/app/services"
	dl "medremind/internal/core/domain/logging"
	reminderconfirmations "medremind/internal/rabbitmq/consumers/reminder_confirmations"
)

func initReminderConfirmationsConsumer(deps *deps.Deps, services *services.Services) func() {
	rabbitmqChannel, err := deps.Rabbitmq.Channel()
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}

	queue := deps.Config.RabbitmqConfirmationQueue
	if err := rabbitmqChannel.QueueDeclare(queue); err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ queue.", dl.Entry("err", err))
		panic(err)
	}

	reminderconfirmations.New(
		deps.Logger,
		rabbitmqChannel,
		queue,
		services.ConfirmReminder,
	).Consume()

	deps.Logger.Info(context.Background(), "Consumer has started.", dl.Entry("queue", queue))
	return func() { rabbitmqChannel.Close() }
}

func InitConsumers(deps *deps.Deps, services *services.Services) func() {
	shutdownReminderConfirmationsConsumer := initReminderConfirmationsConsumer(deps, services)

	return func() {
		shutdownReminderConfirmationsConsumer()
	}
}
