package rabbitmq

import (
	"context"
	e "medremind/internal/core/domain/errors"
	"medremind/internal/core/domain/logging"
	"sync"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const reconnectDelay = 3 * time.Second

// Connection redials the broker whenever the underlying connection drops.
type Connection struct {
	conn   *amqp.Connection
	lock   sync.RWMutex
	closed atomic.Bool
	log    logging.Logger
}

func Dial(url string, log logging.Logger) (*Connection, error) {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	connection := &Connection{conn: conn, log: log}

	go func() {
		for {
			reason, ok := <-connection.current().NotifyClose(make(chan *amqp.Error, 1))
			if !ok || connection.closed.Load() {
				log.Info(context.Background(), "RabbitMQ connection closed.")
				return
			}

			log.Warning(context.Background(), "RabbitMQ connection lost.", logging.Entry("reason", reason))
			for !connection.closed.Load() {
				time.Sleep(reconnectDelay)

				conn, err := amqp.Dial(url)
				if err == nil {
					connection.lock.Lock()
					connection.conn = conn
					connection.lock.Unlock()
					log.Info(context.Background(), "RabbitMQ reconnect success.")
					break
				}
				log.Error(context.Background(), "RabbitMQ reconnect failed.", logging.Entry("err", err))
			}
		}
	}()

	return connection, nil
}

func (c *Connection) current() *amqp.Connection {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.conn
}

func (c *Connection) Close() error {
	c.closed.Store(true)
	return c.current().Close()
}

// Channel opens a channel that is reopened after broker-side closes.
func (c *Connection) Channel() (*Channel, error) {
	ch, err := c.current().Channel()
	if err != nil {
		return nil, err
	}
	channel := &Channel{ch: ch, log: c.log}

	go func() {
		for {
			reason, ok := <-channel.current().NotifyClose(make(chan *amqp.Error, 1))
			if !ok || channel.IsClosed() {
				channel.Close()
				return
			}

			c.log.Warning(context.Background(), "RabbitMQ channel closed.", logging.Entry("reason", reason))
			for !channel.IsClosed() {
				time.Sleep(reconnectDelay)

				ch, err := c.current().Channel()
				if err == nil {
					channel.lock.Lock()
					channel.ch = ch
					channel.lock.Unlock()
					c.log.Info(context.Background(), "RabbitMQ channel recreated.")
					break
				}
				c.log.Error(context.Background(), "RabbitMQ channel recreate failed.", logging.Entry("err", err))
			}
		}
	}()

	return channel, nil
}

type Channel struct {
	ch     *amqp.Channel
	lock   sync.RWMutex
	closed atomic.Bool
	log    logging.Logger
}

func (ch *Channel) current() *amqp.Channel {
	ch.lock.RLock()
	defer ch.lock.RUnlock()
	return ch.ch
}

// IsClosed reports whether Close has been called.
func (ch *Channel) IsClosed() bool {
	return ch.closed.Load()
}

func (ch *Channel) Close() error {
	if !ch.closed.CompareAndSwap(false, true) {
		return amqp.ErrClosed
	}
	return ch.current().Close()
}

func (ch *Channel) QueueDeclare(name string) error {
	_, err := ch.current().QueueDeclare(name, true, false, false, false, nil)
	return err
}

func (ch *Channel) ExchangeDeclare(name string, kind string) error {
	return ch.current().ExchangeDeclare(name, kind, true, false, false, false, nil)
}

func (ch *Channel) PublishWithContext(ctx context.Context, exchange, key string, msg amqp.Publishing) error {
	return ch.current().PublishWithContext(ctx, exchange, key, false, false, msg)
}

// Consume keeps delivering from queue across channel recreation until the channel is closed.
func (ch *Channel) Consume(queue string, consumer string) <-chan amqp.Delivery {
	deliveries := make(chan amqp.Delivery)

	go func() {
		defer close(deliveries)
		for !ch.IsClosed() {
			d, err := ch.current().Consume(queue, consumer, false, false, false, false, nil)
			if err != nil {
				ch.log.Error(context.Background(), "Consume failed.", logging.Entry("err", err), logging.Entry("queue", queue))
				time.Sleep(reconnectDelay)
				continue
			}

			for msg := range d {
				deliveries <- msg
			}

			// The closed flag may be set right after the delivery channel ends.
			time.Sleep(reconnectDelay)
		}
		ch.log.Info(context.Background(), "Channel is closed, stop consuming.", logging.Entry("queue", queue))
	}()

	return deliveries
}
