/**
 * @description
 * RabbitMQ consumer side of the reminder pipeline. It binds a durable queue
 * to the notifications exchange and hands each delivery to a callback.
 *
 * Key features:
 * - Declares the topic exchange, a durable queue, and binds them with a
 *   routing key.
 * - Consume runs until the context is canceled and acknowledges messages
 *   based on the callback's result.
 *
 * @dependencies
 * - github.com/rabbitmq/amqp091-go: The official Go client for RabbitMQ.
 */
package rabbitmq

import (
	"context"

	"github.com/rabbitmq/amqp091-go"
)

// Consumer handles the connection and consumption of reminder messages.
type Consumer struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

// MessageHandler processes a single message body. It returns true to
// acknowledge the message, or false to reject it without requeueing
// (reminder delivery is at-most-once).
type MessageHandler func(body []byte) bool

// NewConsumer creates a new RabbitMQ consumer.
func NewConsumer(amqpURL string) (*Consumer, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp091.Dial(cleanURL)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &Consumer{conn: conn, channel: channel}, nil
}

// Consume binds queueName to the notifications exchange under routingKey
// and processes deliveries until ctx is canceled.
func (c *Consumer) Consume(ctx context.Context, queueName, routingKey string, handler MessageHandler) error {
	err := c.channel.ExchangeDeclare(
		NotificationsExchange, // name
		"topic",               // type
		true,                  // durable
		false,                 // auto-deleted
		false,                 // internal
		false,                 // no-wait
		nil,                   // arguments
	)
	if err != nil {
		return err
	}

	q, err := c.channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return err
	}

	err = c.channel.QueueBind(
		q.Name,                // queue name
		routingKey,            // routing key
		NotificationsExchange, // exchange
		false,
		nil,
	)
	if err != nil {
		return err
	}

	msgs, err := c.channel.Consume(
		q.Name, // queue
		"",     // consumer
		false,  // auto-ack (we want manual acknowledgment)
		false,  // exclusive
		false,  // no-local
		false,  // no-wait
		nil,    // args
	)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			if handler(d.Body) {
				d.Ack(false)
			} else {
				// No requeue: a reminder that failed to deliver is dropped.
				d.Nack(false, false)
			}
		}
	}
}

// Close gracefully closes the channel and connection.
func (c *Consumer) Close() {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
}
