package rabbitmq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const ExchangeKind = "topic"

// channel owns one connection with a single channel on it.
type channel struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// open dials url and declares a durable topic exchange on a fresh channel.
func open(url, exchange string) (*channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	c := &channel{conn: conn, ch: ch}
	if err := ch.ExchangeDeclare(exchange, ExchangeKind, true, false, false, false, nil); err != nil {
		c.Close()
		return nil, fmt.Errorf("rabbitmq exchange declare %s: %w", exchange, err)
	}
	return c, nil
}

func (c *channel) Close() {
	if c == nil {
		return
	}
	if c.ch != nil {
		c.ch.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
}
