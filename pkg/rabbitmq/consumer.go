package rabbitmq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	InventoryExchange = "inventory"
	InventoryQueue    = "reservation-service.inventory"
	InventoryBinding  = "room.*"
)

type ConsumerConfig struct {
	Exchange string
	Queue    string
	Bindings []string
	// Prefetch bounds unacknowledged deliveries; 0 leaves the broker default.
	Prefetch int
}

// InventoryConfig is the topology for room inventory updates.
func InventoryConfig() ConsumerConfig {
	return ConsumerConfig{
		Exchange: InventoryExchange,
		Queue:    InventoryQueue,
		Bindings: []string{InventoryBinding},
		Prefetch: 10,
	}
}

type Consumer struct {
	*channel
	queue string
}

func NewConsumer(url string, cfg ConsumerConfig) (*Consumer, error) {
	c, err := open(url, cfg.Exchange)
	if err != nil {
		return nil, err
	}

	q, err := c.ch.QueueDeclare(cfg.Queue, true, false, false, false, nil)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("rabbitmq queue declare %s: %w", cfg.Queue, err)
	}
	for _, key := range cfg.Bindings {
		if err := c.ch.QueueBind(q.Name, key, cfg.Exchange, false, nil); err != nil {
			c.Close()
			return nil, fmt.Errorf("rabbitmq queue bind %s: %w", key, err)
		}
	}
	if cfg.Prefetch > 0 {
		if err := c.ch.Qos(cfg.Prefetch, 0, false); err != nil {
			c.Close()
			return nil, fmt.Errorf("rabbitmq qos: %w", err)
		}
	}

	return &Consumer{channel: c, queue: q.Name}, nil
}

// Consume starts delivery with manual acknowledgement.
func (c *Consumer) Consume() (<-chan amqp.Delivery, error) {
	msgs, err := c.ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq consume: %w", err)
	}
	return msgs, nil
}
