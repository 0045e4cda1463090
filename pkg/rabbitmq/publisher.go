package rabbitmq

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const ReservationExchange = "reservations"

type Publisher struct {
	mu sync.Mutex
	*channel
	exchange string
}

func NewPublisher(url string) (*Publisher, error) {
	c, err := open(url, ReservationExchange)
	if err != nil {
		return nil, err
	}
	return &Publisher{channel: c, exchange: ReservationExchange}, nil
}

// Publish sends payload as persistent JSON. Channels are not safe for
// concurrent use, so publishes are serialized.
func (p *Publisher) Publish(routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", routingKey, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.Publish(p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}
