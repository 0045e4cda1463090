package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/repository"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// InventoryStore is the part of the room repository the consumer writes to.
type InventoryStore interface {
	UpsertProperty(ctx context.Context, p *models.Property) error
	UpsertRoomClass(ctx context.Context, rc *models.RoomClass) error
	UpsertRoom(ctx context.Context, room *models.Room) error
}

// InventoryMessage is published by the property management side whenever a
// property, room class or room changes. Any subset of the parts may be set.
type InventoryMessage struct {
	Property  *models.Property  `json:"property"`
	RoomClass *models.RoomClass `json:"room_class"`
	Room      *models.Room      `json:"room"`
}

// errInvalidMessage marks deliveries that will never succeed and must not be
// requeued. Store constraint rejections are treated the same way.
var errInvalidMessage = errors.New("invalid inventory message")

type InventoryConsumer struct {
	store   InventoryStore
	log     logrus.FieldLogger
	timeout time.Duration
}

func NewInventoryConsumer(store InventoryStore, log logrus.FieldLogger) *InventoryConsumer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &InventoryConsumer{store: store, log: log.WithField("component", "inventory-consumer"), timeout: 10 * time.Second}
}

// Start syncs room inventory from msgs until the channel is closed.
func (ic *InventoryConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			ic.handleMessage(msg)
		}
		ic.log.Info("delivery channel closed, stopping consumer")
	}()
}

func (ic *InventoryConsumer) handleMessage(msg amqp.Delivery) {
	ctx, cancel := context.WithTimeout(context.Background(), ic.timeout)
	defer cancel()

	log := ic.log.WithField("routing_key", msg.RoutingKey)
	err := ic.handle(ctx, msg.Body)
	switch {
	case err == nil:
		_ = msg.Ack(false)
	case errors.Is(err, errInvalidMessage), errors.Is(err, repository.ErrConstraint):
		log.WithError(err).Warn("dropping inventory message")
		_ = msg.Nack(false, false)
	default:
		log.WithError(err).Error("failed to sync inventory, requeueing")
		_ = msg.Nack(false, true)
	}
}

func (ic *InventoryConsumer) handle(ctx context.Context, body []byte) error {
	var m InventoryMessage
	if err := json.Unmarshal(body, &m); err != nil {
		return fmt.Errorf("%w: %v", errInvalidMessage, err)
	}
	if m.Property == nil && m.RoomClass == nil && m.Room == nil {
		return fmt.Errorf("%w: empty message", errInvalidMessage)
	}

	// Parents first so the room's references exist.
	if m.Property != nil {
		if m.Property.ID == 0 || m.Property.Name == "" {
			return fmt.Errorf("%w: property needs id and name", errInvalidMessage)
		}
		if err := ic.store.UpsertProperty(ctx, m.Property); err != nil {
			return fmt.Errorf("upsert property %d: %w", m.Property.ID, err)
		}
	}
	if rc := m.RoomClass; rc != nil {
		if rc.ID == 0 || rc.Name == "" || !rc.BaseRate.IsPositive() {
			return fmt.Errorf("%w: room class needs id, name and a positive base rate", errInvalidMessage)
		}
		if rc.MaxOccupancy <= 0 {
			rc.MaxOccupancy = 2
		}
		if err := ic.store.UpsertRoomClass(ctx, rc); err != nil {
			return fmt.Errorf("upsert room class %d: %w", rc.ID, err)
		}
	}
	if r := m.Room; r != nil {
		if r.ID == 0 || r.PropertyID == 0 || r.RoomClassID == 0 || r.RoomNumber == "" {
			return fmt.Errorf("%w: room needs id, property, class and number", errInvalidMessage)
		}
		if r.Status == "" {
			r.Status = models.RoomAvailable
		}
		if !r.Status.IsValid() {
			return fmt.Errorf("%w: unknown room status %q", errInvalidMessage, r.Status)
		}
		if err := ic.store.UpsertRoom(ctx, r); err != nil {
			return fmt.Errorf("upsert room %d: %w", r.ID, err)
		}
		ic.log.WithFields(logrus.Fields{"room_id": r.ID, "room_number": r.RoomNumber, "status": r.Status}).Info("synced room")
	}
	return nil
}
