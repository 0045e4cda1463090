package consumer

import (
	"context"
	"fmt"
	"testing"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/repository"
	"github.com/Eursukkul/booking-microservice/reservation-service/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	calls []string
	rooms []models.Room
	err   error
}

func (f *fakeStore) UpsertProperty(ctx context.Context, p *models.Property) error {
	f.calls = append(f.calls, "property")
	return f.err
}

func (f *fakeStore) UpsertRoomClass(ctx context.Context, rc *models.RoomClass) error {
	f.calls = append(f.calls, "room_class")
	return f.err
}

func (f *fakeStore) UpsertRoom(ctx context.Context, room *models.Room) error {
	f.calls = append(f.calls, "room")
	f.rooms = append(f.rooms, *room)
	return f.err
}

func TestHandle_FullMessageInOrder(t *testing.T) {
	store := &fakeStore{}
	ic := NewInventoryConsumer(store, logger.Discard())

	body := `{
		"property":   {"id": 1, "name": "Seaside"},
		"room_class": {"id": 2, "name": "Deluxe", "base_rate": "120.00", "amenities": ["wifi"]},
		"room":       {"id": 3, "property_id": 1, "room_class_id": 2, "room_number": " 101 "}
	}`
	require.NoError(t, ic.handle(context.Background(), []byte(body)))
	assert.Equal(t, []string{"property", "room_class", "room"}, store.calls)
	require.Len(t, store.rooms, 1)
	assert.Equal(t, models.RoomAvailable, store.rooms[0].Status)
}

func TestHandle_RoomOnly(t *testing.T) {
	store := &fakeStore{}
	ic := NewInventoryConsumer(store, logger.Discard())

	body := `{"room": {"id": 3, "property_id": 1, "room_class_id": 2, "room_number": "101", "status": "maintenance"}}`
	require.NoError(t, ic.handle(context.Background(), []byte(body)))
	assert.Equal(t, []string{"room"}, store.calls)
	assert.Equal(t, models.RoomMaintenance, store.rooms[0].Status)
}

func TestHandle_InvalidMessages(t *testing.T) {
	cases := map[string]string{
		"not json":         `{"room":`,
		"empty":            `{}`,
		"property no name": `{"property": {"id": 1}}`,
		"class zero rate":  `{"room_class": {"id": 2, "name": "Deluxe", "base_rate": "0"}}`,
		"room no number":   `{"room": {"id": 3, "property_id": 1, "room_class_id": 2}}`,
		"bad status":       `{"room": {"id": 3, "property_id": 1, "room_class_id": 2, "room_number": "1", "status": "flooded"}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			store := &fakeStore{}
			err := NewInventoryConsumer(store, logger.Discard()).handle(context.Background(), []byte(body))
			assert.ErrorIs(t, err, errInvalidMessage)
			assert.Empty(t, store.calls)
		})
	}
}

func TestHandle_StoreErrorIsRetryable(t *testing.T) {
	store := &fakeStore{err: assert.AnError}
	err := NewInventoryConsumer(store, logger.Discard()).handle(context.Background(), []byte(`{"property": {"id": 1, "name": "Seaside"}}`))
	assert.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, errInvalidMessage)
}

type recordingAck struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *recordingAck) Ack(tag uint64, multiple bool) error {
	a.acked = true
	return nil
}

func (a *recordingAck) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}

func (a *recordingAck) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func TestHandleMessage_Acknowledgement(t *testing.T) {
	room := `{"room": {"id": 3, "property_id": 1, "room_class_id": 2, "room_number": "101"}}`
	cases := []struct {
		name     string
		body     string
		storeErr error
		acked    bool
		requeue  bool
	}{
		{"synced", room, nil, true, false},
		{"invalid message", `{}`, nil, false, false},
		{"missing parent", room, fmt.Errorf("%w: FOREIGN KEY constraint failed", repository.ErrConstraint), false, false},
		{"duplicate room number", room, fmt.Errorf("%w: UNIQUE constraint failed", repository.ErrConstraint), false, false},
		{"store unavailable", room, assert.AnError, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ack := &recordingAck{}
			ic := NewInventoryConsumer(&fakeStore{err: tc.storeErr}, logger.Discard())
			ic.handleMessage(amqp.Delivery{Acknowledger: ack, Body: []byte(tc.body)})

			assert.Equal(t, tc.acked, ack.acked)
			assert.Equal(t, !tc.acked, ack.nacked)
			assert.Equal(t, tc.requeue, ack.requeue)
		})
	}
}
