package service

import (
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	EventReservationCreated   = "reservation.created"
	EventReservationUpdated   = "reservation.updated"
	EventReservationCancelled = "reservation.cancelled"
	EventReservationCompleted = "reservation.completed"
)

// EventPublisher delivers domain events after their transaction commits.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

type ReservationEvent struct {
	Token        string                   `json:"reservation_token"`
	RoomID       uint                     `json:"room_id"`
	ClientID     uint                     `json:"client_id"`
	Status       models.ReservationStatus `json:"status"`
	CheckInDate  string                   `json:"check_in_date"`
	CheckOutDate string                   `json:"check_out_date"`
	TotalPrice   string                   `json:"total_price"`
	OccurredAt   time.Time                `json:"occurred_at"`
}

type CompletionEvent struct {
	Completed  int64     `json:"completed"`
	Before     string    `json:"check_out_before"`
	OccurredAt time.Time `json:"occurred_at"`
}

func newReservationEvent(r *models.Reservation, at time.Time) ReservationEvent {
	return ReservationEvent{
		Token:        r.Token,
		RoomID:       r.RoomID,
		ClientID:     r.ClientID,
		Status:       r.Status,
		CheckInDate:  r.CheckInDate.Format(time.DateOnly),
		CheckOutDate: r.CheckOutDate.Format(time.DateOnly),
		TotalPrice:   r.TotalPrice.StringFixed(2),
		OccurredAt:   at,
	}
}

// publish never fails the caller; delivery problems are only logged.
func publish(p EventPublisher, log logrus.FieldLogger, key string, payload any) {
	if p == nil {
		return
	}
	if err := p.Publish(key, payload); err != nil {
		log.WithError(err).WithField("routing_key", key).Warn("failed to publish event")
	}
}
