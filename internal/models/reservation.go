package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Reservation struct {
	ID                     uint              `gorm:"primaryKey" json:"-"`
	Token                  string            `gorm:"column:reservation_token;type:varchar(36);not null;uniqueIndex" json:"reservation_token"`
	RoomID                 uint              `gorm:"not null;index:idx_reservations_room_dates,priority:1" json:"room_id"`
	ClientID               uint              `gorm:"not null;index" json:"client_id"`
	CheckInDate            time.Time         `gorm:"type:date;not null;index:idx_reservations_room_dates,priority:2" json:"check_in_date"`
	CheckOutDate           time.Time         `gorm:"type:date;not null;index:idx_reservations_room_dates,priority:3" json:"check_out_date"`
	GuestCount             int               `gorm:"not null;default:1" json:"guest_count"`
	SpecialRequests        *string           `gorm:"type:text" json:"special_requests,omitempty"`
	OriginalPrice          decimal.Decimal   `gorm:"type:numeric(10,2);not null" json:"original_price"`
	TotalPrice             decimal.Decimal   `gorm:"type:numeric(10,2);not null" json:"total_price"`
	DiscountPercentApplied decimal.Decimal   `gorm:"type:numeric(5,2);not null;default:0" json:"discount_percent_applied"`
	Status                 ReservationStatus `gorm:"type:varchar(20);not null;default:'active';index:idx_reservations_room_dates,priority:4" json:"status"`
	CancellationReason     *string           `gorm:"type:text" json:"cancellation_reason,omitempty"`
	CancelledAt            *time.Time        `json:"cancelled_at,omitempty"`
	CompletedAt            *time.Time        `json:"completed_at,omitempty"`
	CreatedAt              time.Time         `json:"created_at"`
	UpdatedAt              time.Time         `json:"updated_at"`

	Room   *Room   `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	Client *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

// Nights is the number of nights covered by the stay.
func (r *Reservation) Nights() int {
	return int(r.CheckOutDate.Sub(r.CheckInDate).Hours() / 24)
}

func (r *Reservation) Savings() decimal.Decimal {
	return r.OriginalPrice.Sub(r.TotalPrice)
}

// CanBeCancelled reports whether a cancel at now would pass both the
// lifecycle and the cutoff checks.
func (r *Reservation) CanBeCancelled(now time.Time, cutoff time.Duration) bool {
	if !r.Status.CanTransitionTo(StatusCancelled) {
		return false
	}
	return DateOnly(r.CheckInDate).Sub(now) > cutoff
}
