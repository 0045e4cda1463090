package dto

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/service"
	"github.com/shopspring/decimal"
)

var ErrMissingField = errors.New("missing required field")

type ClientRequest struct {
	FirstName string  `json:"first_name" validate:"required,notblank,max=100"`
	LastName  string  `json:"last_name" validate:"required,notblank,max=100"`
	Email     string  `json:"email" validate:"required,email,max=255"`
	Phone     *string `json:"phone" validate:"omitempty,min=7,max=20"`
}

type CreateReservationRequest struct {
	ClientRequest
	RoomID          uint    `json:"room_id" validate:"required"`
	CheckInDate     string  `json:"check_in_date" validate:"required,datetime=2006-01-02"`
	CheckOutDate    string  `json:"check_out_date" validate:"required,datetime=2006-01-02"`
	GuestCount      *int    `json:"guest_count" validate:"omitempty,min=1,max=20"`
	SpecialRequests *string `json:"special_requests" validate:"omitempty,max=1000"`
}

type UpdateReservationRequest struct {
	CheckInDate     *string `json:"check_in_date" validate:"omitempty,datetime=2006-01-02"`
	CheckOutDate    *string `json:"check_out_date" validate:"omitempty,datetime=2006-01-02"`
	GuestCount      *int    `json:"guest_count" validate:"omitempty,min=1,max=20"`
	SpecialRequests *string `json:"special_requests" validate:"omitempty,max=1000"`
}

type CancelReservationRequest struct {
	Reason *string `json:"reason" validate:"omitempty,max=500"`
}

func (r ClientRequest) ToInput() service.ClientInput {
	return service.ClientInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
	}
}

// ToInput converts a validated request. An absent guest count means one guest.
func (r CreateReservationRequest) ToInput() (service.CreateReservationInput, error) {
	checkIn, err := ParseDate("check_in_date", r.CheckInDate)
	if err != nil {
		return service.CreateReservationInput{}, err
	}
	checkOut, err := ParseDate("check_out_date", r.CheckOutDate)
	if err != nil {
		return service.CreateReservationInput{}, err
	}
	guests := 1
	if r.GuestCount != nil {
		guests = *r.GuestCount
	}
	return service.CreateReservationInput{
		Client:          r.ClientRequest.ToInput(),
		RoomID:          r.RoomID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		GuestCount:      guests,
		SpecialRequests: r.SpecialRequests,
	}, nil
}

func (r UpdateReservationRequest) ToInput() (service.UpdateReservationInput, error) {
	in := service.UpdateReservationInput{
		GuestCount:      r.GuestCount,
		SpecialRequests: r.SpecialRequests,
	}
	if r.CheckInDate != nil {
		d, err := ParseDate("check_in_date", *r.CheckInDate)
		if err != nil {
			return in, err
		}
		in.CheckIn = &d
	}
	if r.CheckOutDate != nil {
		d, err := ParseDate("check_out_date", *r.CheckOutDate)
		if err != nil {
			return in, err
		}
		in.CheckOut = &d
	}
	return in, nil
}

// ParseDate accepts a calendar date in YYYY-MM-DD form.
func ParseDate(field, v string) (time.Time, error) {
	if strings.TrimSpace(v) == "" {
		return time.Time{}, fmt.Errorf("%w: %s", ErrMissingField, field)
	}
	t, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(v), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be a date in YYYY-MM-DD format", field)
	}
	return t, nil
}

// ParseDecimal is used for money query parameters.
func ParseDecimal(field, v string) (*decimal.Decimal, error) {
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		return nil, fmt.Errorf("%s must be a non-negative number", field)
	}
	return &d, nil
}
