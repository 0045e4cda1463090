package dto

import (
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/service"
)

type ReservationResponse struct {
	Token              string                   `json:"reservation_token"`
	RoomID             uint                     `json:"room_id"`
	ClientID           uint                     `json:"client_id"`
	CheckInDate        string                   `json:"check_in_date"`
	CheckOutDate       string                   `json:"check_out_date"`
	GuestCount         int                      `json:"guest_count"`
	SpecialRequests    *string                  `json:"special_requests,omitempty"`
	OriginalPrice      string                   `json:"original_price"`
	TotalPrice         string                   `json:"total_price"`
	DiscountPercent    string                   `json:"discount_percent_applied"`
	VIPApplied         bool                     `json:"vip_discount_applied"`
	SavingsAmount      string                   `json:"savings_amount"`
	DurationNights     int                      `json:"duration_nights"`
	Status             models.ReservationStatus `json:"status"`
	CanBeCancelled     bool                     `json:"can_be_cancelled"`
	CancellationReason *string                  `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time               `json:"cancelled_at,omitempty"`
	CompletedAt        *time.Time               `json:"completed_at,omitempty"`
	CreatedAt          time.Time                `json:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at"`

	Room   *RoomResponse   `json:"room,omitempty"`
	Client *ClientResponse `json:"client,omitempty"`
}

type RoomResponse struct {
	ID           uint              `json:"id"`
	RoomNumber   string            `json:"room_number"`
	Floor        *int              `json:"floor,omitempty"`
	Status       models.RoomStatus `json:"status"`
	PropertyID   uint              `json:"property_id"`
	PropertyName string            `json:"property_name,omitempty"`
	RoomClassID  uint              `json:"room_class_id"`
	RoomClass    string            `json:"room_class,omitempty"`
	BaseRate     string            `json:"base_rate,omitempty"`
	MaxOccupancy int               `json:"max_occupancy,omitempty"`
	Amenities    []string          `json:"amenities,omitempty"`
}

type RoomQuoteResponse struct {
	RoomResponse
	Nights          int    `json:"nights"`
	PricePerNight   string `json:"price_per_night"`
	OriginalPrice   string `json:"original_price"`
	TotalPrice      string `json:"total_price"`
	DiscountPercent string `json:"discount_percent"`
	SavingsAmount   string `json:"savings_amount"`
}

type ClientResponse struct {
	ID           uint           `json:"id"`
	FirstName    string         `json:"first_name"`
	LastName     string         `json:"last_name"`
	Email        string         `json:"email"`
	Phone        *string        `json:"phone,omitempty"`
	IsVIP        bool           `json:"is_vip"`
	VIPTier      models.VIPTier `json:"vip_tier"`
	VIPDiscount  string         `json:"vip_discount"`
	VIPCheckedAt *time.Time     `json:"vip_checked_at,omitempty"`
}

type VIPStatusResponse struct {
	ClientResponse
	FromCache bool `json:"from_cache"`
	Degraded  bool `json:"degraded"`
}

type ReservationPageResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	Total        int64                 `json:"total"`
	Page         int                   `json:"page"`
	Limit        int                   `json:"limit"`
	TotalPages   int                   `json:"total_pages"`
}

type RoomPageResponse struct {
	Rooms      []RoomResponse `json:"rooms"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

type RoomClassResponse struct {
	ID           uint     `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	BaseRate     string   `json:"base_rate"`
	MaxOccupancy int      `json:"max_occupancy"`
	Amenities    []string `json:"amenities,omitempty"`
}

type ClientPageResponse struct {
	Clients    []ClientResponse `json:"clients"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

type CompletedResponse struct {
	Completed int64 `json:"completed"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

// ToReservationResponse renders r as seen at now; cutoff decides can_be_cancelled.
func ToReservationResponse(r *models.Reservation, now time.Time, cutoff time.Duration) ReservationResponse {
	resp := ReservationResponse{
		Token:              r.Token,
		RoomID:             r.RoomID,
		ClientID:           r.ClientID,
		CheckInDate:        r.CheckInDate.Format(time.DateOnly),
		CheckOutDate:       r.CheckOutDate.Format(time.DateOnly),
		GuestCount:         r.GuestCount,
		SpecialRequests:    r.SpecialRequests,
		OriginalPrice:      r.OriginalPrice.StringFixed(2),
		TotalPrice:         r.TotalPrice.StringFixed(2),
		DiscountPercent:    r.DiscountPercentApplied.StringFixed(2),
		VIPApplied:         r.DiscountPercentApplied.IsPositive(),
		SavingsAmount:      r.Savings().StringFixed(2),
		DurationNights:     r.Nights(),
		Status:             r.Status,
		CanBeCancelled:     r.CanBeCancelled(now, cutoff),
		CancellationReason: r.CancellationReason,
		CancelledAt:        r.CancelledAt,
		CompletedAt:        r.CompletedAt,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
	if r.Room != nil {
		room := ToRoomResponse(r.Room)
		resp.Room = &room
	}
	if r.Client != nil {
		c := ToClientResponse(r.Client)
		resp.Client = &c
	}
	return resp
}

func ToRoomResponse(r *models.Room) RoomResponse {
	resp := RoomResponse{
		ID:          r.ID,
		RoomNumber:  r.RoomNumber,
		Floor:       r.Floor,
		Status:      r.Status,
		PropertyID:  r.PropertyID,
		RoomClassID: r.RoomClassID,
	}
	if r.Property != nil {
		resp.PropertyName = r.Property.Name
	}
	if rc := r.RoomClass; rc != nil {
		resp.RoomClass = rc.Name
		resp.BaseRate = rc.BaseRate.StringFixed(2)
		resp.MaxOccupancy = rc.MaxOccupancy
		resp.Amenities = rc.Amenities
	}
	return resp
}

func ToRoomQuoteResponse(q service.RoomQuote) RoomQuoteResponse {
	return RoomQuoteResponse{
		RoomResponse:    ToRoomResponse(&q.Room),
		Nights:          q.Quote.Nights,
		PricePerNight:   q.Quote.PricePerNight.StringFixed(2),
		OriginalPrice:   q.Quote.Original.StringFixed(2),
		TotalPrice:      q.Quote.Total.StringFixed(2),
		DiscountPercent: q.Quote.DiscountPercent.StringFixed(2),
		SavingsAmount:   q.Quote.Savings.StringFixed(2),
	}
}

func ToClientResponse(c *models.Client) ClientResponse {
	return ClientResponse{
		ID:           c.ID,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Email:        c.Email,
		Phone:        c.Phone,
		IsVIP:        c.IsVIP,
		VIPTier:      c.VIPTier,
		VIPDiscount:  c.VIPDiscount.StringFixed(2),
		VIPCheckedAt: c.VIPCheckedAt,
	}
}

func ToVIPStatusResponse(r *service.VIPResult) VIPStatusResponse {
	return VIPStatusResponse{
		ClientResponse: ToClientResponse(r.Client),
		FromCache:      r.FromCache,
		Degraded:       r.Degraded,
	}
}

func ToReservationPageResponse(p *service.ReservationPage, now time.Time, cutoff time.Duration) ReservationPageResponse {
	out := make([]ReservationResponse, len(p.Reservations))
	for i := range p.Reservations {
		out[i] = ToReservationResponse(&p.Reservations[i], now, cutoff)
	}
	return ReservationPageResponse{
		Reservations: out,
		Total:        p.Total,
		Page:         p.Page,
		Limit:        p.Limit,
		TotalPages:   p.TotalPages,
	}
}

func ToRoomPageResponse(p *service.RoomPage) RoomPageResponse {
	out := make([]RoomResponse, len(p.Rooms))
	for i := range p.Rooms {
		out[i] = ToRoomResponse(&p.Rooms[i])
	}
	return RoomPageResponse{
		Rooms:      out,
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
	}
}

func ToRoomClassResponses(classes []models.RoomClass) []RoomClassResponse {
	out := make([]RoomClassResponse, len(classes))
	for i, rc := range classes {
		out[i] = RoomClassResponse{
			ID:           rc.ID,
			Name:         rc.Name,
			Description:  rc.Description,
			BaseRate:     rc.BaseRate.StringFixed(2),
			MaxOccupancy: rc.MaxOccupancy,
			Amenities:    rc.Amenities,
		}
	}
	return out
}

func ToClientPageResponse(p *service.ClientPage) ClientPageResponse {
	out := make([]ClientResponse, len(p.Clients))
	for i := range p.Clients {
		out[i] = ToClientResponse(&p.Clients[i])
	}
	return ClientPageResponse{
		Clients:    out,
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
	}
}
