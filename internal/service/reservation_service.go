package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/metrics"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/pricing"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CreateReservationInput struct {
	Client          ClientInput
	RoomID          uint
	CheckIn         time.Time
	CheckOut        time.Time
	GuestCount      int
	SpecialRequests *string
}

// UpdateReservationInput holds the fields to change; nil means unchanged.
type UpdateReservationInput struct {
	CheckIn         *time.Time
	CheckOut        *time.Time
	GuestCount      *int
	SpecialRequests *string
}

type AvailabilityQuery struct {
	PropertyID  uint
	CheckIn     time.Time
	CheckOut    time.Time
	GuestCount  int
	RoomClassID *uint
	MaxPrice    *decimal.Decimal
}

type RoomQuote struct {
	Room  models.Room
	Quote pricing.Breakdown
}

// ReservationQuery filters a reservation listing. Nil fields match everything.
type ReservationQuery struct {
	ClientID    *uint
	RoomID      *uint
	Status      *models.ReservationStatus
	CheckInFrom *time.Time
	CheckInTo   *time.Time
	VIPOnly     bool
	PageRequest
}

type ReservationPage struct {
	Reservations []models.Reservation
	Total        int64
	Page         int
	Limit        int
	TotalPages   int
}

type ReservationService interface {
	Create(ctx context.Context, in CreateReservationInput) (*models.Reservation, error)
	Cancel(ctx context.Context, token string, reason *string) (*models.Reservation, error)
	Update(ctx context.Context, token string, in UpdateReservationInput) (*models.Reservation, error)
	Get(ctx context.Context, token string) (*models.Reservation, error)
	List(ctx context.Context, q ReservationQuery) (*ReservationPage, error)
	ListByClient(ctx context.Context, clientID uint, status *models.ReservationStatus, page, limit int) (*ReservationPage, error)
	AvailableRooms(ctx context.Context, q AvailabilityQuery) ([]RoomQuote, error)
	CancellationCutoff() time.Duration
}

// StatsInvalidator drops cached statistics after a write.
type StatsInvalidator interface {
	Invalidate(ctx context.Context)
}

type ReservationOptions struct {
	CancellationCutoff time.Duration
	Stats              StatsInvalidator
	Logger             logrus.FieldLogger
	Metrics            *metrics.Metrics
	Now                func() time.Time
}

type reservationService struct {
	reservations repository.ReservationRepository
	rooms        repository.RoomRepository
	clients      ClientService
	publisher    EventPublisher
	stats        StatsInvalidator
	cutoff       time.Duration
	log          logrus.FieldLogger
	metrics      *metrics.Metrics
	now          func() time.Time
}

func NewReservationService(
	reservations repository.ReservationRepository,
	rooms repository.RoomRepository,
	clients ClientService,
	publisher EventPublisher,
	opts ReservationOptions,
) ReservationService {
	if opts.CancellationCutoff <= 0 {
		opts.CancellationCutoff = 24 * time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &reservationService{
		reservations: reservations,
		rooms:        rooms,
		clients:      clients,
		publisher:    publisher,
		stats:        opts.Stats,
		cutoff:       opts.CancellationCutoff,
		log:          log.WithField("component", "reservations"),
		metrics:      opts.Metrics,
		now:          opts.Now,
	}
}

func (s *reservationService) CancellationCutoff() time.Duration {
	return s.cutoff
}

func (s *reservationService) Create(ctx context.Context, in CreateReservationInput) (*models.Reservation, error) {
	res, err := s.create(ctx, in)
	s.metrics.Operation("create", outcome(err))
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"reservation_token": res.Token,
		"room_id":           res.RoomID,
		"client_id":         res.ClientID,
	}).Info("reservation created")
	s.invalidateStats(ctx)
	publish(s.publisher, s.log, EventReservationCreated, newReservationEvent(res, s.now()))
	return res, nil
}

func (s *reservationService) create(ctx context.Context, in CreateReservationInput) (*models.Reservation, error) {
	checkIn, checkOut := models.DateOnly(in.CheckIn), models.DateOnly(in.CheckOut)
	if !checkOut.After(checkIn) {
		return nil, ErrInvalidDates
	}
	if checkIn.Before(models.DateOnly(s.now())) {
		return nil, ErrCheckInPast
	}
	if in.GuestCount < MinGuests || in.GuestCount > MaxGuests {
		return nil, ErrGuestCount
	}

	// Client lookup and the VIP provider call stay outside the transaction.
	resolved, err := s.clients.Resolve(ctx, in.Client, false)
	if err != nil {
		return nil, err
	}
	client := resolved.Client

	var result *models.Reservation
	err = s.reservations.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Lock the room row: serializes writers for this room only
		room, err := s.rooms.FindByIDForUpdate(ctx, tx, in.RoomID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}

		// 2. Room must be bookable and large enough
		if room.Status != models.RoomAvailable {
			return ErrRoomNotBookable
		}
		if in.GuestCount > room.RoomClass.MaxOccupancy {
			return ErrTooManyGuests
		}

		// 3. Re-check availability under the lock
		ok, err := s.reservations.IsAvailable(ctx, tx, room.ID, checkIn, checkOut, 0)
		if err != nil {
			return err
		}
		if !ok {
			return ErrRoomUnavailable
		}

		// 4. Price with the client's discount
		quote := pricing.Quote(room.RoomClass.BaseRate, pricing.Nights(checkIn, checkOut), client.EffectiveDiscount())

		// 5. Insert; the overlap index is the last line of defense
		res := &models.Reservation{
			Token:                  uuid.NewString(),
			RoomID:                 room.ID,
			ClientID:               client.ID,
			CheckInDate:            checkIn,
			CheckOutDate:           checkOut,
			GuestCount:             in.GuestCount,
			SpecialRequests:        trimOptional(in.SpecialRequests),
			OriginalPrice:          quote.Original,
			TotalPrice:             quote.Total,
			DiscountPercentApplied: quote.DiscountPercent,
			Status:                 models.StatusActive,
		}
		if err := s.reservations.Create(ctx, tx, res); err != nil {
			if errors.Is(err, repository.ErrOverlap) {
				return ErrRoomUnavailable
			}
			return err
		}

		res.Room = room
		res.Client = client
		result = res
		return nil
	})
	return result, err
}

func (s *reservationService) Cancel(ctx context.Context, token string, reason *string) (*models.Reservation, error) {
	var result *models.Reservation

	err := s.reservations.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res, err := s.reservations.FindByTokenForUpdate(ctx, tx, token)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}
			return err
		}

		if !res.Status.CanTransitionTo(models.StatusCancelled) {
			return ErrNotActive
		}
		now := s.now()
		if models.DateOnly(res.CheckInDate).Sub(now) <= s.cutoff {
			return ErrCancellationWindow
		}

		reason = trimOptional(reason)
		if err := s.reservations.Updates(ctx, tx, res.ID, map[string]any{
			"status":              models.StatusCancelled,
			"cancelled_at":        now,
			"cancellation_reason": reason,
		}); err != nil {
			return err
		}

		res.Status = models.StatusCancelled
		res.CancelledAt = &now
		res.CancellationReason = reason
		result = res
		return nil
	})
	s.metrics.Operation("cancel", outcome(err))
	if err != nil {
		return nil, err
	}

	s.log.WithField("reservation_token", token).Info("reservation cancelled")
	s.invalidateStats(ctx)
	publish(s.publisher, s.log, EventReservationCancelled, newReservationEvent(result, s.now()))
	return result, nil
}

func (s *reservationService) Update(ctx context.Context, token string, in UpdateReservationInput) (*models.Reservation, error) {
	res, changed, err := s.update(ctx, token, in)
	s.metrics.Operation("update", outcome(err))
	if err != nil {
		return nil, err
	}
	if changed {
		s.log.WithField("reservation_token", token).Info("reservation updated")
		s.invalidateStats(ctx)
		publish(s.publisher, s.log, EventReservationUpdated, newReservationEvent(res, s.now()))
	}
	return res, nil
}

func (s *reservationService) update(ctx context.Context, token string, in UpdateReservationInput) (*models.Reservation, bool, error) {
	current, err := s.reservations.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrReservationNotFound
		}
		return nil, false, err
	}
	if current.Status != models.StatusActive {
		return nil, false, ErrNotActive
	}

	// Repricing uses the client's cached tier; no provider call here.
	client, err := s.clients.Find(ctx, current.ClientID)
	if err != nil {
		return nil, false, err
	}

	var result *models.Reservation
	changed := false
	err = s.reservations.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res, err := s.reservations.FindByTokenForUpdate(ctx, tx, token)
		if err != nil {
			return err
		}
		if res.Status != models.StatusActive {
			return ErrNotActive
		}

		checkIn, checkOut := res.CheckInDate, res.CheckOutDate
		if in.CheckIn != nil {
			checkIn = models.DateOnly(*in.CheckIn)
		}
		if in.CheckOut != nil {
			checkOut = models.DateOnly(*in.CheckOut)
		}
		datesChanged := !checkIn.Equal(res.CheckInDate) || !checkOut.Equal(res.CheckOutDate)
		guestsChanged := in.GuestCount != nil && *in.GuestCount != res.GuestCount

		fields := map[string]any{}

		if datesChanged || guestsChanged {
			room, err := s.rooms.FindByIDForUpdate(ctx, tx, res.RoomID)
			if err != nil {
				return err
			}

			if datesChanged {
				if !checkOut.After(checkIn) {
					return ErrInvalidDates
				}
				if !checkIn.Equal(res.CheckInDate) && checkIn.Before(models.DateOnly(s.now())) {
					return ErrCheckInPast
				}
				ok, err := s.reservations.IsAvailable(ctx, tx, res.RoomID, checkIn, checkOut, res.ID)
				if err != nil {
					return err
				}
				if !ok {
					return ErrRoomUnavailable
				}

				quote := pricing.Quote(room.RoomClass.BaseRate, pricing.Nights(checkIn, checkOut), client.EffectiveDiscount())
				fields["check_in_date"] = checkIn
				fields["check_out_date"] = checkOut
				fields["original_price"] = quote.Original
				fields["total_price"] = quote.Total
				fields["discount_percent_applied"] = quote.DiscountPercent
			}

			if guestsChanged {
				g := *in.GuestCount
				if g < MinGuests || g > MaxGuests {
					return ErrGuestCount
				}
				if g > room.RoomClass.MaxOccupancy {
					return ErrTooManyGuests
				}
				fields["guest_count"] = g
			}
		}

		if in.SpecialRequests != nil {
			sr := trimOptional(in.SpecialRequests)
			if !equalOptional(sr, res.SpecialRequests) {
				fields["special_requests"] = sr
			}
		}

		if len(fields) == 0 {
			result = res
			return nil
		}
		if err := s.reservations.Updates(ctx, tx, res.ID, fields); err != nil {
			if errors.Is(err, repository.ErrOverlap) {
				return ErrRoomUnavailable
			}
			return err
		}

		updated, err := s.reservations.FindByTokenForUpdate(ctx, tx, token)
		if err != nil {
			return err
		}
		result = updated
		changed = true
		return nil
	})
	return result, changed, err
}

func (s *reservationService) Get(ctx context.Context, token string) (*models.Reservation, error) {
	res, err := s.reservations.FindByTokenWithDetails(ctx, token)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReservationNotFound
	}
	return res, err
}

func (s *reservationService) List(ctx context.Context, q ReservationQuery) (*ReservationPage, error) {
	if q.Status != nil && !q.Status.IsValid() {
		return nil, ErrInvalidStatus
	}
	if q.CheckInFrom != nil && q.CheckInTo != nil && q.CheckInTo.Before(*q.CheckInFrom) {
		return nil, fmt.Errorf("%w: check_in_to must not be before check_in_from", ErrInvalidRequest)
	}
	b, err := q.PageRequest.bounds()
	if err != nil {
		return nil, err
	}

	list, total, err := s.reservations.List(ctx, repository.ReservationFilter{
		ClientID:    q.ClientID,
		RoomID:      q.RoomID,
		Status:      q.Status,
		CheckInFrom: q.CheckInFrom,
		CheckInTo:   q.CheckInTo,
		VIPOnly:     q.VIPOnly,
		Sort:        q.Sort,
		Desc:        b.desc,
		Limit:       b.limit,
		Offset:      b.offset,
	})
	if err != nil {
		return nil, listError("reservations", err)
	}
	return &ReservationPage{
		Reservations: list,
		Total:        total,
		Page:         b.page,
		Limit:        b.limit,
		TotalPages:   totalPages(total, b.limit),
	}, nil
}

// ListByClient pages through one client's reservations, newest first.
func (s *reservationService) ListByClient(ctx context.Context, clientID uint, status *models.ReservationStatus, page, limit int) (*ReservationPage, error) {
	if _, err := s.clients.Find(ctx, clientID); err != nil {
		return nil, err
	}
	return s.List(ctx, ReservationQuery{
		ClientID:    &clientID,
		Status:      status,
		PageRequest: PageRequest{Page: page, Limit: limit},
	})
}

func (s *reservationService) AvailableRooms(ctx context.Context, q AvailabilityQuery) ([]RoomQuote, error) {
	checkIn, checkOut := models.DateOnly(q.CheckIn), models.DateOnly(q.CheckOut)
	if !checkOut.After(checkIn) {
		return nil, ErrInvalidDates
	}
	if q.GuestCount < 0 || q.GuestCount > MaxGuests {
		return nil, ErrGuestCount
	}

	rooms, err := s.rooms.FindAvailable(ctx, repository.AvailableRoomsFilter{
		PropertyID:  q.PropertyID,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		GuestCount:  q.GuestCount,
		RoomClassID: q.RoomClassID,
		MaxPrice:    q.MaxPrice,
	})
	if err != nil {
		return nil, err
	}

	nights := pricing.Nights(checkIn, checkOut)
	out := make([]RoomQuote, len(rooms))
	for i, r := range rooms {
		out[i] = RoomQuote{Room: r, Quote: pricing.Quote(r.RoomClass.BaseRate, nights, decimal.Zero)}
	}
	return out, nil
}

func (s *reservationService) invalidateStats(ctx context.Context) {
	if s.stats != nil {
		s.stats.Invalidate(ctx)
	}
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func equalOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrLifecycleViolation):
		return "lifecycle"
	default:
		return "error"
	}
}
