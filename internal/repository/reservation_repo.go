package repository

import (
	"context"
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StatsFilter struct {
	PropertyID *uint
	DateFrom   *time.Time
	DateTo     *time.Time
}

// ReservationFilter narrows a reservation listing. Nil fields match everything.
type ReservationFilter struct {
	ClientID    *uint
	RoomID      *uint
	Status      *models.ReservationStatus
	CheckInFrom *time.Time
	CheckInTo   *time.Time
	VIPOnly     bool
	Sort        string
	Desc        bool
	Limit       int
	Offset      int
}

var reservationSorts = map[string]string{
	"created_at":    "reservations.created_at",
	"updated_at":    "reservations.updated_at",
	"check_in_date": "reservations.check_in_date",
	"price":         "reservations.total_price",
}

type StatsRow struct {
	Total     int64
	Active    int64
	Cancelled int64
	Completed int64
	VIP       int64 `gorm:"column:vip"`
	Revenue   decimal.Decimal
}

type ReservationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, r *models.Reservation) error
	IsAvailable(ctx context.Context, tx *gorm.DB, roomID uint, checkIn, checkOut time.Time, excludeID uint) (bool, error)
	FindByToken(ctx context.Context, token string) (*models.Reservation, error)
	FindByTokenForUpdate(ctx context.Context, tx *gorm.DB, token string) (*models.Reservation, error)
	FindByTokenWithDetails(ctx context.Context, token string) (*models.Reservation, error)
	List(ctx context.Context, f ReservationFilter) ([]models.Reservation, int64, error)
	Updates(ctx context.Context, tx *gorm.DB, id uint, fields map[string]any) error
	CompleteEnded(ctx context.Context, today, now time.Time) (int64, error)
	Stats(ctx context.Context, f StatsFilter) (*StatsRow, error)
	GetDB() *gorm.DB
}

type reservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) GetDB() *gorm.DB {
	return r.db
}

// Create inserts the reservation. A storage-level overlap rejection is reported as ErrOverlap.
func (r *reservationRepository) Create(ctx context.Context, tx *gorm.DB, res *models.Reservation) error {
	return translate(tx.WithContext(ctx).Create(res).Error)
}

// IsAvailable reports whether no active reservation of the room intersects
// [checkIn, checkOut). excludeID, when non-zero, is left out of the check.
func (r *reservationRepository) IsAvailable(ctx context.Context, tx *gorm.DB, roomID uint, checkIn, checkOut time.Time, excludeID uint) (bool, error) {
	q := tx.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("room_id = ? AND status = ? AND check_in_date < ? AND check_out_date > ?",
			roomID, models.StatusActive, checkOut, checkIn)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

func (r *reservationRepository) FindByToken(ctx context.Context, token string) (*models.Reservation, error) {
	var res models.Reservation
	if err := r.db.WithContext(ctx).Where("reservation_token = ?", token).First(&res).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

// FindByTokenForUpdate locks the reservation row within the given transaction.
func (r *reservationRepository) FindByTokenForUpdate(ctx context.Context, tx *gorm.DB, token string) (*models.Reservation, error) {
	var res models.Reservation
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("reservation_token = ?", token).
		First(&res).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *reservationRepository) FindByTokenWithDetails(ctx context.Context, token string) (*models.Reservation, error) {
	var res models.Reservation
	if err := r.db.WithContext(ctx).
		Preload("Room.RoomClass").
		Preload("Room.Property").
		Preload("Client").
		Where("reservation_token = ?", token).
		First(&res).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

// List returns one page of reservations matching f together with the total
// number of matches. Client and room details are preloaded.
func (r *reservationRepository) List(ctx context.Context, f ReservationFilter) ([]models.Reservation, int64, error) {
	order, err := orderBy(reservationSorts, f.Sort, f.Desc, "reservations.id")
	if err != nil {
		return nil, 0, err
	}

	q := r.db.WithContext(ctx).Model(&models.Reservation{})
	if f.ClientID != nil {
		q = q.Where("reservations.client_id = ?", *f.ClientID)
	}
	if f.RoomID != nil {
		q = q.Where("reservations.room_id = ?", *f.RoomID)
	}
	if f.Status != nil {
		q = q.Where("reservations.status = ?", *f.Status)
	}
	if f.CheckInFrom != nil {
		q = q.Where("reservations.check_in_date >= ?", *f.CheckInFrom)
	}
	if f.CheckInTo != nil {
		q = q.Where("reservations.check_in_date <= ?", *f.CheckInTo)
	}
	if f.VIPOnly {
		q = q.Where("reservations.discount_percent_applied > 0")
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Reservation
	if err := q.
		Preload("Room.RoomClass").
		Preload("Room.Property").
		Preload("Client").
		Order(order).
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Updates writes only the given columns. An overlap rejection maps to ErrOverlap.
func (r *reservationRepository) Updates(ctx context.Context, tx *gorm.DB, id uint, fields map[string]any) error {
	return translate(tx.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ?", id).
		Updates(fields).Error)
}

// CompleteEnded marks every active reservation that checked out before today
// as completed and returns how many rows changed.
func (r *reservationRepository) CompleteEnded(ctx context.Context, today, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("status = ? AND check_out_date < ?", models.StatusActive, today).
		Updates(map[string]any{
			"status":       models.StatusCompleted,
			"completed_at": now,
			"updated_at":   now,
		})
	return result.RowsAffected, result.Error
}

func (r *reservationRepository) Stats(ctx context.Context, f StatsFilter) (*StatsRow, error) {
	q := r.db.WithContext(ctx).
		Table("reservations").
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN reservations.status = 'active' THEN 1 ELSE 0 END), 0) AS active,
			COALESCE(SUM(CASE WHEN reservations.status = 'cancelled' THEN 1 ELSE 0 END), 0) AS cancelled,
			COALESCE(SUM(CASE WHEN reservations.status = 'completed' THEN 1 ELSE 0 END), 0) AS completed,
			COALESCE(SUM(CASE WHEN reservations.discount_percent_applied > 0 THEN 1 ELSE 0 END), 0) AS vip,
			COALESCE(SUM(CASE WHEN reservations.status IN ('active', 'completed') THEN reservations.total_price ELSE 0 END), 0) AS revenue`)

	if f.PropertyID != nil {
		q = q.Joins("JOIN rooms ON rooms.id = reservations.room_id").
			Where("rooms.property_id = ?", *f.PropertyID)
	}
	if f.DateFrom != nil {
		q = q.Where("reservations.check_in_date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("reservations.check_in_date <= ?", *f.DateTo)
	}

	var row StatsRow
	if err := q.Scan(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
