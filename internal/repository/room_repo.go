package repository

import (
	"context"
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AvailableRoomsFilter struct {
	PropertyID  uint
	CheckIn     time.Time
	CheckOut    time.Time
	GuestCount  int
	RoomClassID *uint
	MaxPrice    *decimal.Decimal
}

// RoomFilter narrows a room listing. Nil fields match everything.
type RoomFilter struct {
	PropertyID  *uint
	RoomClassID *uint
	Status      *models.RoomStatus
	Floor       *int
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	Sort        string
	Desc        bool
	Limit       int
	Offset      int
}

var roomSorts = map[string]string{
	"created_at":  "rooms.created_at",
	"updated_at":  "rooms.updated_at",
	"room_number": "rooms.room_number",
	"price":       "room_classes.base_rate",
	"name":        "room_classes.name",
}

type RoomRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Room, error)
	List(ctx context.Context, f RoomFilter) ([]models.Room, int64, error)
	ListClasses(ctx context.Context) ([]models.RoomClass, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Room, error)
	FindAvailable(ctx context.Context, f AvailableRoomsFilter) ([]models.Room, error)
	UpsertProperty(ctx context.Context, p *models.Property) error
	UpsertRoomClass(ctx context.Context, rc *models.RoomClass) error
	UpsertRoom(ctx context.Context, room *models.Room) error
}

type roomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) FindByID(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := r.db.WithContext(ctx).
		Preload("RoomClass").
		Preload("Property").
		First(&room, id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) List(ctx context.Context, f RoomFilter) ([]models.Room, int64, error) {
	order, err := orderBy(roomSorts, f.Sort, f.Desc, "rooms.id")
	if err != nil {
		return nil, 0, err
	}

	q := r.db.WithContext(ctx).
		Model(&models.Room{}).
		Joins("JOIN room_classes ON room_classes.id = rooms.room_class_id")
	if f.PropertyID != nil {
		q = q.Where("rooms.property_id = ?", *f.PropertyID)
	}
	if f.RoomClassID != nil {
		q = q.Where("rooms.room_class_id = ?", *f.RoomClassID)
	}
	if f.Status != nil {
		q = q.Where("rooms.status = ?", *f.Status)
	}
	if f.Floor != nil {
		q = q.Where("rooms.floor = ?", *f.Floor)
	}
	if f.MinPrice != nil {
		q = q.Where("room_classes.base_rate >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("room_classes.base_rate <= ?", *f.MaxPrice)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rooms []models.Room
	if err := q.
		Preload("RoomClass").
		Preload("Property").
		Order(order).
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&rooms).Error; err != nil {
		return nil, 0, err
	}
	return rooms, total, nil
}

// ListClasses returns every room class, cheapest first.
func (r *roomRepository) ListClasses(ctx context.Context) ([]models.RoomClass, error) {
	var classes []models.RoomClass
	if err := r.db.WithContext(ctx).Order("base_rate ASC, id ASC").Find(&classes).Error; err != nil {
		return nil, err
	}
	return classes, nil
}

// FindByIDForUpdate acquires a row-level lock on the room within the given
// transaction and loads its class through the same transaction.
func (r *roomRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Room, error) {
	var room models.Room
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&room, id).Error; err != nil {
		return nil, err
	}

	var class models.RoomClass
	if err := tx.WithContext(ctx).First(&class, room.RoomClassID).Error; err != nil {
		return nil, err
	}
	room.RoomClass = &class
	return &room, nil
}

// FindAvailable lists bookable rooms of a property with no active reservation
// intersecting [CheckIn, CheckOut), ordered by room number.
func (r *roomRepository) FindAvailable(ctx context.Context, f AvailableRoomsFilter) ([]models.Room, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Room{}).
		Joins("JOIN room_classes ON room_classes.id = rooms.room_class_id").
		Where("rooms.property_id = ? AND rooms.status = ?", f.PropertyID, models.RoomAvailable).
		Where(`NOT EXISTS (
			SELECT 1 FROM reservations res
			WHERE res.room_id = rooms.id
			AND res.status = ?
			AND res.check_in_date < ?
			AND res.check_out_date > ?
		)`, models.StatusActive, f.CheckOut, f.CheckIn)

	if f.GuestCount > 0 {
		q = q.Where("room_classes.max_occupancy >= ?", f.GuestCount)
	}
	if f.RoomClassID != nil {
		q = q.Where("rooms.room_class_id = ?", *f.RoomClassID)
	}
	if f.MaxPrice != nil {
		q = q.Where("room_classes.base_rate <= ?", *f.MaxPrice)
	}

	var rooms []models.Room
	if err := q.
		Preload("RoomClass").
		Order("rooms.room_number ASC").
		Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

// UpsertProperty inserts or updates by id. The upserts report foreign key and
// unique rejections as ErrConstraint.
func (r *roomRepository) UpsertProperty(ctx context.Context, p *models.Property) error {
	return translate(r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "address", "phone", "email", "updated_at"}),
	}).Create(p).Error)
}

func (r *roomRepository) UpsertRoomClass(ctx context.Context, rc *models.RoomClass) error {
	return translate(r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "description", "base_rate", "max_occupancy", "amenities", "updated_at"}),
	}).Create(rc).Error)
}

func (r *roomRepository) UpsertRoom(ctx context.Context, room *models.Room) error {
	room.Normalize()
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"property_id", "room_class_id", "room_number", "floor", "status", "updated_at"}),
	}).Create(room).Error)
}
