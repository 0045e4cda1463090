package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RoomQuery filters the room catalogue. Nil fields match everything.
type RoomQuery struct {
	PropertyID  *uint
	RoomClassID *uint
	Status      *models.RoomStatus
	Floor       *int
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	PageRequest
}

type RoomPage struct {
	Rooms      []models.Room
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// RoomService reads the room catalogue replicated from the inventory service.
type RoomService interface {
	Get(ctx context.Context, id uint) (*models.Room, error)
	List(ctx context.Context, q RoomQuery) (*RoomPage, error)
	Classes(ctx context.Context) ([]models.RoomClass, error)
}

type roomService struct {
	rooms repository.RoomRepository
}

func NewRoomService(rooms repository.RoomRepository) RoomService {
	return &roomService{rooms: rooms}
}

func (s *roomService) Get(ctx context.Context, id uint) (*models.Room, error) {
	room, err := s.rooms.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find room: %w", err)
	}
	return room, nil
}

func (s *roomService) List(ctx context.Context, q RoomQuery) (*RoomPage, error) {
	if q.Status != nil && !q.Status.IsValid() {
		return nil, ErrInvalidRoomStatus
	}
	if q.Floor != nil && *q.Floor < 0 {
		return nil, fmt.Errorf("%w: floor must not be negative", ErrInvalidRequest)
	}
	if q.MinPrice != nil && q.MaxPrice != nil && q.MinPrice.GreaterThan(*q.MaxPrice) {
		return nil, ErrPriceRange
	}
	b, err := q.PageRequest.bounds()
	if err != nil {
		return nil, err
	}

	rooms, total, err := s.rooms.List(ctx, repository.RoomFilter{
		PropertyID:  q.PropertyID,
		RoomClassID: q.RoomClassID,
		Status:      q.Status,
		Floor:       q.Floor,
		MinPrice:    q.MinPrice,
		MaxPrice:    q.MaxPrice,
		Sort:        q.Sort,
		Desc:        b.desc,
		Limit:       b.limit,
		Offset:      b.offset,
	})
	if err != nil {
		return nil, listError("rooms", err)
	}
	return &RoomPage{
		Rooms:      rooms,
		Total:      total,
		Page:       b.page,
		Limit:      b.limit,
		TotalPages: totalPages(total, b.limit),
	}, nil
}

// Classes lists every room type, cheapest first.
func (s *roomService) Classes(ctx context.Context) ([]models.RoomClass, error) {
	classes, err := s.rooms.ListClasses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list room classes: %w", err)
	}
	return classes, nil
}
