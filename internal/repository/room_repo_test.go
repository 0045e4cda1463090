package repository

import (
	"context"
	"testing"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindByIDForUpdate_LoadsClass(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	p := seedProperty(t, db, "Seaside")
	room := seedRoom(t, db, p.ID, "101", 120, 3)

	got, err := repo.FindByIDForUpdate(ctx, db, room.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RoomClass)
	assert.Equal(t, 3, got.RoomClass.MaxOccupancy)
	assert.Equal(t, "120.00", got.RoomClass.BaseRate.StringFixed(2))

	_, err = repo.FindByIDForUpdate(ctx, db, 9999)
	assert.Error(t, err)
}

func TestFindAvailable(t *testing.T) {
	db := setupTestDB(t)
	rooms := NewRoomRepository(db)
	reservations := NewReservationRepository(db)
	ctx := context.Background()

	p := seedProperty(t, db, "Seaside")
	other := seedProperty(t, db, "Mountain")
	small := seedRoom(t, db, p.ID, "103", 80, 1)
	booked := seedRoom(t, db, p.ID, "101", 100, 2)
	suite := seedRoom(t, db, p.ID, "102", 300, 4)
	broken := seedRoom(t, db, p.ID, "104", 90, 2)
	seedRoom(t, db, other.ID, "101", 100, 2)
	require.NoError(t, db.Model(&models.Room{}).Where("id = ?", broken.ID).Update("status", models.RoomMaintenance).Error)

	c := seedClient(t, db, "a@example.com")
	require.NoError(t, reservations.Create(ctx, db, newReservation(booked.ID, c.ID, day(2025, 6, 1), day(2025, 6, 5), 400, 0)))

	list, err := rooms.FindAvailable(ctx, AvailableRoomsFilter{PropertyID: p.ID, CheckIn: day(2025, 6, 3), CheckOut: day(2025, 6, 6)})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, suite.ID, list[0].ID)
	assert.Equal(t, small.ID, list[1].ID)
	require.NotNil(t, list[0].RoomClass)

	list, err = rooms.FindAvailable(ctx, AvailableRoomsFilter{PropertyID: p.ID, CheckIn: day(2025, 6, 5), CheckOut: day(2025, 6, 6), GuestCount: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, booked.ID, list[0].ID, "check-out day is free again")
	assert.Equal(t, suite.ID, list[1].ID)

	maxPrice := decimal.NewFromInt(150)
	list, err = rooms.FindAvailable(ctx, AvailableRoomsFilter{PropertyID: p.ID, CheckIn: day(2025, 6, 5), CheckOut: day(2025, 6, 6), MaxPrice: &maxPrice})
	require.NoError(t, err)
	require.Len(t, list, 2)

	classID := suite.RoomClassID
	list, err = rooms.FindAvailable(ctx, AvailableRoomsFilter{PropertyID: p.ID, CheckIn: day(2025, 6, 5), CheckOut: day(2025, 6, 6), RoomClassID: &classID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, suite.ID, list[0].ID)
}

func TestUpsertRoom_NormalizesAndUpdates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertProperty(ctx, &models.Property{ID: 7, Name: "Harbor"}))
	require.NoError(t, repo.UpsertRoomClass(ctx, &models.RoomClass{ID: 3, Name: "Deluxe", BaseRate: decimal.NewFromInt(150), MaxOccupancy: 2}))
	require.NoError(t, repo.UpsertRoom(ctx, &models.Room{ID: 11, PropertyID: 7, RoomClassID: 3, RoomNumber: " 5a ", Status: models.RoomAvailable}))

	got, err := repo.FindByID(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, "5A", got.RoomNumber)
	assert.Equal(t, "Harbor", got.Property.Name)

	require.NoError(t, repo.UpsertRoom(ctx, &models.Room{ID: 11, PropertyID: 7, RoomClassID: 3, RoomNumber: "5A", Status: models.RoomOutOfOrder}))
	got, err = repo.FindByID(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, models.RoomOutOfOrder, got.Status)

	require.NoError(t, repo.UpsertRoomClass(ctx, &models.RoomClass{ID: 3, Name: "Deluxe", BaseRate: decimal.NewFromInt(175), MaxOccupancy: 3}))
	got, err = repo.FindByID(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, "175.00", got.RoomClass.BaseRate.StringFixed(2))
}

func TestList_Rooms(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	p := seedProperty(t, db, "Seaside")
	other := seedProperty(t, db, "Mountain")
	cheap := seedRoom(t, db, p.ID, "101", 80, 2)
	mid := seedRoom(t, db, p.ID, "102", 150, 2)
	suite := seedRoom(t, db, p.ID, "103", 300, 4)
	seedRoom(t, db, other.ID, "101", 100, 2)
	floor := 3
	require.NoError(t, db.Model(&models.Room{}).Where("id = ?", suite.ID).Updates(map[string]any{
		"status": models.RoomMaintenance,
		"floor":  floor,
	}).Error)

	list, total, err := repo.List(ctx, RoomFilter{PropertyID: &p.ID, Sort: "price", Desc: true, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, list, 2)
	assert.Equal(t, suite.ID, list[0].ID)
	assert.Equal(t, mid.ID, list[1].ID)
	require.NotNil(t, list[0].RoomClass)
	require.NotNil(t, list[0].Property)

	minPrice, maxPrice := decimal.NewFromInt(100), decimal.NewFromInt(200)
	list, _, err = repo.List(ctx, RoomFilter{PropertyID: &p.ID, MinPrice: &minPrice, MaxPrice: &maxPrice, Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mid.ID, list[0].ID)

	status := models.RoomMaintenance
	list, _, err = repo.List(ctx, RoomFilter{Status: &status, Floor: &floor, Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, suite.ID, list[0].ID)

	list, _, err = repo.List(ctx, RoomFilter{PropertyID: &p.ID, Sort: "room_number", Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, cheap.ID, list[0].ID)

	_, _, err = repo.List(ctx, RoomFilter{Sort: "floor"})
	assert.ErrorIs(t, err, ErrUnknownSort)
}

func TestListClasses_CheapestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	p := seedProperty(t, db, "Seaside")
	seedRoom(t, db, p.ID, "201", 250, 3)
	seedRoom(t, db, p.ID, "101", 90, 2)

	classes, err := repo.ListClasses(ctx)
	require.NoError(t, err)
	require.Len(t, classes, 2)
	assert.Equal(t, "90.00", classes[0].BaseRate.StringFixed(2))
	assert.Equal(t, "250.00", classes[1].BaseRate.StringFixed(2))
}

func TestUpsertRoom_DuplicateNumberIsConstraint(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertProperty(ctx, &models.Property{ID: 7, Name: "Harbor"}))
	require.NoError(t, repo.UpsertRoomClass(ctx, &models.RoomClass{ID: 3, Name: "Deluxe", BaseRate: decimal.NewFromInt(150), MaxOccupancy: 2}))
	require.NoError(t, repo.UpsertRoom(ctx, &models.Room{ID: 11, PropertyID: 7, RoomClassID: 3, RoomNumber: "5A", Status: models.RoomAvailable}))

	err := repo.UpsertRoom(ctx, &models.Room{ID: 12, PropertyID: 7, RoomClassID: 3, RoomNumber: "5a", Status: models.RoomAvailable})
	assert.ErrorIs(t, err, ErrConstraint)
}
