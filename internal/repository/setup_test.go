package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"github.com/Eursukkul/booking-microservice/reservation-service/pkg/database"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedProperty(t *testing.T, db *gorm.DB, name string) *models.Property {
	t.Helper()
	p := &models.Property{Name: name}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedRoom(t *testing.T, db *gorm.DB, propertyID uint, number string, rate int64, maxOccupancy int) *models.Room {
	t.Helper()
	class := &models.RoomClass{
		Name:         "Class " + number,
		BaseRate:     decimal.NewFromInt(rate),
		MaxOccupancy: maxOccupancy,
		Amenities:    []string{"wifi"},
	}
	require.NoError(t, db.Create(class).Error)

	room := &models.Room{
		PropertyID:  propertyID,
		RoomClassID: class.ID,
		RoomNumber:  number,
		Status:      models.RoomAvailable,
	}
	require.NoError(t, db.Create(room).Error)
	room.RoomClass = class
	return room
}

func seedClient(t *testing.T, db *gorm.DB, email string) *models.Client {
	t.Helper()
	c := &models.Client{FirstName: "Test", LastName: "Guest", Email: email, VIPTier: models.TierStandard}
	require.NoError(t, db.Create(c).Error)
	return c
}

func newReservation(roomID, clientID uint, in, out time.Time, total int64, discount int64) *models.Reservation {
	return &models.Reservation{
		Token:                  uuid.NewString(),
		RoomID:                 roomID,
		ClientID:               clientID,
		CheckInDate:            in,
		CheckOutDate:           out,
		GuestCount:             1,
		OriginalPrice:          decimal.NewFromInt(total),
		TotalPrice:             decimal.NewFromInt(total),
		DiscountPercentApplied: decimal.NewFromInt(discount),
		Status:                 models.StatusActive,
	}
}
