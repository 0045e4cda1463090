package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/repository"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/vip"
	"github.com/Eursukkul/booking-microservice/reservation-service/pkg/database"
	"github.com/Eursukkul/booking-microservice/reservation-service/pkg/logger"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testNow = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// --- Stub VIP provider ---

type stubProvider struct {
	mu       sync.Mutex
	statuses map[string]vip.Status
	failFor  map[string]bool
	err      error
	calls    int
}

func newStubProvider() *stubProvider {
	return &stubProvider{statuses: map[string]vip.Status{}, failFor: map[string]bool{}}
}

func (p *stubProvider) setVIP(email, tier string, discount int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.statuses[email] = vip.Status{IsVIP: true, Tier: tier, Discount: decimal.NewFromInt(discount)}
}

func (p *stubProvider) Lookup(ctx context.Context, email string) (*vip.Status, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil || p.failFor[email] {
		return nil, errors.New("provider unreachable")
	}
	if s, ok := p.statuses[email]; ok {
		return &s, nil
	}
	return &vip.Status{Tier: "standard"}, nil
}

func (p *stubProvider) Healthy(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err == nil
}

func (p *stubProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// --- Recording publisher ---

type published struct {
	key     string
	payload any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (p *recordingPublisher) Publish(key string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{key: key, payload: payload})
	return p.err
}

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.key
	}
	return out
}

// --- Fixture ---

type fixture struct {
	db           *gorm.DB
	provider     *stubProvider
	publisher    *recordingPublisher
	reservations repository.ReservationRepository
	rooms        repository.RoomRepository
	clientRepo   repository.ClientRepository
	clients      ClientService
	svc          ReservationService
	property     *models.Property
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupTestDB(t)
	f := &fixture{
		db:           db,
		provider:     newStubProvider(),
		publisher:    &recordingPublisher{},
		reservations: repository.NewReservationRepository(db),
		rooms:        repository.NewRoomRepository(db),
		clientRepo:   repository.NewClientRepository(db),
	}
	f.clients = NewClientService(f.clientRepo, f.provider, ClientOptions{
		Logger: logger.Discard(),
		Now:    fixedClock,
	})
	f.svc = NewReservationService(f.reservations, f.rooms, f.clients, f.publisher, ReservationOptions{
		Logger: logger.Discard(),
		Now:    fixedClock,
	})

	f.property = &models.Property{Name: "Seaside"}
	require.NoError(t, db.Create(f.property).Error)
	return f
}

func (f *fixture) room(t *testing.T, number string, rate string, maxOccupancy int) *models.Room {
	t.Helper()
	class := &models.RoomClass{Name: "Class " + number, BaseRate: decimal.RequireFromString(rate), MaxOccupancy: maxOccupancy}
	require.NoError(t, f.db.Create(class).Error)
	room := &models.Room{PropertyID: f.property.ID, RoomClassID: class.ID, RoomNumber: number, Status: models.RoomAvailable}
	require.NoError(t, f.db.Create(room).Error)
	room.RoomClass = class
	return room
}

func guest(email string) ClientInput {
	return ClientInput{FirstName: "Test", LastName: "Guest", Email: email}
}

func (f *fixture) book(t *testing.T, roomID uint, email string, in, out time.Time) *models.Reservation {
	t.Helper()
	res, err := f.svc.Create(context.Background(), CreateReservationInput{
		Client:     guest(email),
		RoomID:     roomID,
		CheckIn:    in,
		CheckOut:   out,
		GuestCount: 1,
	})
	require.NoError(t, err)
	return res
}

func vipStatus(isVIP bool, tier string, discount int64) vip.Status {
	return vip.Status{IsVIP: isVIP, Tier: tier, Discount: decimal.NewFromInt(discount)}
}
