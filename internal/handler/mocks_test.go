package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/repository"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/service"
)

// --- Mock ReservationService ---

type mockReservationService struct {
	createFn    func(ctx context.Context, in service.CreateReservationInput) (*models.Reservation, error)
	cancelFn    func(ctx context.Context, token string, reason *string) (*models.Reservation, error)
	updateFn    func(ctx context.Context, token string, in service.UpdateReservationInput) (*models.Reservation, error)
	getFn       func(ctx context.Context, token string) (*models.Reservation, error)
	listAllFn   func(ctx context.Context, q service.ReservationQuery) (*service.ReservationPage, error)
	listFn      func(ctx context.Context, clientID uint, status *models.ReservationStatus, page, limit int) (*service.ReservationPage, error)
	availableFn func(ctx context.Context, q service.AvailabilityQuery) ([]service.RoomQuote, error)
}

func (m *mockReservationService) Create(ctx context.Context, in service.CreateReservationInput) (*models.Reservation, error) {
	return m.createFn(ctx, in)
}
func (m *mockReservationService) Cancel(ctx context.Context, token string, reason *string) (*models.Reservation, error) {
	return m.cancelFn(ctx, token, reason)
}
func (m *mockReservationService) Update(ctx context.Context, token string, in service.UpdateReservationInput) (*models.Reservation, error) {
	return m.updateFn(ctx, token, in)
}
func (m *mockReservationService) Get(ctx context.Context, token string) (*models.Reservation, error) {
	return m.getFn(ctx, token)
}
func (m *mockReservationService) List(ctx context.Context, q service.ReservationQuery) (*service.ReservationPage, error) {
	return m.listAllFn(ctx, q)
}
func (m *mockReservationService) ListByClient(ctx context.Context, clientID uint, status *models.ReservationStatus, page, limit int) (*service.ReservationPage, error) {
	return m.listFn(ctx, clientID, status, page, limit)
}
func (m *mockReservationService) AvailableRooms(ctx context.Context, q service.AvailabilityQuery) ([]service.RoomQuote, error) {
	return m.availableFn(ctx, q)
}
func (m *mockReservationService) CancellationCutoff() time.Duration { return 24 * time.Hour }

// --- Mock StatsService ---

type mockStatsService struct {
	getFn func(ctx context.Context, f repository.StatsFilter) (*service.Stats, error)
}

func (m *mockStatsService) Get(ctx context.Context, f repository.StatsFilter) (*service.Stats, error) {
	return m.getFn(ctx, f)
}
func (m *mockStatsService) Invalidate(ctx context.Context) {}

// --- Mock ClientService ---

type mockClientService struct {
	resolveFn     func(ctx context.Context, in service.ClientInput, force bool) (*service.VIPResult, error)
	findFn        func(ctx context.Context, id uint) (*models.Client, error)
	findByEmailFn func(ctx context.Context, email string) (*models.Client, error)
	listFn        func(ctx context.Context, q service.ClientQuery) (*service.ClientPage, error)
	vipStatusFn   func(ctx context.Context, id uint, force bool) (*service.VIPResult, error)
	refreshFn     func(ctx context.Context) (*service.RefreshSummary, error)
	unhealthy     bool
}

func (m *mockClientService) Resolve(ctx context.Context, in service.ClientInput, force bool) (*service.VIPResult, error) {
	return m.resolveFn(ctx, in, force)
}
func (m *mockClientService) Find(ctx context.Context, id uint) (*models.Client, error) {
	if m.findFn == nil {
		return nil, service.ErrClientNotFound
	}
	return m.findFn(ctx, id)
}
func (m *mockClientService) FindByEmail(ctx context.Context, email string) (*models.Client, error) {
	return m.findByEmailFn(ctx, email)
}
func (m *mockClientService) List(ctx context.Context, q service.ClientQuery) (*service.ClientPage, error) {
	return m.listFn(ctx, q)
}
func (m *mockClientService) VIPStatus(ctx context.Context, id uint, force bool) (*service.VIPResult, error) {
	return m.vipStatusFn(ctx, id, force)
}
func (m *mockClientService) RefreshAll(ctx context.Context) (*service.RefreshSummary, error) {
	return m.refreshFn(ctx)
}
func (m *mockClientService) ProviderHealthy(ctx context.Context) bool { return !m.unhealthy }

// --- Mock RoomService ---

type mockRoomService struct {
	getFn     func(ctx context.Context, id uint) (*models.Room, error)
	listFn    func(ctx context.Context, q service.RoomQuery) (*service.RoomPage, error)
	classesFn func(ctx context.Context) ([]models.RoomClass, error)
}

func (m *mockRoomService) Get(ctx context.Context, id uint) (*models.Room, error) {
	return m.getFn(ctx, id)
}
func (m *mockRoomService) List(ctx context.Context, q service.RoomQuery) (*service.RoomPage, error) {
	return m.listFn(ctx, q)
}
func (m *mockRoomService) Classes(ctx context.Context) ([]models.RoomClass, error) {
	return m.classesFn(ctx)
}

// --- Fake database health ---

type fakeDatabase struct {
	err     error
	version string
	stats   sql.DBStats
}

func (f *fakeDatabase) Ping(ctx context.Context) error { return f.err }
func (f *fakeDatabase) Version(ctx context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.version, nil
}
func (f *fakeDatabase) Stats() sql.DBStats { return f.stats }

// --- Mock MaintenanceService ---

type mockMaintenanceService struct {
	completeFn func(ctx context.Context) (int64, error)
}

func (m *mockMaintenanceService) CompleteEnded(ctx context.Context) (int64, error) {
	return m.completeFn(ctx)
}
