package service

import (
	"context"
	"testing"
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"github.com/Eursukkul/booking-microservice/reservation-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteEnded(t *testing.T) {
	f := newFixture(t)
	room := f.room(t, "101", "100", 2)
	ended := f.book(t, room.ID, "a@example.com", day(2025, 5, 2), day(2025, 5, 4))
	ongoing := f.book(t, room.ID, "a@example.com", day(2025, 5, 4), day(2025, 5, 8))
	cancelled := f.book(t, room.ID, "b@example.com", day(2025, 5, 10), day(2025, 5, 12))
	_, err := f.svc.Cancel(context.Background(), cancelled.Token, nil)
	require.NoError(t, err)

	now := time.Date(2025, 5, 6, 9, 0, 0, 0, time.UTC)
	pub := &recordingPublisher{}
	c := &memoryCache{data: map[string][]byte{"stats": []byte(`{"total_reservations":99}`)}}
	stats := NewStatsService(f.reservations, c, time.Minute, logger.Discard())
	svc := NewMaintenanceService(f.reservations, pub, stats, logger.Discard(), nil, func() time.Time { return now })

	n, err := svc.CompleteEnded(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = svc.CompleteEnded(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, []string{EventReservationCompleted}, pub.keys())
	assert.Empty(t, c.data, "stats cache is dropped after a sweep")

	got, err := f.reservations.FindByToken(context.Background(), ended.Token)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)

	got, err = f.reservations.FindByToken(context.Background(), ongoing.Token)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, got.Status)

	got, err = f.reservations.FindByToken(context.Background(), cancelled.Token)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)

	_, err = f.svc.Cancel(context.Background(), ended.Token, nil)
	assert.ErrorIs(t, err, ErrLifecycleViolation)
}

func TestPublishFailureDoesNotFailOperation(t *testing.T) {
	f := newFixture(t)
	room := f.room(t, "101", "100", 2)
	f.publisher.err = assert.AnError

	res := f.book(t, room.ID, "a@example.com", day(2025, 6, 1), day(2025, 6, 2))
	assert.NotEmpty(t, res.Token)
}
