package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/metrics"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/repository"
	"github.com/sirupsen/logrus"
)

type MaintenanceService interface {
	// CompleteEnded moves every active reservation whose check-out date has
	// passed to completed. Re-running it is a no-op.
	CompleteEnded(ctx context.Context) (int64, error)
}

type maintenanceService struct {
	reservations repository.ReservationRepository
	publisher    EventPublisher
	stats        StatsService
	log          logrus.FieldLogger
	metrics      *metrics.Metrics
	now          func() time.Time
}

func NewMaintenanceService(reservations repository.ReservationRepository, publisher EventPublisher, stats StatsService, log logrus.FieldLogger, m *metrics.Metrics, now func() time.Time) MaintenanceService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if now == nil {
		now = time.Now
	}
	return &maintenanceService{
		reservations: reservations,
		publisher:    publisher,
		stats:        stats,
		log:          log.WithField("component", "maintenance"),
		metrics:      m,
		now:          now,
	}
}

func (s *maintenanceService) CompleteEnded(ctx context.Context) (int64, error) {
	now := s.now()
	today := models.DateOnly(now)

	n, err := s.reservations.CompleteEnded(ctx, today, now)
	if err != nil {
		return 0, fmt.Errorf("complete ended reservations: %w", err)
	}
	s.metrics.Completed(n)
	if n > 0 {
		s.log.WithField("completed", n).Info("completed ended reservations")
		if s.stats != nil {
			s.stats.Invalidate(ctx)
		}
		publish(s.publisher, s.log, EventReservationCompleted, CompletionEvent{
			Completed:  n,
			Before:     today.Format(time.DateOnly),
			OccurredAt: now,
		})
	}
	return n, nil
}
