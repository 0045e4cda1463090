package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Stats struct {
	Total            int64           `json:"total_reservations"`
	Active           int64           `json:"active_reservations"`
	Cancelled        int64           `json:"cancelled_reservations"`
	Completed        int64           `json:"completed_reservations"`
	VIP              int64           `json:"vip_reservations"`
	Revenue          decimal.Decimal `json:"total_revenue"`
	CancellationRate decimal.Decimal `json:"cancellation_rate"`
	VIPRate          decimal.Decimal `json:"vip_rate"`
}

// StatsCache is the subset of the Redis cache the stats service needs. A nil
// *cache.Redis satisfies it and disables caching.
type StatsCache interface {
	GetJSON(ctx context.Context, key string, dst any) error
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

type StatsService interface {
	Get(ctx context.Context, f repository.StatsFilter) (*Stats, error)
	// Invalidate drops every cached result.
	Invalidate(ctx context.Context)
}

type statsService struct {
	repo  repository.ReservationRepository
	cache StatsCache
	ttl   time.Duration
	log   logrus.FieldLogger
}

func NewStatsService(repo repository.ReservationRepository, cache StatsCache, ttl time.Duration, log logrus.FieldLogger) StatsService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &statsService{repo: repo, cache: cache, ttl: ttl, log: log.WithField("component", "stats")}
}

func (s *statsService) Get(ctx context.Context, f repository.StatsFilter) (*Stats, error) {
	if f.DateFrom != nil && f.DateTo != nil && f.DateTo.Before(*f.DateFrom) {
		return nil, fmt.Errorf("%w: date_to must not be before date_from", ErrInvalidRequest)
	}

	key := statsKey(f)
	if s.cache != nil && s.ttl > 0 {
		var cached Stats
		if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	row, err := s.repo.Stats(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}
	stats := &Stats{
		Total:            row.Total,
		Active:           row.Active,
		Cancelled:        row.Cancelled,
		Completed:        row.Completed,
		VIP:              row.VIP,
		Revenue:          row.Revenue.Round(2),
		CancellationRate: percentage(row.Cancelled, row.Total),
		VIPRate:          percentage(row.VIP, row.Total),
	}

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.SetJSON(ctx, key, stats, s.ttl); err != nil {
			s.log.WithError(err).Warn("failed to cache stats")
		}
	}
	return stats, nil
}

func (s *statsService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePrefix(ctx, statsPrefix); err != nil {
		s.log.WithError(err).Warn("failed to invalidate stats cache")
	}
}

// percentage is part/total*100 rounded to two places, or 0 when total is 0.
func percentage(part, total int64) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(part).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(total)).Round(2)
}

const statsPrefix = "stats"

func statsKey(f repository.StatsFilter) string {
	key := statsPrefix
	if f.PropertyID != nil {
		key += fmt.Sprintf(":p%d", *f.PropertyID)
	}
	if f.DateFrom != nil {
		key += ":from" + f.DateFrom.Format(time.DateOnly)
	}
	if f.DateTo != nil {
		key += ":to" + f.DateTo.Format(time.DateOnly)
	}
	return key
}
