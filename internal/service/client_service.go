package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/metrics"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/pricing"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/repository"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/vip"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

type ClientInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     *string
}

// VIPResult is a client together with how its VIP status was obtained.
type VIPResult struct {
	Client    *models.Client
	FromCache bool
	Degraded  bool
}

type RefreshSummary struct {
	Total   int64 `json:"total"`
	Updated int64 `json:"updated"`
	Errors  int64 `json:"errors"`
}

// ClientQuery filters a client listing. Search matches names and email.
type ClientQuery struct {
	Search  string
	VIPOnly bool
	PageRequest
}

type ClientPage struct {
	Clients    []models.Client
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

type ClientService interface {
	// Resolve finds or creates the client by normalized email and makes sure
	// its VIP status is current. New clients are always checked.
	Resolve(ctx context.Context, in ClientInput, forceRefresh bool) (*VIPResult, error)
	Find(ctx context.Context, id uint) (*models.Client, error)
	FindByEmail(ctx context.Context, email string) (*models.Client, error)
	List(ctx context.Context, q ClientQuery) (*ClientPage, error)
	VIPStatus(ctx context.Context, id uint, forceRefresh bool) (*VIPResult, error)
	RefreshAll(ctx context.Context) (*RefreshSummary, error)
	ProviderHealthy(ctx context.Context) bool
}

type ClientOptions struct {
	CacheTTL        time.Duration
	DefaultDiscount decimal.Decimal
	RefreshBatch    int
	RefreshInterval time.Duration
	Logger          logrus.FieldLogger
	Metrics         *metrics.Metrics
	Now             func() time.Time
}

type clientService struct {
	repo     repository.ClientRepository
	provider vip.Provider
	opts     ClientOptions
	log      logrus.FieldLogger
}

func NewClientService(repo repository.ClientRepository, provider vip.Provider, opts ClientOptions) ClientService {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 24 * time.Hour
	}
	if opts.DefaultDiscount.IsZero() {
		opts.DefaultDiscount = decimal.NewFromInt(15)
	}
	if opts.RefreshBatch <= 0 {
		opts.RefreshBatch = 10
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &clientService{
		repo:     repo,
		provider: provider,
		opts:     opts,
		log:      log.WithField("component", "clients"),
	}
}

func (s *clientService) Resolve(ctx context.Context, in ClientInput, forceRefresh bool) (*VIPResult, error) {
	if strings.TrimSpace(in.Email) == "" {
		return nil, ErrEmailRequired
	}
	c, created, err := s.repo.FindOrCreate(ctx, &models.Client{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve client: %w", err)
	}
	return s.ensureFresh(ctx, c, forceRefresh || created)
}

func (s *clientService) Find(ctx context.Context, id uint) (*models.Client, error) {
	c, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrClientNotFound
	}
	return c, err
}

func (s *clientService) FindByEmail(ctx context.Context, email string) (*models.Client, error) {
	if strings.TrimSpace(email) == "" {
		return nil, ErrEmailRequired
	}
	c, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrClientNotFound
	}
	return c, err
}

func (s *clientService) List(ctx context.Context, q ClientQuery) (*ClientPage, error) {
	b, err := q.PageRequest.bounds()
	if err != nil {
		return nil, err
	}
	clients, total, err := s.repo.List(ctx, repository.ClientFilter{
		Search:  q.Search,
		VIPOnly: q.VIPOnly,
		Sort:    q.Sort,
		Desc:    b.desc,
		Limit:   b.limit,
		Offset:  b.offset,
	})
	if err != nil {
		return nil, listError("clients", err)
	}
	return &ClientPage{
		Clients:    clients,
		Total:      total,
		Page:       b.page,
		Limit:      b.limit,
		TotalPages: totalPages(total, b.limit),
	}, nil
}

func (s *clientService) VIPStatus(ctx context.Context, id uint, forceRefresh bool) (*VIPResult, error) {
	c, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.ensureFresh(ctx, c, forceRefresh)
}

func (s *clientService) ProviderHealthy(ctx context.Context) bool {
	if s.provider == nil {
		return false
	}
	return s.provider.Healthy(ctx)
}

func (s *clientService) ensureFresh(ctx context.Context, c *models.Client, force bool) (*VIPResult, error) {
	if !force && c.VIPFresh(s.opts.Now(), s.opts.CacheTTL) {
		s.opts.Metrics.VIPLookup("cache_hit")
		return &VIPResult{Client: c, FromCache: true}, nil
	}

	update, err := s.lookup(ctx, c.Email)
	if err != nil {
		// Fail open: price this request as standard but keep the stored
		// status and timestamp so the next request retries the provider.
		s.opts.Metrics.VIPLookup("degraded")
		s.log.WithError(fmt.Errorf("%w: %v", ErrDependencyDegraded, err)).
			WithField("email", c.Email).
			Warn("vip lookup failed, using standard pricing")
		c.IsVIP = false
		c.VIPTier = models.TierStandard
		c.VIPDiscount = decimal.Zero
		return &VIPResult{Client: c, Degraded: true}, nil
	}

	if err := s.repo.UpdateVIPStatus(ctx, c.ID, *update); err != nil {
		return nil, fmt.Errorf("store vip status: %w", err)
	}
	s.opts.Metrics.VIPLookup("refreshed")
	c.IsVIP = update.IsVIP
	c.VIPTier = update.Tier
	c.VIPDiscount = update.Discount
	checked := update.CheckedAt
	c.VIPCheckedAt = &checked
	return &VIPResult{Client: c}, nil
}

func (s *clientService) lookup(ctx context.Context, email string) (*repository.VIPUpdate, error) {
	if s.provider == nil {
		return nil, errors.New("vip provider not configured")
	}
	status, err := s.provider.Lookup(ctx, email)
	if err != nil {
		return nil, err
	}

	u := &repository.VIPUpdate{
		Tier:      models.TierStandard,
		Discount:  decimal.Zero,
		CheckedAt: s.opts.Now(),
	}
	if status.IsVIP {
		u.IsVIP = true
		u.Tier = models.ParseVIPTier(status.Tier)
		u.Discount = pricing.ClampDiscount(status.Discount)
		if u.Discount.IsZero() {
			u.Discount = pricing.ClampDiscount(s.opts.DefaultDiscount)
		}
	}
	return u, nil
}

// RefreshAll re-checks every client not verified since the run started,
// RefreshBatch at a time, pacing provider calls by RefreshInterval.
func (s *clientService) RefreshAll(ctx context.Context) (*RefreshSummary, error) {
	started := s.opts.Now()
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count clients: %w", err)
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if s.opts.RefreshInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(s.opts.RefreshInterval), 1)
	}

	var updated, failed atomic.Int64
	for {
		// Refreshed clients drop out of the listing; failed ones stay and are skipped.
		batch, err := s.repo.ListForRefresh(ctx, started, s.opts.RefreshBatch, int(failed.Load()))
		if err != nil {
			return nil, fmt.Errorf("list clients: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		g, gctx := errgroup.WithContext(ctx)
		for i := range batch {
			c := &batch[i]
			g.Go(func() error {
				if err := limiter.Wait(gctx); err != nil {
					return err
				}
				u, err := s.lookup(gctx, c.Email)
				if err == nil {
					err = s.repo.UpdateVIPStatus(gctx, c.ID, *u)
				}
				if err != nil {
					failed.Add(1)
					s.log.WithError(err).WithField("client_id", c.ID).Warn("vip refresh failed")
					return nil
				}
				updated.Add(1)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	summary := &RefreshSummary{Total: total, Updated: updated.Load(), Errors: failed.Load()}
	s.log.WithFields(logrus.Fields{
		"total":   summary.Total,
		"updated": summary.Updated,
		"errors":  summary.Errors,
	}).Info("vip refresh finished")
	return summary, nil
}
