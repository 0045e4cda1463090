package repository

import (
	"context"
	"strings"
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VIPUpdate struct {
	IsVIP     bool
	Tier      models.VIPTier
	Discount  decimal.Decimal
	CheckedAt time.Time
}

// ClientFilter narrows a client listing. Search matches names and email,
// ignoring case.
type ClientFilter struct {
	Search  string
	VIPOnly bool
	Sort    string
	Desc    bool
	Limit   int
	Offset  int
}

var clientSorts = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"name":       "last_name",
	"email":      "email",
}

type ClientRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Client, error)
	FindByEmail(ctx context.Context, email string) (*models.Client, error)
	FindOrCreate(ctx context.Context, c *models.Client) (*models.Client, bool, error)
	List(ctx context.Context, f ClientFilter) ([]models.Client, int64, error)
	UpdateVIPStatus(ctx context.Context, id uint, u VIPUpdate) error
	ListForRefresh(ctx context.Context, checkedBefore time.Time, limit, offset int) ([]models.Client, error)
	Count(ctx context.Context) (int64, error)
}

type clientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) FindByID(ctx context.Context, id uint) (*models.Client, error) {
	var c models.Client
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clientRepository) FindByEmail(ctx context.Context, email string) (*models.Client, error) {
	var c models.Client
	if err := r.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// FindOrCreate inserts c unless a client with the same normalized email
// exists. The bool result is true when a new row was written.
func (r *clientRepository) FindOrCreate(ctx context.Context, c *models.Client) (*models.Client, bool, error) {
	c.Normalize()
	if c.VIPTier == "" {
		c.VIPTier = models.TierStandard
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(c)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 1 {
		return c, true, nil
	}

	existing, err := r.FindByEmail(ctx, c.Email)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *clientRepository) List(ctx context.Context, f ClientFilter) ([]models.Client, int64, error) {
	order, err := orderBy(clientSorts, f.Sort, f.Desc, "id")
	if err != nil {
		return nil, 0, err
	}

	q := r.db.WithContext(ctx).Model(&models.Client{})
	if f.VIPOnly {
		q = q.Where("is_vip = ?", true)
	}
	if strings.TrimSpace(f.Search) != "" {
		like := containsPattern(f.Search)
		q = q.Where(`(LOWER(first_name) LIKE ? ESCAPE '\' OR LOWER(last_name) LIKE ? ESCAPE '\' OR email LIKE ? ESCAPE '\')`, like, like, like)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var clients []models.Client
	if err := q.Order(order).Limit(f.Limit).Offset(f.Offset).Find(&clients).Error; err != nil {
		return nil, 0, err
	}
	return clients, total, nil
}

func (r *clientRepository) UpdateVIPStatus(ctx context.Context, id uint, u VIPUpdate) error {
	return r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_vip":         u.IsVIP,
			"vip_tier":       u.Tier,
			"vip_discount":   u.Discount,
			"vip_checked_at": u.CheckedAt,
		}).Error
}

// ListForRefresh pages through clients not verified since checkedBefore,
// never-checked first, then oldest check first.
func (r *clientRepository) ListForRefresh(ctx context.Context, checkedBefore time.Time, limit, offset int) ([]models.Client, error) {
	var clients []models.Client
	if err := r.db.WithContext(ctx).
		Where("vip_checked_at IS NULL OR vip_checked_at < ?", checkedBefore).
		Order("CASE WHEN vip_checked_at IS NULL THEN 0 ELSE 1 END, vip_checked_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *clientRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Client{}).Count(&n).Error
	return n, err
}
