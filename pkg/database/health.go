package database

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Health reports on the connection pool behind a gorm handle.
type Health struct {
	db *gorm.DB
}

func NewHealth(db *gorm.DB) *Health {
	return &Health{db: db}
}

func (h *Health) Ping(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Version returns the server version string.
func (h *Health) Version(ctx context.Context) (string, error) {
	query := "SELECT version()"
	if h.db.Dialector.Name() != "postgres" {
		query = "SELECT sqlite_version()"
	}
	var v string
	if err := h.db.WithContext(ctx).Raw(query).Scan(&v).Error; err != nil {
		return "", err
	}
	return v, nil
}

func (h *Health) Stats() sql.DBStats {
	sqlDB, err := h.db.DB()
	if err != nil {
		return sql.DBStats{}
	}
	return sqlDB.Stats()
}
