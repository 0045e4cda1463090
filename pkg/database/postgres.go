package database

import (
	"fmt"
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	NoOverlapIndex     = "reservations_no_overlap_idx"
	NoOverlapExclusion = "reservations_no_overlap_excl"
)

func NewPostgresDB(dsn string, maxConns int, log logrus.FieldLogger) (*gorm.DB, error) {
	// Driver errors are left untranslated; the repository matches constraint names.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	if maxConns > 0 {
		sqlDB.SetMaxOpenConns(maxConns)
		sqlDB.SetMaxIdleConns(maxConns / 2)
	}
	sqlDB.SetConnMaxIdleTime(30 * time.Second)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	log.WithField("max_connections", maxConns).Info("database ready")
	return db, nil
}

// Migrate creates the schema and the overlap guards. It is safe to run on
// every start and works on both PostgreSQL and SQLite.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Property{}, &models.RoomClass{}, &models.Room{}, &models.Client{}, &models.Reservation{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	// Partial unique index: no two active reservations for the same room and dates
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS ` + NoOverlapIndex + `
		ON reservations (room_id, check_in_date, check_out_date)
		WHERE status = 'active'
	`).Error; err != nil {
		return fmt.Errorf("create %s: %w", NoOverlapIndex, err)
	}

	if db.Dialector.Name() != "postgres" {
		return nil
	}

	// Exclusion constraint: no two active reservations whose [in, out) ranges intersect
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return fmt.Errorf("enable btree_gist: %w", err)
	}
	return db.Exec(`
		DO $$
		BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '` + NoOverlapExclusion + `') THEN
				ALTER TABLE reservations ADD CONSTRAINT ` + NoOverlapExclusion + `
				EXCLUDE USING gist (
					room_id WITH =,
					daterange(check_in_date, check_out_date, '[)') WITH &&
				) WHERE (status = 'active');
			END IF;
		END $$;
	`).Error
}
