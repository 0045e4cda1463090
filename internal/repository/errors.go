package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Eursukkul/booking-microservice/reservation-service/pkg/database"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrOverlap is returned when the store itself rejects a reservation because
	// another active one already holds the room for intersecting dates.
	ErrOverlap = errors.New("room already reserved for overlapping dates")

	// ErrConstraint is returned for any other unique or foreign key rejection.
	ErrConstraint = errors.New("constraint violation")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgExclusionViolation  = "23P01"

	// SQLite names the columns of a violated unique index, not the index.
	sqliteOverlapColumns = "reservations.room_id, reservations.check_in_date, reservations.check_out_date"
)

func isOverlapViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return pgErr.ConstraintName == database.NoOverlapIndex
		case pgExclusionViolation:
			return pgErr.ConstraintName == database.NoOverlapExclusion
		}
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, database.NoOverlapIndex) ||
		strings.Contains(msg, database.NoOverlapExclusion) ||
		strings.Contains(msg, "UNIQUE constraint failed: "+sqliteOverlapColumns)
}

func isConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation || pgErr.Code == pgForeignKeyViolation
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "FOREIGN KEY constraint failed")
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case isOverlapViolation(err):
		return ErrOverlap
	case isConstraintViolation(err):
		return fmt.Errorf("%w: %v", ErrConstraint, err)
	}
	return err
}
