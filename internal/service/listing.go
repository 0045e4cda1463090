package service

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/repository"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest is the paging and sorting input shared by every listing.
// Order is "asc" or "desc" in any case; it defaults to descending.
type PageRequest struct {
	Page  int
	Limit int
	Sort  string
	Order string
}

type pageBounds struct {
	page   int
	limit  int
	offset int
	desc   bool
}

func (p PageRequest) bounds() (pageBounds, error) {
	b := pageBounds{page: p.Page, limit: p.Limit, desc: true}
	if b.page < 1 {
		b.page = 1
	}
	if b.limit < 1 {
		b.limit = DefaultPageSize
	}
	if b.limit > MaxPageSize {
		b.limit = MaxPageSize
	}
	switch strings.ToLower(p.Order) {
	case "", "desc":
	case "asc":
		b.desc = false
	default:
		return b, fmt.Errorf("%w: order must be asc or desc", ErrInvalidRequest)
	}
	b.offset = (b.page - 1) * b.limit
	return b, nil
}

func totalPages(total int64, limit int) int {
	return int(math.Ceil(float64(total) / float64(limit)))
}

// listError maps repository listing failures onto error kinds.
func listError(what string, err error) error {
	if errors.Is(err, repository.ErrUnknownSort) {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return fmt.Errorf("list %s: %w", what, err)
}
