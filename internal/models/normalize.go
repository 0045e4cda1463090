package models

import (
	"strings"
	"time"
)

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func NormalizeRoomNumber(number string) string {
	return strings.ToUpper(strings.TrimSpace(number))
}

// DateOnly truncates t to midnight of its UTC calendar day.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Normalize applies the canonical form to every client identity field.
func (c *Client) Normalize() {
	c.Email = NormalizeEmail(c.Email)
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	if c.Phone != nil {
		p := strings.TrimSpace(*c.Phone)
		if p == "" {
			c.Phone = nil
		} else {
			c.Phone = &p
		}
	}
}

func (r *Room) Normalize() {
	r.RoomNumber = NormalizeRoomNumber(r.RoomNumber)
}
