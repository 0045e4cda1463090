package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Client struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	FirstName    string          `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName     string          `gorm:"type:varchar(100);not null" json:"last_name"`
	Email        string          `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Phone        *string         `gorm:"type:varchar(20)" json:"phone,omitempty"`
	IsVIP        bool            `gorm:"column:is_vip;not null;default:false" json:"is_vip"`
	VIPTier      VIPTier         `gorm:"column:vip_tier;type:varchar(20);not null;default:'standard'" json:"vip_tier"`
	VIPDiscount  decimal.Decimal `gorm:"column:vip_discount;type:numeric(5,2);not null;default:0" json:"vip_discount"`
	VIPCheckedAt *time.Time      `gorm:"column:vip_checked_at" json:"vip_checked_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// VIPFresh reports whether the cached VIP status is younger than ttl.
func (c *Client) VIPFresh(now time.Time, ttl time.Duration) bool {
	if c.VIPCheckedAt == nil {
		return false
	}
	return now.Sub(*c.VIPCheckedAt) < ttl
}

// EffectiveDiscount is the discount to price with: zero unless the client is VIP.
func (c *Client) EffectiveDiscount() decimal.Decimal {
	if !c.IsVIP {
		return decimal.Zero
	}
	return c.VIPDiscount
}
