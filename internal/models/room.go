package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Property struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(200);not null" json:"name"`
	Address   string    `gorm:"type:text" json:"address"`
	Phone     string    `gorm:"type:varchar(20)" json:"phone"`
	Email     string    `gorm:"type:varchar(255)" json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RoomClass struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Name         string          `gorm:"type:varchar(100);not null" json:"name"`
	Description  string          `gorm:"type:text" json:"description"`
	BaseRate     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"base_rate"`
	MaxOccupancy int             `gorm:"not null;default:2" json:"max_occupancy"`
	Amenities    []string        `gorm:"type:text;serializer:json" json:"amenities"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type Room struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	PropertyID  uint       `gorm:"not null;uniqueIndex:idx_rooms_property_number,priority:1" json:"property_id"`
	RoomClassID uint       `gorm:"not null;index" json:"room_class_id"`
	RoomNumber  string     `gorm:"type:varchar(20);not null;uniqueIndex:idx_rooms_property_number,priority:2" json:"room_number"`
	Floor       *int       `json:"floor,omitempty"`
	Status      RoomStatus `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Property  *Property  `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	RoomClass *RoomClass `gorm:"foreignKey:RoomClassID" json:"room_class,omitempty"`
}
