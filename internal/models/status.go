package models

import "strings"

type ReservationStatus string

const (
	StatusActive    ReservationStatus = "active"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
)

var validTransitions = map[ReservationStatus][]ReservationStatus{
	StatusActive:    {StatusCancelled, StatusCompleted},
	StatusCancelled: {},
	StatusCompleted: {},
}

func (s ReservationStatus) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

// CanTransitionTo reports whether moving from s to target is allowed.
func (s ReservationStatus) CanTransitionTo(target ReservationStatus) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal is true for cancelled, completed and unknown statuses.
func (s ReservationStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomMaintenance RoomStatus = "maintenance"
	RoomOutOfOrder  RoomStatus = "out_of_order"
)

func (s RoomStatus) IsValid() bool {
	switch s {
	case RoomAvailable, RoomMaintenance, RoomOutOfOrder:
		return true
	}
	return false
}

type VIPTier string

const (
	TierStandard VIPTier = "standard"
	TierSilver   VIPTier = "silver"
	TierGold     VIPTier = "gold"
	TierPlatinum VIPTier = "platinum"
	TierDiamond  VIPTier = "diamond"
)

// ParseVIPTier maps an arbitrary provider label onto a known tier, falling
// back to standard.
func ParseVIPTier(s string) VIPTier {
	switch t := VIPTier(strings.ToLower(strings.TrimSpace(s))); t {
	case TierSilver, TierGold, TierPlatinum, TierDiamond:
		return t
	default:
		return TierStandard
	}
}
