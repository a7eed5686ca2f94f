// Package domain holds session DTOs and the session port
package domain

import (
	"context"
	"time"

	"bottlescan/internal/core/geo"
)

// Mode selects where a session's map reads scans from
type Mode string

const (
	// ModeLocal reads the session's own append-only log
	ModeLocal Mode = "local"
	// ModeRemote lists scans from the remote scan feed
	ModeRemote Mode = "remote"
)

// Info describes a session
type Info struct {
	ID        string           `json:"id" example:"3f1c9f0e-6a7e-4c55-9d7c-2c1f0b1f2e9a"`
	Source    Mode             `json:"source" example:"local"`
	CreatedAt time.Time        `json:"created_at"`
	Scans     int              `json:"scans"`
	Busy      bool             `json:"busy"`
	Viewers   int              `json:"viewers"`
	Location  *geo.Coordinates `json:"location,omitempty"`
}

// LocationInput is the browser's geolocation outcome
type LocationInput struct {
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90" example:"-1.2864"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180" example:"36.8172"`
	Denied    bool     `json:"denied,omitempty"`
}

// Port is what other modules may ask of the session registry
type Port interface {
	Check(ctx context.Context, id string) error
	Info(ctx context.Context, id string) (Info, error)
}
