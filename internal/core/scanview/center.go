package scanview

import (
	"bottlescan/internal/core/geo"
	"bottlescan/internal/core/scan"
	perr "bottlescan/internal/platform/errors"
)

// Fallback is the map center used before any located scan exists (Nairobi)
var Fallback = geo.Coordinates{Latitude: -1.2864, Longitude: 36.8172}

// DefaultZoom is the initial map zoom
const DefaultZoom = 13

// Where a center came from
const (
	CenterFirstScan = "first_scan"
	CenterFallback  = "fallback"
	CenterUser      = "user"
)

// Center is the map's initial focus
type Center struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Source    string  `json:"source"`
}

// DefaultCenter is the first located scan of the unfiltered set, else fallback.
// Filtering never moves the center.
func DefaultCenter(all []scan.Scan, fallback geo.Coordinates) Center {
	for _, s := range all {
		if s.Located() {
			return Center{Latitude: s.Location.Latitude, Longitude: s.Location.Longitude, Source: CenterFirstScan}
		}
	}
	return Center{Latitude: fallback.Latitude, Longitude: fallback.Longitude, Source: CenterFallback}
}

// CenterOn recenters on the user's position
func CenterOn(user *geo.Coordinates) (Center, error) {
	if user == nil {
		return Center{}, perr.Unavailablef("your location is not available")
	}
	return Center{Latitude: user.Latitude, Longitude: user.Longitude, Source: CenterUser}, nil
}
