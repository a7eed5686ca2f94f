package scanview

import (
	"bottlescan/internal/core/geo"
	"bottlescan/internal/core/scan"
)

// Marker colors
const (
	ColorCounterfeit = "#dc3545"
	ColorAuthentic   = "#28a745"
	ColorUser        = "#0d6efd"
)

// Kind tells scan markers from the user's own position
type Kind string

const (
	KindScan Kind = "scan"
	KindUser Kind = "user"
)

// Marker is one point on the map
type Marker struct {
	Kind          Kind    `json:"kind"`
	ScanID        string  `json:"scan_id,omitempty"`
	Brand         string  `json:"brand,omitempty"`
	Date          string  `json:"date,omitempty"`
	IsCounterfeit bool    `json:"is_counterfeit"`
	Color         string  `json:"color"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Pixel         Pixel   `json:"pixel"`
}

// Coordinates returns the marker position
func (m Marker) Coordinates() geo.Coordinates {
	return geo.Coordinates{Latitude: m.Latitude, Longitude: m.Longitude}
}

// ColorFor picks the verdict color
func ColorFor(counterfeit bool) string {
	if counterfeit {
		return ColorCounterfeit
	}
	return ColorAuthentic
}

// Markers builds one marker per located scan, keeping input order. Scans
// without a location are returned by id in unlocated.
func Markers(scans []scan.Scan, zoom int) (markers []Marker, unlocated []string) {
	markers = make([]Marker, 0, len(scans))
	unlocated = []string{}
	for _, s := range scans {
		if !s.Located() {
			unlocated = append(unlocated, s.ID)
			continue
		}
		markers = append(markers, Marker{
			Kind:          KindScan,
			ScanID:        s.ID,
			Brand:         s.Brand,
			Date:          s.Date,
			IsCounterfeit: s.IsCounterfeit,
			Color:         ColorFor(s.IsCounterfeit),
			Latitude:      s.Location.Latitude,
			Longitude:     s.Location.Longitude,
			Pixel:         Project(*s.Location, zoom),
		})
	}
	return markers, unlocated
}

// UserMarker is nil when the position is unknown
func UserMarker(c *geo.Coordinates, zoom int) *Marker {
	if c == nil {
		return nil
	}
	return &Marker{
		Kind:      KindUser,
		Color:     ColorUser,
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
		Pixel:     Project(*c, zoom),
	}
}
