package scanview

import (
	"math"

	"bottlescan/internal/core/geo"

	"github.com/golang/geo/s2"
)

// Web-Mercator constants for 256px tiles
const (
	TileSize = 256
	MaxZoom  = 20
	// MaxLatitude is where the square Mercator world ends
	MaxLatitude = 85.05112878
)

// Pixel is a position in world pixel space at some zoom; (0,0) is the
// north-west corner
type Pixel struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// mercator maps the clamped world onto [-0.5,0.5] on both axes
var mercator = s2.NewMercatorProjection(0.5)

// ClampZoom bounds z to [0,MaxZoom]
func ClampZoom(z int) int { return min(max(z, 0), MaxZoom) }

// Project converts c to world pixel coordinates at zoom
func Project(c geo.Coordinates, zoom int) Pixel {
	lat := min(max(c.Latitude, -MaxLatitude), MaxLatitude)
	p := mercator.FromLatLng(s2.LatLngFromDegrees(lat, c.Longitude))
	world := float64(TileSize) * math.Exp2(float64(ClampZoom(zoom)))
	return Pixel{
		X: (p.X + 0.5) * world,
		Y: (0.5 - p.Y) * world,
	}
}
