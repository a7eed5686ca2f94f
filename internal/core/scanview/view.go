package scanview

import (
	"bottlescan/internal/core/geo"
	"bottlescan/internal/core/scan"
)

// EmptyMessage is shown when the filter leaves nothing to draw
const EmptyMessage = "no scans match filters"

// Options tune Render
type Options struct {
	Zoom       int
	MinCluster int
	Fallback   *geo.Coordinates
}

// View is the full map payload
type View struct {
	Filter    Filter    `json:"filter"`
	Total     int       `json:"total"`
	Matched   int       `json:"matched"`
	Empty     bool      `json:"empty"`
	Message   string    `json:"message,omitempty"`
	Zoom      int       `json:"zoom"`
	Center    Center    `json:"center"`
	Clusters  []Cluster `json:"clusters"`
	Markers   []Marker  `json:"markers"`
	User      *Marker   `json:"user,omitempty"`
	Unlocated []string  `json:"unlocated"`
}

// Render filters all, lays the located matches out and centers the map.
// user may be nil.
func Render(all []scan.Scan, f Filter, user *geo.Coordinates, o Options) View {
	zoom := ClampZoom(o.Zoom)
	fallback := Fallback
	if o.Fallback != nil {
		fallback = *o.Fallback
	}

	matched := Apply(all, f)
	markers, unlocated := Markers(matched, zoom)
	layout := Group(markers, zoom, o.MinCluster)

	v := View{
		Filter:    f,
		Total:     len(all),
		Matched:   len(matched),
		Zoom:      zoom,
		Center:    DefaultCenter(all, fallback),
		Clusters:  layout.Clusters,
		Markers:   layout.Singles,
		User:      UserMarker(user, zoom),
		Unlocated: unlocated,
	}
	if len(matched) == 0 {
		v.Empty = true
		v.Message = EmptyMessage
	}
	return v
}
