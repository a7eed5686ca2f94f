package scanview

import (
	"sort"

	"bottlescan/internal/core/scan"
	perr "bottlescan/internal/platform/errors"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"
)

// Cell levels used for grouping
const (
	MinCellLevel = 1
	MaxCellLevel = 30
	// DefaultMinCluster is the smallest group drawn as a cluster
	DefaultMinCluster = 2
)

// Cluster is a group of nearby markers drawn as one badge
type Cluster struct {
	Token       string   `json:"token"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Pixel       Pixel    `json:"pixel"`
	Count       int      `json:"count"`
	Counterfeit int      `json:"counterfeit"`
	ScanIDs     []string `json:"scan_ids"`
}

// Layout splits markers into clusters and the ones drawn on their own
type Layout struct {
	Clusters []Cluster `json:"clusters"`
	Singles  []Marker  `json:"markers"`
}

// LevelForZoom maps a map zoom to the s2 cell level markers are grouped at
func LevelForZoom(zoom int) int {
	return min(max(ClampZoom(zoom)+1, MinCellLevel), MaxCellLevel)
}

func cellOf(lat, lng float64, level int) s2.CellID {
	return s2.CellIDFromLatLng(s2.LatLngFromDegrees(lat, lng)).Parent(level)
}

// Group clusters markers sharing a cell at LevelForZoom(zoom). Cells holding
// at least minCluster markers become clusters; the rest stay single. Every
// input marker ends up in exactly one of the two.
func Group(markers []Marker, zoom, minCluster int) Layout {
	if minCluster < 2 {
		minCluster = DefaultMinCluster
	}
	level := LevelForZoom(zoom)

	buckets := make(map[s2.CellID][]int)
	for i, m := range markers {
		id := cellOf(m.Latitude, m.Longitude, level)
		buckets[id] = append(buckets[id], i)
	}

	out := Layout{Clusters: []Cluster{}, Singles: []Marker{}}
	clustered := make([]bool, len(markers))
	for id, idx := range buckets {
		if len(idx) < minCluster {
			continue
		}
		c := Cluster{Token: id.ToToken(), Count: len(idx), ScanIDs: make([]string, 0, len(idx))}
		var sum r3.Vector
		for _, i := range idx {
			m := markers[i]
			clustered[i] = true
			c.ScanIDs = append(c.ScanIDs, m.ScanID)
			if m.IsCounterfeit {
				c.Counterfeit++
			}
			p := s2.PointFromLatLng(s2.LatLngFromDegrees(m.Latitude, m.Longitude))
			sum = sum.Add(p.Vector)
		}
		center := s2.LatLngFromPoint(s2.Point{Vector: sum.Normalize()})
		c.Latitude = center.Lat.Degrees()
		c.Longitude = center.Lng.Degrees()
		c.Pixel = Project(Marker{Latitude: c.Latitude, Longitude: c.Longitude}.Coordinates(), zoom)
		out.Clusters = append(out.Clusters, c)
	}
	sort.Slice(out.Clusters, func(i, j int) bool { return out.Clusters[i].Token < out.Clusters[j].Token })

	for i, m := range markers {
		if !clustered[i] {
			out.Singles = append(out.Singles, m)
		}
	}
	return out
}

// Expand returns the located scans inside the cell named by token, in input
// order. It is the inverse of a Group cluster over the same scans.
func Expand(scans []scan.Scan, token string) ([]scan.Scan, error) {
	id := s2.CellIDFromToken(token)
	if !id.IsValid() {
		return nil, perr.WithField(perr.Validationf("invalid cluster token %q", token), "token")
	}
	level := id.Level()
	out := []scan.Scan{}
	for _, s := range scans {
		if !s.Located() {
			continue
		}
		if cellOf(s.Location.Latitude, s.Location.Longitude, level) == id {
			out = append(out, s.Clone())
		}
	}
	if len(out) == 0 {
		return nil, perr.NotFoundf("no scans in cluster %s", token)
	}
	return out, nil
}
