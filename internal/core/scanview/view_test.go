package scanview

import (
	"encoding/json"
	"math"
	"sort"
	"testing"

	"bottlescan/internal/core/geo"
	"bottlescan/internal/core/scan"
	perr "bottlescan/internal/platform/errors"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestProject(t *testing.T) {
	world := float64(TileSize)
	p := Project(geo.Coordinates{}, 0)
	if !near(p.X, world/2) || !near(p.Y, world/2) {
		t.Fatalf("origin = %+v", p)
	}
	east := Project(geo.Coordinates{Longitude: 90}, 0)
	north := Project(geo.Coordinates{Latitude: 45}, 0)
	if east.X <= p.X || north.Y >= p.Y {
		t.Fatalf("axes: east=%+v north=%+v", east, north)
	}
	if z1 := Project(geo.Coordinates{}, 1); !near(z1.X, world) {
		t.Fatalf("zoom 1 doubles the world: %+v", z1)
	}
	pole := Project(geo.Coordinates{Latitude: 90}, 0)
	if math.IsInf(pole.Y, 0) || pole.Y < -1e-6 {
		t.Fatalf("pole not clamped: %+v", pole)
	}
}

func TestMarkers(t *testing.T) {
	markers, unlocated := Markers(fixture(), 3)
	if len(markers) != 2 || markers[0].ScanID != "a" || markers[1].ScanID != "c" {
		t.Fatalf("markers = %+v", markers)
	}
	if len(unlocated) != 1 || unlocated[0] != "b" {
		t.Fatalf("unlocated = %v", unlocated)
	}
	if markers[0].Color != ColorAuthentic || markers[0].Kind != KindScan {
		t.Fatalf("marker = %+v", markers[0])
	}
	if ColorFor(true) != "#dc3545" || ColorFor(false) != "#28a745" {
		t.Fatal("verdict colors")
	}
	if UserMarker(nil, 3) != nil {
		t.Fatal("nil user should have no marker")
	}
	if u := UserMarker(&geo.Coordinates{Latitude: 1, Longitude: 2}, 3); u.Kind != KindUser || u.ScanID != "" {
		t.Fatalf("user marker = %+v", u)
	}
}

func nearby() []scan.Scan {
	return []scan.Scan{
		{ID: "n1", Brand: "Acme", Date: "2024-01-01", IsCounterfeit: true, Location: &geo.Coordinates{Latitude: -1.2864, Longitude: 36.8172}},
		{ID: "n2", Brand: "Acme", Date: "2024-01-01", Location: &geo.Coordinates{Latitude: -1.2865, Longitude: 36.8173}},
		{ID: "n3", Brand: "Acme", Date: "2024-01-01", IsCounterfeit: true, Location: &geo.Coordinates{Latitude: -1.2866, Longitude: 36.8171}},
		{ID: "ny", Brand: "Zeta", Date: "2024-01-02", Location: &geo.Coordinates{Latitude: 40.7128, Longitude: -74.006}},
		{ID: "nowhere", Brand: "Zeta", Date: "2024-01-02"},
	}
}

func TestGroupAtLowZoom(t *testing.T) {
	markers, _ := Markers(nearby(), 0)
	layout := Group(markers, 0, 2)
	if len(layout.Clusters) != 1 {
		t.Fatalf("clusters = %+v", layout.Clusters)
	}
	c := layout.Clusters[0]
	got := append([]string(nil), c.ScanIDs...)
	sort.Strings(got)
	if c.Count != 3 || c.Counterfeit != 2 || len(got) != 3 || got[0] != "n1" || got[2] != "n3" {
		t.Fatalf("cluster = %+v", c)
	}
	if math.Abs(c.Latitude+1.2865) > 1e-3 || math.Abs(c.Longitude-36.8172) > 1e-3 {
		t.Fatalf("centroid = %v,%v", c.Latitude, c.Longitude)
	}
	if len(layout.Singles) != 1 || layout.Singles[0].ScanID != "ny" {
		t.Fatalf("singles = %+v", layout.Singles)
	}
}

func TestGroupNeverDropsAndExpandInverts(t *testing.T) {
	all := nearby()
	for zoom := 0; zoom <= MaxZoom; zoom++ {
		markers, _ := Markers(all, zoom)
		layout := Group(markers, zoom, 2)
		total := len(layout.Singles)
		for _, c := range layout.Clusters {
			total += c.Count
			members, err := Expand(all, c.Token)
			if err != nil {
				t.Fatalf("zoom %d Expand(%s): %v", zoom, c.Token, err)
			}
			if len(members) != c.Count {
				t.Fatalf("zoom %d cluster %s: count %d, expand %d", zoom, c.Token, c.Count, len(members))
			}
			want := map[string]bool{}
			for _, id := range c.ScanIDs {
				want[id] = true
			}
			for _, m := range members {
				if !want[m.ID] {
					t.Fatalf("zoom %d expand returned foreign scan %s", zoom, m.ID)
				}
			}
		}
		if total != len(markers) {
			t.Fatalf("zoom %d: %d placed, %d markers", zoom, total, len(markers))
		}
	}
}

func TestExpandErrors(t *testing.T) {
	if _, err := Expand(nearby(), "zz-not-a-token"); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("bad token err = %v", err)
	}
	markers, _ := Markers(nearby(), 0)
	token := Group(markers, 0, 2).Clusters[0].Token
	if _, err := Expand(nearby()[3:], token); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("empty cell err = %v", err)
	}
}

func TestLevelForZoom(t *testing.T) {
	if LevelForZoom(-4) != 1 || LevelForZoom(13) != 14 || LevelForZoom(99) != MaxZoom+1 {
		t.Fatal("LevelForZoom")
	}
}

func TestCenter(t *testing.T) {
	c := DefaultCenter(fixture(), Fallback)
	if c.Source != CenterFirstScan || c.Latitude != -1.2864 {
		t.Fatalf("center = %+v", c)
	}
	c = DefaultCenter([]scan.Scan{{ID: "x"}}, geo.Coordinates{Latitude: 5, Longitude: 6})
	if c.Source != CenterFallback || c.Latitude != 5 || c.Longitude != 6 {
		t.Fatalf("fallback center = %+v", c)
	}
	if _, err := CenterOn(nil); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("CenterOn(nil) err = %v", err)
	}
	me, err := CenterOn(&geo.Coordinates{Latitude: 1, Longitude: 2})
	if err != nil || me.Source != CenterUser || me.Longitude != 2 {
		t.Fatalf("CenterOn = %+v, %v", me, err)
	}
}

func TestRender(t *testing.T) {
	user := &geo.Coordinates{Latitude: 3, Longitude: 4}
	v := Render(fixture(), Filter{Brand: "zeta"}, user, Options{Zoom: 10})
	if v.Total != 3 || v.Matched != 1 || v.Empty {
		t.Fatalf("view = %+v", v)
	}
	// filtering never moves the default center
	if v.Center.Latitude != -1.2864 {
		t.Fatalf("center = %+v", v.Center)
	}
	if len(v.Markers) != 1 || v.Markers[0].ScanID != "c" || v.User == nil {
		t.Fatalf("markers = %+v user=%+v", v.Markers, v.User)
	}
}

func TestRenderEmpty(t *testing.T) {
	v := Render(fixture(), Filter{Brand: "nothing"}, nil, Options{})
	if !v.Empty || v.Message != EmptyMessage || len(v.Markers) != 0 || len(v.Clusters) != 0 {
		t.Fatalf("empty view = %+v", v)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	var back map[string]any
	_ = json.Unmarshal(raw, &back)
	if back["markers"] == nil || back["unlocated"] == nil {
		t.Fatalf("empty lists must encode as []: %s", raw)
	}
}

func TestPresent(t *testing.T) {
	s := scan.Scan{ID: "x", Brand: "Acme", Date: "2024-01-01", IsCounterfeit: true, Confidence: 0.93,
		Location: &geo.Coordinates{Latitude: -1.2864, Longitude: 36.8172}}
	v := Present(s)
	if v.Status != StatusCounterfeit || v.ConfidencePercent != "93.0%" || v.Band != BandHigh {
		t.Fatalf("verdict = %+v", v)
	}
	if v.Coordinates != "-1.28640, 36.81720" {
		t.Fatalf("coordinates = %q", v.Coordinates)
	}
	if v.MapURL != "https://www.google.com/maps?q=-1.2864,36.8172" {
		t.Fatalf("map url = %q", v.MapURL)
	}

	bands := map[float64]string{0.8: BandHigh, 0.79: BandMedium, 0.6: BandMedium, 0.59: BandLow, 0: BandLow}
	for conf, want := range bands {
		if got := Present(scan.Scan{Confidence: conf}).Band; got != want {
			t.Fatalf("band(%v) = %s, want %s", conf, got, want)
		}
	}
	g := Present(scan.Scan{Confidence: 0.456})
	if g.Status != StatusGenuine || g.ConfidencePercent != "45.6%" || g.MapURL != "" {
		t.Fatalf("genuine = %+v", g)
	}
}

func TestExportGeoJSON(t *testing.T) {
	v := Render(nearby(), Filter{}, &geo.Coordinates{Latitude: 1, Longitude: 2}, Options{Zoom: 0})
	raw, err := ExportGeoJSON(v)
	if err != nil {
		t.Fatalf("ExportGeoJSON: %v", err)
	}
	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// one cluster, one single, the user
	if doc.Type != "FeatureCollection" || len(doc.Features) != 3 {
		t.Fatalf("doc = %s", raw)
	}
	kinds := map[string]int{}
	for _, f := range doc.Features {
		kinds[f.Properties["kind"].(string)]++
	}
	if kinds["cluster"] != 1 || kinds["scan"] != 1 || kinds["user"] != 1 {
		t.Fatalf("kinds = %v", kinds)
	}
	last := doc.Features[2].Geometry.Coordinates
	if last[0] != 2 || last[1] != 1 {
		t.Fatalf("user feature must be [lng,lat]: %v", last)
	}
}
