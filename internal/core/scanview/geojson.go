package scanview

import (
	perr "bottlescan/internal/platform/errors"

	geojson "github.com/paulmach/go.geojson"
)

// GeoJSON download name and content type
const (
	GeoJSONFilename = "scans.geojson"
	GeoJSONType     = "application/geo+json"
)

// FeatureCollection turns a rendered view into GeoJSON. Positions are
// [longitude, latitude].
func FeatureCollection(v View) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, c := range v.Clusters {
		f := geojson.NewPointFeature([]float64{c.Longitude, c.Latitude})
		f.ID = c.Token
		f.SetProperty("kind", "cluster")
		f.SetProperty("count", c.Count)
		f.SetProperty("counterfeit", c.Counterfeit)
		f.SetProperty("scan_ids", c.ScanIDs)
		fc.AddFeature(f)
	}
	for _, m := range v.Markers {
		fc.AddFeature(markerFeature(m))
	}
	if v.User != nil {
		fc.AddFeature(markerFeature(*v.User))
	}
	return fc
}

func markerFeature(m Marker) *geojson.Feature {
	f := geojson.NewPointFeature([]float64{m.Longitude, m.Latitude})
	f.SetProperty("kind", string(m.Kind))
	f.SetProperty("color", m.Color)
	if m.Kind == KindScan {
		f.ID = m.ScanID
		f.SetProperty("brand", m.Brand)
		f.SetProperty("date", m.Date)
		f.SetProperty("is_counterfeit", m.IsCounterfeit)
	}
	return f
}

// ExportGeoJSON encodes FeatureCollection(v)
func ExportGeoJSON(v View) ([]byte, error) {
	out, err := FeatureCollection(v).MarshalJSON()
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "encode geojson")
	}
	return out, nil
}
