package scanview

import (
	"bottlescan/internal/core/scan"

	"github.com/shopspring/decimal"
)

// Verdict headlines
const (
	StatusCounterfeit = "Counterfeit Detected"
	StatusGenuine     = "Genuine Product"
)

// Confidence bands
const (
	BandHigh   = "high"
	BandMedium = "medium"
	BandLow    = "low"
)

var (
	hundred     = decimal.NewFromInt(100)
	highFloor   = decimal.RequireFromString("0.8")
	mediumFloor = decimal.RequireFromString("0.6")
)

// Verdict is the human readable result card for one scan
type Verdict struct {
	ScanID            string  `json:"scan_id"`
	Status            string  `json:"status"`
	IsCounterfeit     bool    `json:"is_counterfeit"`
	Color             string  `json:"color"`
	Confidence        float64 `json:"confidence"`
	ConfidencePercent string  `json:"confidence_percent"`
	Band              string  `json:"band"`
	Message           string  `json:"message,omitempty"`
	Brand             string  `json:"brand"`
	Date              string  `json:"date"`
	Coordinates       string  `json:"coordinates,omitempty"`
	MapURL            string  `json:"map_url,omitempty"`
}

// Present renders s for display
func Present(s scan.Scan) Verdict {
	conf := decimal.NewFromFloat(s.Confidence)
	v := Verdict{
		ScanID:            s.ID,
		Status:            StatusGenuine,
		IsCounterfeit:     s.IsCounterfeit,
		Color:             ColorFor(s.IsCounterfeit),
		Confidence:        s.Confidence,
		ConfidencePercent: conf.Mul(hundred).StringFixed(1) + "%",
		Band:              band(conf),
		Message:           s.Message,
		Brand:             s.Brand,
		Date:              s.Date,
	}
	if s.IsCounterfeit {
		v.Status = StatusCounterfeit
	}
	if s.Location != nil {
		lat := decimal.NewFromFloat(s.Location.Latitude)
		lng := decimal.NewFromFloat(s.Location.Longitude)
		v.Coordinates = lat.StringFixed(5) + ", " + lng.StringFixed(5)
		v.MapURL = MapURL(s.Location.Latitude, s.Location.Longitude)
	}
	return v
}

// MapURL links a position to an external map
func MapURL(lat, lng float64) string {
	return "https://www.google.com/maps?q=" + formatFloat(lat) + "," + formatFloat(lng)
}

func band(conf decimal.Decimal) string {
	switch {
	case conf.GreaterThanOrEqual(highFloor):
		return BandHigh
	case conf.GreaterThanOrEqual(mediumFloor):
		return BandMedium
	default:
		return BandLow
	}
}
