// Package domain holds DTOs for scan http and service contracts
package domain

import (
	"bottlescan/internal/core/capture"
	"bottlescan/internal/core/scan"
	"bottlescan/internal/core/scanview"
)

// DetectInput is one image submission
type DetectInput struct {
	Upload    capture.Upload
	Brand     string
	Latitude  *float64
	Longitude *float64
	// Denied records that the browser refused geolocation for this capture
	Denied bool
}

// DetectResult is what a completed detection returns to the client
type DetectResult struct {
	Scan    scan.Scan        `json:"scan"`
	Verdict scanview.Verdict `json:"verdict"`
	Preview string           `json:"preview,omitempty"`
}

// FilterQuery narrows the session's scans
type FilterQuery struct {
	Brand string `query:"brand" json:"brand,omitempty" validate:"max=128" example:"acme"`
	Date  string `query:"date" json:"date,omitempty" validate:"omitempty,day_prefix" example:"2024-01"`
}

// Filter converts the query to the view filter
func (q FilterQuery) Filter() scanview.Filter {
	return scanview.Filter{Brand: q.Brand, Date: q.Date}
}

// MapQuery is a filter plus the map zoom; zoom defaults to the initial map zoom
type MapQuery struct {
	Brand string `query:"brand" json:"brand,omitempty" validate:"max=128" example:"acme"`
	Date  string `query:"date" json:"date,omitempty" validate:"omitempty,day_prefix" example:"2024-01"`
	Zoom  *int   `query:"zoom" json:"zoom,omitempty" validate:"omitempty,gte=0,lte=20" example:"13"`
}

// Filter converts the query to the view filter
func (q MapQuery) Filter() scanview.Filter {
	return scanview.Filter{Brand: q.Brand, Date: q.Date}
}

// ZoomOr returns the requested zoom or def
func (q MapQuery) ZoomOr(def int) int {
	if q.Zoom == nil {
		return def
	}
	return *q.Zoom
}

// ScanList is the filtered list payload
type ScanList struct {
	Filter scanview.Filter `json:"filter"`
	Total  int             `json:"total"`
	Scans  []scan.Scan     `json:"scans"`
}

// ClusterDetail lists the scans behind one cluster badge
type ClusterDetail struct {
	Token string      `json:"token"`
	Count int         `json:"count"`
	Scans []scan.Scan `json:"scans"`
}
