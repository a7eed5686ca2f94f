package http

import (
	stdhttp "net/http"

	"bottlescan/internal/modkit/swaggerkit"
)

var filterParams = []swaggerkit.Param{
	{Name: "brand", In: "query", Description: "Case-insensitive brand substring"},
	{Name: "date", In: "query", Description: "Date prefix (YYYY, YYYY-MM, YYYY-MM-DD)"},
}

var mapParams = append(append([]swaggerkit.Param(nil), filterParams...),
	swaggerkit.Param{Name: "zoom", In: "query", Type: "integer", Description: "Map zoom 0-20"})

// Docs lists the scan endpoints for the served OpenAPI document
func Docs() []swaggerkit.Op {
	const tag = "scans"
	return []swaggerkit.Op{
		{Method: stdhttp.MethodPost, Path: "/scans", Tag: tag, Summary: "Classify a bottle image and record the scan",
			Multipart: []string{"file", "brand", "latitude", "longitude", "location_denied", "origin"}, Status: stdhttp.StatusCreated},
		{Method: stdhttp.MethodGet, Path: "/scans", Tag: tag, Summary: "Filtered scans in recording order", Params: filterParams},
		{Method: stdhttp.MethodGet, Path: "/scans/map", Tag: tag, Summary: "Markers, clusters and center for the filtered scans", Params: mapParams},
		{Method: stdhttp.MethodGet, Path: "/scans/map/geojson", Tag: tag, Summary: "The map view as GeoJSON", Params: mapParams, Produces: "application/geo+json"},
		{Method: stdhttp.MethodGet, Path: "/scans/clusters/{token}", Tag: tag, Summary: "Scans grouped under a cluster badge",
			Params: append([]swaggerkit.Param{{Name: "token", In: "path"}}, filterParams...)},
		{Method: stdhttp.MethodGet, Path: "/scans/center/me", Tag: tag, Summary: "Center the map on the session's position"},
		{Method: stdhttp.MethodGet, Path: "/scans/export.csv", Tag: tag, Summary: "Download the filtered scans as CSV", Params: filterParams, Produces: "text/csv"},
		{Method: stdhttp.MethodGet, Path: "/scans/export.json", Tag: tag, Summary: "Download the filtered scans as JSON", Params: filterParams},
	}
}
