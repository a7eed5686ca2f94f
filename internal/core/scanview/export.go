package scanview

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"bottlescan/internal/core/scan"
	perr "bottlescan/internal/platform/errors"
)

// Download names and content types of the two export artifacts
const (
	CSVFilename  = "scans.csv"
	JSONFilename = "scans.json"
	CSVType      = "text/csv; charset=utf-8"
	JSONType     = "application/json; charset=utf-8"
)

// CSVHeader is the first line of every CSV export
const CSVHeader = "id,brand,date,latitude,longitude,is_counterfeit"

// ExportCSV writes one line per scan under CSVHeader. Fields are not quoted,
// so a brand containing a comma shifts its row's columns. Scans without a
// location leave latitude and longitude empty.
func ExportCSV(scans []scan.Scan) []byte {
	var b bytes.Buffer
	b.WriteString(CSVHeader)
	b.WriteByte('\n')
	for _, s := range scans {
		lat, lng := "", ""
		if s.Location != nil {
			lat = formatFloat(s.Location.Latitude)
			lng = formatFloat(s.Location.Longitude)
		}
		b.WriteString(strings.Join([]string{
			s.ID, s.Brand, s.Date, lat, lng, strconv.FormatBool(s.IsCounterfeit),
		}, ","))
		b.WriteByte('\n')
	}
	return b.Bytes()
}

// ExportJSON serializes scans with the Scan field names. An empty set is "[]".
func ExportJSON(scans []scan.Scan) ([]byte, error) {
	if scans == nil {
		scans = []scan.Scan{}
	}
	out, err := json.MarshalIndent(scans, "", "  ")
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "encode scans")
	}
	return out, nil
}

// ParseJSON reads an ExportJSON document back
func ParseJSON(data []byte) ([]scan.Scan, error) {
	var out []scan.Scan
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "decode scans")
	}
	if out == nil {
		out = []scan.Scan{}
	}
	return out, nil
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
