// Package scan holds the Scan record, the detection payload it is built from,
// and the session's append-only Store
package scan

import (
	"math"
	"strings"

	"bottlescan/internal/core/geo"
	perr "bottlescan/internal/platform/errors"
	ptime "bottlescan/internal/platform/time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// UnknownBrand is recorded when neither the classifier nor the user named a brand
const UnknownBrand = "Unknown"

// Scan is one completed detection. Values are never mutated once appended.
type Scan struct {
	ID            string           `json:"id"`
	Brand         string           `json:"brand"`
	Date          string           `json:"date"`
	IsCounterfeit bool             `json:"is_counterfeit"`
	Confidence    float64          `json:"confidence"`
	Message       string           `json:"message,omitempty"`
	Location      *geo.Coordinates `json:"location,omitempty"`
}

// Clone returns a deep copy
func (s Scan) Clone() Scan {
	s.Location = s.Location.Clone()
	return s
}

// Located reports whether the scan carries coordinates
func (s Scan) Located() bool { return s.Location != nil }

// DetectionResponse is the classifier's answer for one image
type DetectionResponse struct {
	IsCounterfeit bool             `json:"is_counterfeit"`
	Confidence    float64          `json:"confidence"`
	Message       string           `json:"message"`
	Brand         string           `json:"brand,omitempty"`
	Date          string           `json:"date,omitempty"`
	Location      *geo.Coordinates `json:"location,omitempty"`
}

// Validate rejects confidences outside [0,1] as a malformed response
func (r DetectionResponse) Validate() error {
	if math.IsNaN(r.Confidence) || r.Confidence < 0 || r.Confidence > 1 {
		return perr.Malformedf("confidence %v outside [0,1]", r.Confidence)
	}
	return nil
}

// newID is swapped in tests
var newID = uuid.NewString

// Local is what the caller knows independently of the classifier
type Local struct {
	BrandHint string
	Location  *geo.Coordinates
	Clock     ptime.Clock
}

// Build turns a detection response into a Scan. Fields the classifier sent
// win; brand, date and location fall back to the local values. Confidence is
// kept exactly as received.
func Build(resp DetectionResponse, local Local) (Scan, error) {
	if err := resp.Validate(); err != nil {
		return Scan{}, err
	}
	clock := local.Clock
	if clock == nil {
		clock = ptime.System
	}

	brand := NormalizeBrand(resp.Brand)
	if brand == UnknownBrand {
		brand = NormalizeBrand(local.BrandHint)
	}

	date := strings.TrimSpace(resp.Date)
	if !ptime.ValidDay(date) {
		date = clock.Today()
	}

	// the classifier echoes the (0,0) sentinel back when it was sent one
	loc := local.Location
	if !geo.IsSentinel(resp.Location) && resp.Location.Validate() == nil {
		loc = resp.Location
	}

	return Scan{
		ID:            newID(),
		Brand:         brand,
		Date:          date,
		IsCounterfeit: resp.IsCounterfeit,
		Confidence:    resp.Confidence,
		Message:       resp.Message,
		Location:      loc.Clone(),
	}, nil
}

// NormalizeBrand composes to NFC and collapses whitespace; blank becomes UnknownBrand
func NormalizeBrand(s string) string {
	s = strings.Join(strings.Fields(norm.NFC.String(s)), " ")
	if s == "" {
		return UnknownBrand
	}
	return s
}
