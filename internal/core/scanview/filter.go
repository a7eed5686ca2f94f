// Package scanview is the renderer-independent side of the scan map: filter,
// marker building, projection, clustering, centering and export. Everything
// here is a pure function over scan slices.
package scanview

import (
	"strings"

	"bottlescan/internal/core/scan"

	"golang.org/x/text/cases"
)

// Filter holds the two conjunctive predicates. Zero values match everything.
type Filter struct {
	Brand string `json:"brand" query:"brand" validate:"max=128"`
	Date  string `json:"date" query:"date" validate:"omitempty,day_prefix"`
}

// IsZero reports whether f matches every scan
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Brand) == "" && strings.TrimSpace(f.Date) == ""
}

// fold case-folds s; a Caser is not safe for concurrent use so one is built per call
func fold(s string) string { return cases.Fold().String(s) }

type matcher struct {
	brand string
	date  string
}

func (f Filter) matcher() matcher {
	return matcher{brand: fold(strings.TrimSpace(f.Brand)), date: strings.TrimSpace(f.Date)}
}

func (m matcher) match(s scan.Scan) bool {
	if m.brand != "" && !strings.Contains(fold(s.Brand), m.brand) {
		return false
	}
	return strings.HasPrefix(s.Date, m.date)
}

// Matches reports whether s satisfies both predicates
func (f Filter) Matches(s scan.Scan) bool { return f.matcher().match(s) }

// Apply returns the scans matching f in their original order. The input is
// never modified and the result never aliases it.
func Apply(scans []scan.Scan, f Filter) []scan.Scan {
	m := f.matcher()
	out := make([]scan.Scan, 0, len(scans))
	for _, s := range scans {
		if m.match(s) {
			out = append(out, s.Clone())
		}
	}
	return out
}
