package scanview

import (
	"reflect"
	"strings"
	"testing"

	"bottlescan/internal/core/scan"
	perr "bottlescan/internal/platform/errors"
)

func TestExportCSV(t *testing.T) {
	got := string(ExportCSV(fixture()))
	want := strings.Join([]string{
		CSVHeader,
		"a,Acme,2024-01-01,-1.2864,36.8172,false",
		"b,Acme,2024-01-02,,,true",
		"c,Zeta,2024-02-01,40.7128,-74.006,false",
		"",
	}, "\n")
	if got != want {
		t.Fatalf("csv:\n%s\nwant:\n%s", got, want)
	}
}

func TestExportCSVEmptyAndUnescaped(t *testing.T) {
	if got := string(ExportCSV(nil)); got != CSVHeader+"\n" {
		t.Fatalf("empty csv = %q", got)
	}
	got := string(ExportCSV([]scan.Scan{{ID: "x", Brand: "Smith, Sons", Date: "2024-01-01"}}))
	if !strings.Contains(got, "x,Smith, Sons,2024-01-01,,,false") {
		t.Fatalf("brand should be written verbatim: %q", got)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	for _, set := range [][]scan.Scan{fixture(), Apply(fixture(), Filter{Brand: "zeta"}), {}} {
		raw, err := ExportJSON(set)
		if err != nil {
			t.Fatalf("ExportJSON: %v", err)
		}
		back, err := ParseJSON(raw)
		if err != nil {
			t.Fatalf("ParseJSON: %v", err)
		}
		if !reflect.DeepEqual(back, set) {
			t.Fatalf("round trip = %+v, want %+v", back, set)
		}
	}
}

func TestExportJSONFieldNames(t *testing.T) {
	raw, _ := ExportJSON(fixture()[:1])
	for _, k := range []string{`"id"`, `"brand"`, `"date"`, `"is_counterfeit"`, `"confidence"`, `"location"`, `"latitude"`, `"longitude"`} {
		if !strings.Contains(string(raw), k) {
			t.Fatalf("missing %s in %s", k, raw)
		}
	}
	if empty, _ := ExportJSON(nil); string(empty) != "[]" {
		t.Fatalf("empty export = %s", empty)
	}
}

func TestParseJSONRejectsGarbage(t *testing.T) {
	if _, err := ParseJSON([]byte("{nope")); !perr.IsCode(err, perr.ErrorCodeJSON) {
		t.Fatalf("err = %v", err)
	}
}
