package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bottlescan/internal/adapters/classifier"
	"bottlescan/internal/core/scan"
	"bottlescan/internal/core/scanview"
	"bottlescan/internal/platform/config"
	perr "bottlescan/internal/platform/errors"
	kit "bottlescan/internal/platform/testkit"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestParseFlags(t *testing.T) {
	o, err := parseFlags([]string{"-lat", "-1.2864", "-lng", "36.8172", "-brand", "Acme", "a.jpg"}, config.New())
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if !o.hasLocation || o.lat != -1.2864 || o.lng != 36.8172 || o.brand != "Acme" || len(o.files) != 1 {
		t.Fatalf("options = %+v", o)
	}

	bad := [][]string{
		{},
		{"-lat", "1", "a.jpg"},
		{"-lat", "91", "-lng", "0", "a.jpg"},
		{"-lat", "north", "-lng", "0", "a.jpg"},
	}
	for _, args := range bad {
		if _, err := parseFlags(args, config.New()); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) && !perr.IsCode(err, perr.ErrorCodeValidation) {
			t.Fatalf("parseFlags(%v) err = %v", args, err)
		}
	}
}

func TestParseFlagsRejectsTrailingJunk(t *testing.T) {
	for _, v := range [][2]string{{"1.5x", "0"}, {"1,5", "0"}, {"1", "36.8 east"}, {"1 2", "0"}} {
		args := []string{"-lat", v[0], "-lng", v[1], "a.jpg"}
		_, err := parseFlags(args, config.New())
		if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
			t.Fatalf("parseFlags(%v) err = %v", args, err)
		}
	}

	_, err := parseFlags([]string{"-lat", "NaN", "-lng", "0", "a.jpg"}, config.New())
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("NaN latitude err = %v", err)
	}

	o, err := parseFlags([]string{"-lat", " -1.2864 ", "-lng", "3.68172e1", "a.jpg"}, config.New())
	if err != nil || o.lat != -1.2864 || o.lng != 36.8172 {
		t.Fatalf("options = %+v err = %v", o, err)
	}
}

func TestRunClassifiesAndExports(t *testing.T) {
	dir := t.TempDir()
	img := writeFile(t, dir, "bottle.jpg", kit.JPEG)
	note := writeFile(t, dir, "notes.txt", kit.Text)

	det := &classifier.Fake{Response: scan.DetectionResponse{IsCounterfeit: true, Confidence: 0.93, Message: "suspicious seal"}}
	o := options{
		origin:      "camera",
		hasLocation: true,
		lat:         -1.2864,
		lng:         36.8172,
		csvOut:      dir,
		jsonOut:     filepath.Join(dir, "out.json"),
		files:       []string{img, note},
	}

	var stdout bytes.Buffer
	err := run(context.Background(), o, det, &stdout)
	if !errors.Is(err, errFailed) {
		t.Fatalf("run err = %v, want errFailed for the text file", err)
	}
	if len(det.Calls()) != 1 {
		t.Fatalf("classifier calls = %d", len(det.Calls()))
	}
	kit.MustContain(t, stdout.String(), scanview.StatusCounterfeit)

	csv, err := os.ReadFile(filepath.Join(dir, scanview.CSVFilename))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(csv)), "\n")
	if len(lines) != 2 || lines[0] != scanview.CSVHeader || !strings.Contains(lines[1], ",Unknown,") || !strings.HasSuffix(lines[1], "-1.2864,36.8172,true") {
		t.Fatalf("csv = %q", csv)
	}

	raw, err := os.ReadFile(o.jsonOut)
	if err != nil {
		t.Fatal(err)
	}
	back, err := scanview.ParseJSON(raw)
	if err != nil || len(back) != 1 || back[0].Confidence != 0.93 {
		t.Fatalf("json = %+v (%v)", back, err)
	}

	// extend the previous export and filter it on the way out
	o2 := options{in: o.jsonOut, jsonOut: filepath.Join(dir, "filtered.json"), filter: scanview.Filter{Brand: "zzz"}}
	if err := run(context.Background(), o2, det, &stdout); err != nil {
		t.Fatalf("second run: %v", err)
	}
	raw, _ = os.ReadFile(o2.jsonOut)
	if strings.TrimSpace(string(raw)) != "[]" {
		t.Fatalf("filtered = %s", raw)
	}
}
