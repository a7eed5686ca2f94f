// Command bottlescan-scan classifies local bottle images against the
// classifier service and optionally exports the resulting scans
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"bottlescan/internal/adapters/classifier"
	"bottlescan/internal/core/capture"
	"bottlescan/internal/core/geo"
	"bottlescan/internal/core/scan"
	"bottlescan/internal/core/scanview"
	"bottlescan/internal/platform/config"
	perr "bottlescan/internal/platform/errors"
	"bottlescan/internal/platform/logger"
)

// errFailed marks a run where at least one image did not produce a scan
var errFailed = errors.New("one or more detections failed")

type options struct {
	classifierURL string
	timeout       time.Duration
	geoURL        string
	origin        string
	brand         string
	lat, lng      float64
	hasLocation   bool
	in            string
	csvOut        string
	jsonOut       string
	filter        scanview.Filter
	files         []string
}

func parseFlags(args []string, cfg config.Conf) (options, error) {
	var o options
	fs := flag.NewFlagSet("bottlescan-scan", flag.ContinueOnError)
	fs.StringVar(&o.classifierURL, "classifier", cfg.MayURL("CORE_CLASSIFIER_URL", "http://localhost:5000"), "classifier base URL")
	fs.DurationVar(&o.timeout, "timeout", cfg.MayDuration("CORE_CLASSIFIER_TIMEOUT", 30*time.Second), "classifier request timeout")
	fs.StringVar(&o.geoURL, "geo", cfg.MayURL("CORE_GEO_URL", ""), "IP geolocation URL used when -lat/-lng are unset")
	fs.StringVar(&o.origin, "origin", string(capture.FilePicker), "capture origin: file_picker, drag_drop or camera")
	fs.StringVar(&o.brand, "brand", "", "brand hint sent with every image")
	lat := fs.String("lat", "", "latitude of the capture")
	lng := fs.String("lng", "", "longitude of the capture")
	fs.StringVar(&o.in, "in", "", "previous scans.json to extend")
	fs.StringVar(&o.csvOut, "csv", "", "write scans as CSV to this path (a directory gets "+scanview.CSVFilename+")")
	fs.StringVar(&o.jsonOut, "json", "", "write scans as JSON to this path (a directory gets "+scanview.JSONFilename+")")
	fs.StringVar(&o.filter.Brand, "filter-brand", "", "export only scans whose brand contains this")
	fs.StringVar(&o.filter.Date, "filter-date", "", "export only scans whose date starts with this")
	if err := fs.Parse(args); err != nil {
		return o, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "flags")
	}
	o.files = fs.Args()
	if len(o.files) == 0 && o.in == "" {
		return o, perr.InvalidArgf("usage: bottlescan-scan [flags] image...")
	}

	if (*lat == "") != (*lng == "") {
		return o, perr.InvalidArgf("-lat and -lng must be given together")
	}
	if *lat != "" {
		var err error
		if o.lat, err = parseDegrees("lat", *lat); err != nil {
			return o, err
		}
		if o.lng, err = parseDegrees("lng", *lng); err != nil {
			return o, err
		}
		if _, err := geo.New(o.lat, o.lng); err != nil {
			return o, err
		}
		o.hasLocation = true
	}
	return o, nil
}

// parseDegrees reads a whole flag value as a decimal coordinate
func parseDegrees(name, v string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "bad -%s %q", name, v)
	}
	return f, nil
}

func (o options) locator() geo.Provider {
	if o.hasLocation {
		return geo.Static{Coords: &geo.Coordinates{Latitude: o.lat, Longitude: o.lng}}
	}
	if p := geo.NewHTTPProvider(geo.HTTPOptions{URL: o.geoURL}); p != nil {
		return geo.Once(p)
	}
	return geo.Unavailable
}

// run classifies each file in turn, one detection at a time, and writes the
// requested exports. A failed image is reported and skipped.
func run(ctx context.Context, o options, det classifier.Detector, stdout io.Writer) error {
	log := logger.Named("scan")
	store := scan.NewStore()

	if o.in != "" {
		raw, err := os.ReadFile(o.in)
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "read %s", o.in)
		}
		prev, err := scanview.ParseJSON(raw)
		if err != nil {
			return err
		}
		for _, sc := range prev {
			if err := store.Append(sc); err != nil {
				return err
			}
		}
	}

	origin, err := capture.ParseOrigin(o.origin)
	if err != nil {
		return err
	}
	src := capture.New(capture.Options{})
	loc := o.locator()
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")

	failed := false
	for _, path := range o.files {
		sc, err := classify(ctx, src, det, loc.Acquire(ctx), origin, o.brand, path)
		if err != nil {
			failed = true
			log.Error().Err(err).Str("file", path).Msg(err.Error())
			continue
		}
		if err := store.Append(sc); err != nil {
			return err
		}
		_ = enc.Encode(scanview.Present(sc))
	}

	out := scanview.Apply(store.All(), o.filter)
	if o.csvOut != "" {
		if err := write(o.csvOut, scanview.CSVFilename, scanview.ExportCSV(out)); err != nil {
			return err
		}
	}
	if o.jsonOut != "" {
		body, err := scanview.ExportJSON(out)
		if err != nil {
			return err
		}
		if err := write(o.jsonOut, scanview.JSONFilename, body); err != nil {
			return err
		}
	}
	log.Info().Int("scans", store.Len()).Int("exported", len(out)).Msg("done")

	if failed {
		return errFailed
	}
	return nil
}

func classify(ctx context.Context, src *capture.Source, det classifier.Detector, loc *geo.Coordinates, origin capture.Origin, brand, path string) (scan.Scan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scan.Scan{}, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "read %s", path)
	}
	res, err := src.Submit(ctx, capture.Upload{Origin: origin, Filename: filepath.Base(path), Data: data})
	if err != nil {
		return scan.Scan{}, err
	}
	resp, err := det.Detect(ctx, res.Image, loc, brand)
	if err != nil {
		return scan.Scan{}, classifier.Failed(err)
	}
	sc, err := scan.Build(resp, scan.Local{BrandHint: brand, Location: loc})
	if err != nil {
		return scan.Scan{}, classifier.Failed(err)
	}
	return sc, nil
}

// write puts body at path, or at path/name when path is a directory
func write(path, name string, body []byte) error {
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		path = filepath.Join(path, name)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "write %s", path)
	}
	return nil
}

func main() {
	if err := config.LoadDotenv(); err != nil {
		logger.Get().Fatal().Err(err).Msg("load .env failed")
	}
	o, err := parseFlags(os.Args[1:], config.New())
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logger.Get().Fatal().Err(err).Msg("bad arguments")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	det := classifier.NewClient(classifier.Options{BaseURL: o.classifierURL, Timeout: o.timeout})
	if err := run(ctx, o, det, os.Stdout); err != nil {
		stop()
		logger.Get().Fatal().Err(err).Msg("bottlescan-scan failed")
	}
}
