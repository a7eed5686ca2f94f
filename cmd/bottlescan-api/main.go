// @title         Bottlescan API
// @version       0.1.0
// @description   Counterfeit bottle scanning sessions, scan map and exports

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"bottlescan/internal/adapters/classifier"
	"bottlescan/internal/adapters/scanfeed"
	"bottlescan/internal/core/capture"
	"bottlescan/internal/core/geo"
	"bottlescan/internal/core/scanview"
	"bottlescan/internal/platform/config"
	"bottlescan/internal/platform/logger"
	phttp "bottlescan/internal/platform/net/http"
	"bottlescan/internal/platform/net/middleware"
	"bottlescan/internal/services/api"
	scanssvc "bottlescan/internal/services/api/scans/service"
	"bottlescan/internal/services/session/domain"
	sessionsvc "bottlescan/internal/services/session/service"
)

func main() {
	// .env is optional; real env wins
	if err := config.LoadDotenv(); err != nil {
		logger.Get().Panic().Err(err).Msg("load .env failed")
	}

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	clsCfg := root.Prefix("CORE_CLASSIFIER_")
	feedCfg := root.Prefix("CORE_SCANFEED_")
	geoCfg := root.Prefix("CORE_GEO_")
	mapCfg := root.Prefix("CORE_MAP_")

	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	detector := classifier.NewClient(classifier.Options{
		BaseURL: clsCfg.MayURL("URL", "http://localhost:5000"),
		Timeout: clsCfg.MayDuration("TIMEOUT", 30*time.Second),
	})

	var gp geo.Provider = geo.Unavailable
	if p := geo.NewHTTPProvider(geo.HTTPOptions{
		URL:     geoCfg.MayURL("URL", ""),
		Timeout: geoCfg.MayDuration("TIMEOUT", 3*time.Second),
	}); p != nil {
		gp = p
	}

	regOpts := sessionsvc.Options{
		Mode: domain.Mode(root.MayEnum("CORE_SESSION_SOURCE", string(domain.ModeLocal), string(domain.ModeLocal), string(domain.ModeRemote))),
		Geo:  gp,
	}
	if feed := scanfeed.NewClient(scanfeed.Options{
		BaseURL: feedCfg.MayURL("URL", ""),
		Timeout: feedCfg.MayDuration("TIMEOUT", 10*time.Second),
	}); feed != nil {
		regOpts.Remote = feed
	}
	reg, err := sessionsvc.NewRegistry(regOpts)
	if err != nil {
		l.Panic().Err(err).Msg("session registry")
	}
	defer reg.CloseAll(context.Background())

	fallback := scanview.Fallback
	fallback.Latitude = mapCfg.MayFloat64("FALLBACK_LAT", fallback.Latitude)
	fallback.Longitude = mapCfg.MayFloat64("FALLBACK_LNG", fallback.Longitude)
	if err := fallback.Validate(); err != nil {
		l.Panic().Err(err).Msg("CORE_MAP_FALLBACK_LAT/LNG")
	}

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(apiCfg)

	api.Mount(srv.Router(), api.Options{
		Config:   apiCfg,
		Logger:   l,
		Sessions: reg,
		Detector: detector,
		Capture:  capture.New(capture.Options{MaxBytes: root.MayInt64("CORE_CAPTURE_MAX_BYTES", capture.DefaultMaxBytes)}),
		Map: scanssvc.MapOptions{
			Fallback:    &fallback,
			MinCluster:  mapCfg.MayInt("MIN_CLUSTER", scanview.DefaultMinCluster),
			DefaultZoom: mapCfg.MayInt("ZOOM", scanview.DefaultZoom),
		},
		CORS: middleware.CORSOptions{
			AllowedOrigins: apiCfg.MayCSV("CORS_ORIGINS", nil),
		},
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
	})

	l.Info().
		Str("classifier", detector.BaseURL()).
		Str("source", string(regOpts.Mode)).
		Msg("bottlescan api starting")

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
