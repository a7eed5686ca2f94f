// Package http provides http transport for scans
package http

import (
	"errors"
	"io"
	stdhttp "net/http"
	"strconv"
	"strings"

	"bottlescan/internal/core/capture"
	"bottlescan/internal/core/scanview"
	"bottlescan/internal/modkit/httpkit"
	perr "bottlescan/internal/platform/errors"
	"bottlescan/internal/platform/logger"
	pnet "bottlescan/internal/platform/net"
	"bottlescan/internal/platform/net/middleware"
	"bottlescan/internal/services/api/scans/domain"
	svc "bottlescan/internal/services/api/scans/service"
)

// formOverhead is the multipart allowance on top of the image bound
const formOverhead = 1 << 20

// Register mounts scan endpoints on the given router
func Register(r httpkit.Router, s svc.Service, maxUpload int64) {
	h := &handlers{svc: s, maxUpload: maxUpload}
	httpkit.Post(r, "/", h.detect)
	httpkit.GetQuery(r, "/", h.list)
	httpkit.GetQuery(r, "/map", h.view)
	httpkit.GetQuery(r, "/map/geojson", h.geojson)
	httpkit.GetQuery(r, "/clusters/{token}", h.cluster)
	httpkit.Get(r, "/center/me", h.centerMe)
	httpkit.GetQuery(r, "/export.csv", h.exportCSV)
	httpkit.GetQuery(r, "/export.json", h.exportJSON)
	r.Get("/live", h.live)
}

type handlers struct {
	svc       svc.Service
	maxUpload int64
}

// sessionID reads the id the session middleware verified, falling back to the
// raw header and the "session" query parameter
func sessionID(r *stdhttp.Request) (string, error) {
	id := pnet.SessionID(r.Context())
	if id == "" {
		id = strings.TrimSpace(r.Header.Get(middleware.SessionHeader))
	}
	if id == "" {
		id = strings.TrimSpace(r.URL.Query().Get("session"))
	}
	if id == "" {
		return "", perr.WithField(perr.Validationf("%s header is required", middleware.SessionHeader), "session")
	}
	return id, nil
}

// swagger:route POST /scans Scans scansDetect
// @Summary Classify a bottle image and record the scan
// @Tags Scans
// @Accept multipart/form-data
// @Produce json
// @Param X-Session-ID header string true "Session id"
// @Param file formData file true "Bottle image"
// @Param brand formData string false "Brand hint"
// @Param latitude formData number false "Latitude"
// @Param longitude formData number false "Longitude"
// @Param location_denied formData boolean false "Browser refused geolocation"
// @Param origin formData string false "file_picker, drag_drop or camera"
// @Success 201 {object} domain.DetectResult "scan recorded"
// @Failure 400 {object} httpkit.Envelope "not an image"
// @Failure 409 {object} httpkit.Envelope "detection in progress"
// @Failure 502 {object} httpkit.Envelope "classifier error"
// @Failure 503 {object} httpkit.Envelope "classifier unreachable"
// @Router /scans [post]
func (h *handlers) detect(r *stdhttp.Request) (any, error) {
	sid, err := sessionID(r)
	if err != nil {
		return nil, err
	}
	in, err := h.detectInput(r)
	if err != nil {
		return nil, err
	}
	out, err := h.svc.Detect(r.Context(), sid, in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(out), nil
}

func (h *handlers) detectInput(r *stdhttp.Request) (domain.DetectInput, error) {
	limit := h.maxUpload
	if limit <= 0 {
		limit = capture.DefaultMaxBytes
	}
	r.Body = stdhttp.MaxBytesReader(nil, r.Body, limit+formOverhead)
	if err := r.ParseMultipartForm(limit + formOverhead); err != nil {
		var tooBig *stdhttp.MaxBytesError
		if errors.As(err, &tooBig) {
			return domain.DetectInput{}, perr.WithField(perr.Validationf("file exceeds %d bytes", limit), "file")
		}
		return domain.DetectInput{}, perr.WithField(perr.Wrap(err, perr.ErrorCodeValidation, "expected a multipart form with a file field"), "file")
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	f, hdr, err := r.FormFile("file")
	if err != nil {
		return domain.DetectInput{}, perr.WithField(perr.Validationf("file is required"), "file")
	}
	defer func() { _ = f.Close() }()
	data, err := io.ReadAll(f)
	if err != nil {
		return domain.DetectInput{}, perr.WithField(perr.Wrap(err, perr.ErrorCodeValidation, "could not read file"), "file")
	}

	origin, err := capture.ParseOrigin(r.FormValue("origin"))
	if err != nil {
		return domain.DetectInput{}, err
	}
	lat, err := optFloat(r, "latitude")
	if err != nil {
		return domain.DetectInput{}, err
	}
	lng, err := optFloat(r, "longitude")
	if err != nil {
		return domain.DetectInput{}, err
	}
	denied, _ := strconv.ParseBool(strings.TrimSpace(r.FormValue("location_denied")))

	return domain.DetectInput{
		Upload: capture.Upload{
			Origin:       origin,
			Filename:     hdr.Filename,
			DeclaredType: hdr.Header.Get("Content-Type"),
			Data:         data,
		},
		Brand:     r.FormValue("brand"),
		Latitude:  lat,
		Longitude: lng,
		Denied:    denied,
	}, nil
}

func optFloat(r *stdhttp.Request, name string) (*float64, error) {
	raw := strings.TrimSpace(r.FormValue(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, perr.WithField(perr.Validationf("%s must be a number", name), name)
	}
	return &v, nil
}

// swagger:route GET /scans Scans scansList
// @Summary Filtered scans in recording order
// @Tags Scans
// @Produce json
// @Param X-Session-ID header string true "Session id"
// @Param brand query string false "Case-insensitive brand substring"
// @Param date query string false "Date prefix (YYYY, YYYY-MM, YYYY-MM-DD)"
// @Success 200 {object} domain.ScanList "ok"
// @Router /scans [get]
func (h *handlers) list(r *stdhttp.Request, q domain.FilterQuery) (any, error) {
	sid, err := sessionID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.List(r.Context(), sid, q)
}

// swagger:route GET /scans/map Scans scansMap
// @Summary Markers, clusters and center for the filtered scans
// @Tags Scans
// @Produce json
// @Param X-Session-ID header string true "Session id"
// @Param brand query string false "Brand filter"
// @Param date query string false "Date prefix"
// @Param zoom query int false "Map zoom 0-20"
// @Success 200 {object} scanview.View "ok"
// @Router /scans/map [get]
func (h *handlers) view(r *stdhttp.Request, q domain.MapQuery) (any, error) {
	sid, err := sessionID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Map(r.Context(), sid, q)
}

// swagger:route GET /scans/map/geojson Scans scansGeoJSON
// @Summary The map view as a GeoJSON FeatureCollection
// @Tags Scans
// @Produce application/geo+json
// @Param X-Session-ID header string true "Session id"
// @Router /scans/map/geojson [get]
func (h *handlers) geojson(r *stdhttp.Request, q domain.MapQuery) (any, error) {
	sid, err := sessionID(r)
	if err != nil {
		return nil, err
	}
	body, err := h.svc.GeoJSON(r.Context(), sid, q)
	if err != nil {
		return nil, err
	}
	return httpkit.Download(scanview.GeoJSONFilename, scanview.GeoJSONType, body), nil
}

// swagger:route GET /scans/clusters/{token} Scans scansCluster
// @Summary Scans grouped under a cluster badge
// @Tags Scans
// @Produce json
// @Param X-Session-ID header string true "Session id"
// @Param token path string true "Cluster token"
// @Success 200 {object} domain.ClusterDetail "ok"
// @Failure 404 {object} httpkit.Envelope "empty cluster"
// @Router /scans/clusters/{token} [get]
func (h *handlers) cluster(r *stdhttp.Request, q domain.FilterQuery) (any, error) {
	sid, err := sessionID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Cluster(r.Context(), sid, httpkit.Param(r, "token"), q)
}

// swagger:route GET /scans/center/me Scans scansCenterMe
// @Summary Center the map on the session's position
// @Tags Scans
// @Produce json
// @Param X-Session-ID header string true "Session id"
// @Success 200 {object} scanview.Center "ok"
// @Failure 503 {object} httpkit.Envelope "location unavailable"
// @Router /scans/center/me [get]
func (h *handlers) centerMe(r *stdhttp.Request) (any, error) {
	sid, err := sessionID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.CenterOnMe(r.Context(), sid)
}

// swagger:route GET /scans/export.csv Scans scansExportCSV
// @Summary Download the filtered scans as CSV
// @Tags Scans
// @Produce text/csv
// @Param X-Session-ID header string true "Session id"
// @Router /scans/export.csv [get]
func (h *handlers) exportCSV(r *stdhttp.Request, q domain.FilterQuery) (any, error) {
	sid, err := sessionID(r)
	if err != nil {
		return nil, err
	}
	body, err := h.svc.ExportCSV(r.Context(), sid, q)
	if err != nil {
		return nil, err
	}
	return httpkit.Download(scanview.CSVFilename, scanview.CSVType, body), nil
}

// swagger:route GET /scans/export.json Scans scansExportJSON
// @Summary Download the filtered scans as JSON
// @Tags Scans
// @Produce json
// @Param X-Session-ID header string true "Session id"
// @Router /scans/export.json [get]
func (h *handlers) exportJSON(r *stdhttp.Request, q domain.FilterQuery) (any, error) {
	sid, err := sessionID(r)
	if err != nil {
		return nil, err
	}
	body, err := h.svc.ExportJSON(r.Context(), sid, q)
	if err != nil {
		return nil, err
	}
	return httpkit.Download(scanview.JSONFilename, scanview.JSONType, body), nil
}

// live upgrades to a websocket that pushes each recorded scan
func (h *handlers) live(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	sid, err := sessionID(r)
	if err != nil {
		httpkit.RespondError(w, r, err)
		return
	}
	hub, err := h.svc.Hub(sid)
	if err != nil {
		httpkit.RespondError(w, r, err)
		return
	}
	if err := hub.Serve(w, r); err != nil {
		logger.C(r.Context()).Debug().Err(err).Msg("live upgrade failed")
	}
}
