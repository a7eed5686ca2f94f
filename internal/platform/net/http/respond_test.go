package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "bottlescan/internal/platform/errors"
	pnet "bottlescan/internal/platform/net"
	phttp "bottlescan/internal/platform/net/http"
)

func withReqID(req *http.Request, rid string) *http.Request {
	return req.WithContext(pnet.WithRequest(req.Context(), rid))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) phttp.Envelope {
	t.Helper()
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	return env
}

func TestHandleEnvelopes(t *testing.T) {
	cases := []struct {
		name   string
		resp   phttp.Response
		status int
		code   perr.ErrorCode
	}{
		{"ok", phttp.OK(map[string]int{"n": 1}), 200, 0},
		{"created", phttp.Created("sess"), 201, 0},
		{"validation", phttp.Error(perr.Validationf("file is not an image")), 400, perr.ErrorCodeValidation},
		{"conflict", phttp.Error(perr.Conflictf("busy")), 409, perr.ErrorCodeConflict},
		{"upstream", phttp.Error(perr.Upstreamf("status 500")), 502, perr.ErrorCodeUpstream},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h := phttp.Handle(func(*http.Request) phttp.Response { return tc.resp })
			h(rec, withReqID(httptest.NewRequest(http.MethodGet, "/", nil), "rid-1"))
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			env := decode(t, rec)
			if env.StatusCode != tc.status || env.Code != tc.code || env.RequestID != "rid-1" {
				t.Fatalf("envelope %+v", env)
			}
		})
	}
}

func TestHandleNoContentAndHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.Handle(func(*http.Request) phttp.Response {
		r := phttp.NoContent()
		r.Header = http.Header{"X-Extra": {"1"}}
		return r
	})(rec, httptest.NewRequest(http.MethodDelete, "/", nil))
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 || rec.Header().Get("X-Extra") != "1" {
		t.Fatalf("no content: %d %q", rec.Code, rec.Body.String())
	}
}

func TestDownload(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.Handle(func(*http.Request) phttp.Response {
		return phttp.Download("scans.csv", "text/csv; charset=utf-8", []byte("id,brand\n"))
	})(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != 200 || rec.Body.String() != "id,brand\n" {
		t.Fatalf("download: %d %q", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="scans.csv"` {
		t.Fatalf("Content-Disposition = %q", cd)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("Content-Type = %q", ct)
	}
}

func TestRespondHelpers(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.RespondError(rec, httptest.NewRequest(http.MethodGet, "/", nil), perr.NotFoundf("session not found"))
	if env := decode(t, rec); rec.Code != 404 || env.Error != "session not found" {
		t.Fatalf("RespondError: %d %+v", rec.Code, env)
	}

	rec = httptest.NewRecorder()
	phttp.RespondOK(rec, httptest.NewRequest(http.MethodGet, "/", nil), "pong")
	if env := decode(t, rec); rec.Code != 200 || env.Data != "pong" {
		t.Fatalf("RespondOK: %d %+v", rec.Code, env)
	}
}
