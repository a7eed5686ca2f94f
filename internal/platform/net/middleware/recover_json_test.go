package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "bottlescan/internal/platform/errors"
	phttp "bottlescan/internal/platform/net/http"
	"bottlescan/internal/platform/net/middleware"
	kit "bottlescan/internal/platform/testkit"

	chimw "github.com/go-chi/chi/v5/middleware"
)

func TestRecoverJSONWritesEnvelope(t *testing.T) {
	h := chimw.RequestID(middleware.RecoverJSON(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	})))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	var env phttp.Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Code != perr.ErrorCodePanic || env.Error != "panic recovered" || env.RequestID == "" {
		t.Fatalf("envelope %+v", env)
	}
	if rr.Header().Get("X-Request-ID") != env.RequestID {
		t.Fatalf("X-Request-ID header not mirrored")
	}
}

func TestRecoverJSONRepanicsAbort(t *testing.T) {
	h := middleware.RecoverJSON(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	kit.MustPanic(t, func() { h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)) })
}

func TestRecoverJSONNoPanic(t *testing.T) {
	h := middleware.RecoverJSON(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusAccepted {
		t.Fatalf("status = %d", rr.Code)
	}
}
