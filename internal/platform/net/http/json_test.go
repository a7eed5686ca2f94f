package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "bottlescan/internal/platform/errors"
	phttp "bottlescan/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

type echoIn struct {
	Name string `json:"name" validate:"required,max=8"`
}

type filterIn struct {
	Brand string `query:"brand"`
	Zoom  int    `query:"zoom" validate:"lte=20"`
}

func TestSugarMountsHandlers(t *testing.T) {
	r := phttp.AdaptChi(chi.NewRouter())
	phttp.PostJSON(r, "/echo", func(_ *http.Request, in echoIn) (any, error) { return in.Name, nil })
	phttp.PutJSON(r, "/echo", func(_ *http.Request, in echoIn) (any, error) { return phttp.Created(in.Name), nil })
	phttp.GetJSON(r, "/fail", func(*http.Request) (any, error) { return nil, perr.Unavailablef("classifier down") })
	phttp.DeleteJSON(r, "/gone", func(*http.Request) (any, error) { return phttp.NoContent(), nil })
	phttp.GetQuery(r, "/filter", func(_ *http.Request, f filterIn) (any, error) { return f, nil })

	call := func(method, path, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		r.Mux().ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
		return rec
	}

	if rec := call(http.MethodPost, "/echo", `{"name":"acme"}`); rec.Code != 200 || !strings.Contains(rec.Body.String(), `"data":"acme"`) {
		t.Fatalf("POST echo: %d %s", rec.Code, rec.Body.String())
	}
	if rec := call(http.MethodPost, "/echo", `{"name":""}`); rec.Code != 400 || !strings.Contains(rec.Body.String(), `"field":"name"`) {
		t.Fatalf("POST echo invalid: %d %s", rec.Code, rec.Body.String())
	}
	if rec := call(http.MethodPut, "/echo", `{"name":"zeta"}`); rec.Code != 201 {
		t.Fatalf("PUT echo: %d", rec.Code)
	}
	if rec := call(http.MethodGet, "/fail", ""); rec.Code != 503 {
		t.Fatalf("GET fail: %d", rec.Code)
	}
	if rec := call(http.MethodDelete, "/gone", ""); rec.Code != 204 {
		t.Fatalf("DELETE gone: %d", rec.Code)
	}
	if rec := call(http.MethodGet, "/filter?brand=Acme&zoom=3", ""); rec.Code != 200 || !strings.Contains(rec.Body.String(), `"Brand":"Acme"`) {
		t.Fatalf("GET filter: %d %s", rec.Code, rec.Body.String())
	}
	if rec := call(http.MethodGet, "/filter?zoom=99", ""); rec.Code != 400 {
		t.Fatalf("GET filter invalid: %d", rec.Code)
	}
}
