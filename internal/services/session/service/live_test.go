package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bottlescan/internal/core/scan"
	"bottlescan/internal/platform/logger"
	kit "bottlescan/internal/platform/testkit"

	"github.com/gorilla/websocket"
)

func dial(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = h.Serve(w, r)
	}))
	t.Cleanup(srv.Close)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var e Event
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := json.Unmarshal(raw, &e); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return e
}

func TestHubPushesRecordedScans(t *testing.T) {
	s := newRegistry(t, Options{}).Create(context.Background())
	conn := dial(t, s.Hub())

	if e := readEvent(t, conn); e.Type != EventHello {
		t.Fatalf("first event = %+v", e)
	}
	kit.Eventually(t, time.Second, func() bool { return s.Hub().Viewers() == 1 }, "viewer registered")

	if err := s.Record(scan.Scan{ID: "live-1", Brand: "Acme", Confidence: 0.9}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	e := readEvent(t, conn)
	if e.Type != EventScan || e.Scan == nil || e.Scan.ID != "live-1" {
		t.Fatalf("event = %+v", e)
	}
}

func TestHubCloseDisconnectsViewers(t *testing.T) {
	h := NewHub(*logger.Named("live-test"))
	conn := dial(t, h)
	_ = readEvent(t, conn)
	kit.Eventually(t, time.Second, func() bool { return h.Viewers() == 1 }, "viewer registered")

	h.Close()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Fatalf("expected going-away close, got %v", err)
	}
	if h.Viewers() != 0 {
		t.Fatalf("viewers = %d", h.Viewers())
	}
}
