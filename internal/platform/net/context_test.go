package net_test

import (
	"context"
	"testing"

	pnet "bottlescan/internal/platform/net"
)

func TestContextIDs(t *testing.T) {
	base := context.Background()

	ctx := pnet.WithSession(pnet.WithRequest(base, "req-1"), "sess-1")
	if got := pnet.RequestID(ctx); got != "req-1" {
		t.Fatalf("RequestID = %q", got)
	}
	if got := pnet.SessionID(ctx); got != "sess-1" {
		t.Fatalf("SessionID = %q", got)
	}

	if pnet.WithRequest(base, "") != base || pnet.WithSession(base, "") != base {
		t.Fatalf("empty ids should leave ctx untouched")
	}
	if pnet.RequestID(base) != "" || pnet.SessionID(base) != "" {
		t.Fatalf("background ctx should carry no ids")
	}
}
