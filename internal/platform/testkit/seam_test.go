package testkit

import (
	"sync"
	"testing"
	"time"
)

var nowFn = func() string { return "real" }

func TestSwapRestores(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		Swap(t, &nowFn, func() string { return "fake" })
		if nowFn() != "fake" {
			t.Fatalf("swap did not take effect")
		}
	})
	if nowFn() != "real" {
		t.Fatalf("swap not restored")
	}
}

func TestSerialDoesNotInterleave(t *testing.T) {
	var mu sync.Mutex
	var seq []string
	rec := func(s string) { mu.Lock(); seq = append(seq, s); mu.Unlock() }

	t.Run("group", func(t *testing.T) {
		for _, name := range []string{"A", "B"} {
			name := name
			t.Run(name, func(t *testing.T) {
				t.Parallel()
				Serial(t)
				rec(name + "+")
				time.Sleep(20 * time.Millisecond)
				rec(name + "-")
			})
		}
	})

	if len(seq) != 4 || seq[0][0] != seq[1][0] || seq[2][0] != seq[3][0] {
		t.Fatalf("interleaved: %v", seq)
	}
}
