package raw

import "testing"

func TestGet(t *testing.T) {
	t.Setenv("LOG_LEVEL", " info ")
	c := New().Prefix("LOG_")
	if got := c.Get("LEVEL", "debug"); got != "info" {
		t.Fatalf("Get = %q", got)
	}
	if got := c.Get("MISSING", "dflt"); got != "dflt" {
		t.Fatalf("Get default = %q", got)
	}
}

func TestGetBool(t *testing.T) {
	c := New().Prefix("B_")
	cases := []struct {
		env  string
		def  bool
		want bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"YES", false, true},
		{"on", false, true},
		{"false", true, false},
		{"no", true, false},
		{"", true, true},
		{"   ", false, false},
	}
	for _, tc := range cases {
		t.Setenv("B_V", tc.env)
		if got := c.GetBool("V", tc.def); got != tc.want {
			t.Fatalf("GetBool(%q, %v) = %v, want %v", tc.env, tc.def, got, tc.want)
		}
	}
}

func TestGetInt(t *testing.T) {
	c := New().Prefix("I_")
	t.Setenv("I_OK", " 42 ")
	t.Setenv("I_NEG", "-3")
	t.Setenv("I_BAD", "4x")
	if got := c.GetInt("OK", 0); got != 42 {
		t.Fatalf("GetInt = %d", got)
	}
	if got := c.GetInt("NEG", 7); got != 7 {
		t.Fatalf("GetInt negative = %d", got)
	}
	if got := c.GetInt("BAD", 7); got != 7 {
		t.Fatalf("GetInt bad = %d", got)
	}
	if got := c.GetInt("MISSING", 9); got != 9 {
		t.Fatalf("GetInt missing = %d", got)
	}
}
