// Package config reads application settings from the process environment
package config

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"bottlescan/internal/platform/logger"
)

// Conf is a namespaced view over environment variables (e.g. "CORE_", "LOG_")
type Conf struct{ prefix string }

// New creates a root Conf (no prefix)
func New() Conf { return Conf{} }

// Prefix creates a child Conf with an additional prefix, e.g. cfg.Prefix("CORE_")
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

// lookup returns the trimmed value and whether it is non-empty
func (c Conf) lookup(k string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(c.key(k)))
	return v, v != ""
}

// LoadDotenv loads the given dotenv files (".env" when none are named) into the
// environment. Variables already set win. Missing files are skipped.
func LoadDotenv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// MustString panics if the given key is missing or empty
func (c Conf) MustString(key string) string {
	v, ok := c.lookup(key)
	if !ok {
		logger.Get().Panic().Str("key", c.key(key)).Msg("missing required env")
	}
	return v
}

// MustPort returns a net/http addr like ":4000" after validating 1..65535
func (c Conf) MustPort(key string) string {
	s := c.MustString(key)
	p, err := strconv.Atoi(s)
	if err != nil || p < 1 || p > 65535 {
		logger.Get().Panic().Str("key", c.key(key)).Str("value", s).Msg("invalid TCP port; expected 1..65535")
	}
	return ":" + s
}

// mayParse returns def when the key is unset, the parsed value when it parses,
// and def with a warning when it does not
func mayParse[T any](c Conf, key string, def T, kind string, parse func(string) (T, error)) T {
	s, ok := c.lookup(key)
	if !ok {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Interface("default", def).
			Msgf("invalid %s; using default", kind)
		return def
	}
	return v
}

// MayString returns the value or def if missing/empty
func (c Conf) MayString(key, def string) string {
	if v, ok := c.lookup(key); ok {
		return v
	}
	return def
}

// MayInt returns the value or def if missing/empty/invalid
func (c Conf) MayInt(key string, def int) int {
	return mayParse(c, key, def, "int", strconv.Atoi)
}

// MayInt64 returns the value or def if missing/empty/invalid
func (c Conf) MayInt64(key string, def int64) int64 {
	return mayParse(c, key, def, "int64", func(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) })
}

// MayFloat64 returns the value or def if missing/empty/invalid
func (c Conf) MayFloat64(key string, def float64) float64 {
	return mayParse(c, key, def, "float64", func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// MayBool returns the value or def if missing/empty/invalid
func (c Conf) MayBool(key string, def bool) bool {
	return mayParse(c, key, def, "bool", strconv.ParseBool)
}

// MayDuration returns the value or def if missing/empty/invalid
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return mayParse(c, key, def, "duration", time.ParseDuration)
}

// MayURL returns an absolute URL string or def. An empty def means "disabled".
func (c Conf) MayURL(key, def string) string {
	return mayParse(c, key, def, "absolute URL", func(s string) (string, error) {
		u, err := url.Parse(s)
		if err != nil {
			return "", err
		}
		if !u.IsAbs() || u.Host == "" {
			return "", errors.New("not absolute")
		}
		return strings.TrimRight(s, "/"), nil
	})
}

// MayCSV returns the non-empty comma-separated items; def if there are none
func (c Conf) MayCSV(key string, def []string) []string {
	s, ok := c.lookup(key)
	if !ok {
		return def
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum returns the lowercased value if it is one of allowed, def when unset.
// Panics on a value outside allowed.
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v, ok := c.lookup(key)
	if !ok {
		return def
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return strings.ToLower(a)
		}
	}
	logger.Get().Panic().Str("key", c.key(key)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}
