package bind

import (
	"net/http"
	"reflect"
	"strconv"
	"strings"

	perr "bottlescan/internal/platform/errors"
)

// ParseQuery fills the `query`-tagged fields of T from the URL query and
// validates the result. Supported kinds: string, bool, ints, floats and
// pointers to them (left nil when the parameter is absent).
func ParseQuery[T any](r *http.Request) (T, error) {
	var zero, dst T
	rv := reflect.ValueOf(&dst).Elem()
	if rv.Kind() != reflect.Struct {
		return zero, perr.Internalf("ParseQuery target must be a struct")
	}
	q := r.URL.Query()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		name, _, _ := strings.Cut(sf.Tag.Get("query"), ",")
		if name == "" || name == "-" || !sf.IsExported() {
			continue
		}
		raw := strings.TrimSpace(q.Get(name))
		if raw == "" {
			continue
		}
		if err := setField(rv.Field(i), raw); err != nil {
			return zero, perr.WithField(perr.Validationf("%s has an invalid value %q", name, raw), name)
		}
	}
	if err := Validate(dst); err != nil {
		return zero, err
	}
	return dst, nil
}

func setField(f reflect.Value, raw string) error {
	switch f.Kind() {
	case reflect.Pointer:
		v := reflect.New(f.Type().Elem())
		if err := setField(v.Elem(), raw); err != nil {
			return err
		}
		f.Set(v)
	case reflect.String:
		f.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		f.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, f.Type().Bits())
		if err != nil {
			return err
		}
		f.SetInt(n)
	case reflect.Float32, reflect.Float64:
		x, err := strconv.ParseFloat(raw, f.Type().Bits())
		if err != nil {
			return err
		}
		f.SetFloat(x)
	default:
		return strconv.ErrSyntax
	}
	return nil
}
