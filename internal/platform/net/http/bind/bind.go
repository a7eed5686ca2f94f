// Package bind decodes and validates request input (JSON bodies, query strings)
package bind

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"sync"

	perr "bottlescan/internal/platform/errors"
	"bottlescan/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// ValidatorSvc holds the singleton validator and its english translator
type ValidatorSvc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	vOnce sync.Once
	vSvc  *ValidatorSvc

	dayPrefix = regexp.MustCompile(`^\d{1,4}(-(\d{1,2}(-\d{0,2})?)?)?$`)
)

// Get returns the validator singleton, initializing on first use
func Get() *ValidatorSvc {
	vOnce.Do(func() {
		enLoc := en.New()
		trans, _ := ut.New(enLoc, enLoc).GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(fieldName)
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		translate(v, trans, "min", "{0} must be at least {1}")
		translate(v, trans, "max", "{0} must be at most {1}")
		translate(v, trans, "gte", "{0} must be at least {1}")
		translate(v, trans, "lte", "{0} must be at most {1}")

		_ = v.RegisterValidation("day_prefix", func(fl validator.FieldLevel) bool {
			return dayPrefix.MatchString(fl.Field().String())
		})
		translate(v, trans, "day_prefix", "{0} must be a prefix of a YYYY-MM-DD date")

		vSvc = &ValidatorSvc{Validator: v, Translator: trans}
	})
	return vSvc
}

// fieldName prefers the json tag, then the query tag, so messages name wire fields
func fieldName(fld reflect.StructField) string {
	for _, key := range []string{"json", "query"} {
		tag, _, _ := strings.Cut(fld.Tag.Get(key), ",")
		if tag != "" && tag != "-" {
			return tag
		}
	}
	return fld.Name
}

func translate(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}

// Validate runs struct validation and maps failures to a Validation error
// carrying the first offending field
func Validate(v any) error {
	err := Get().Validator.Struct(v)
	if err == nil {
		return nil
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		logger.Get().Error().Err(inv).Msg("validator internal error")
		return perr.Internalf("validation error")
	}
	field, msg := FieldAndMessage(err)
	return perr.WithField(perr.Validationf("%s", msg), field)
}

// FieldAndMessage returns the first failing field and its translated message
func FieldAndMessage(err error) (field, message string) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field(), verrs[0].Translate(Get().Translator)
	}
	if err == nil {
		return "", ""
	}
	return "", err.Error()
}

// MaxJSONBytes bounds request bodies read by ParseJSON
const MaxJSONBytes = 1 << 20

// ParseJSON decodes one JSON object into T, rejects unknown fields and trailing
// data, then validates it
func ParseJSON[T any](r *http.Request) (T, error) {
	var zero, dst T
	defer func() { _ = r.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxJSONBytes+1))
	if err != nil {
		return zero, perr.Wrapf(err, perr.ErrorCodeJSON, "read body")
	}
	if len(body) > MaxJSONBytes {
		return zero, perr.JSONErrf("body exceeds %d bytes", MaxJSONBytes)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return zero, perr.JSONErrf("empty body")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&dst); err != nil {
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if dec.More() {
		return zero, perr.JSONErrf("unexpected trailing data")
	}
	if err := Validate(dst); err != nil {
		return zero, err
	}
	return dst, nil
}
