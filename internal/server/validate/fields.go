// Package validate turns raw field mappings (decoded JSON bodies, query
// strings) into normalized entity payloads, failing with
// *common.ValidationError that names the offending fields.
package validate

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/flatfinder/internal/common"
	"github.com/dmitrijs2005/flatfinder/internal/timex"
)

// Raw is a decoded request body. Numbers are expected as json.Number
// (json.Decoder.UseNumber) but float64 and numeric strings are accepted too.
type Raw map[string]any

// now is the clock used for the year upper bound.
var now = time.Now

// present reports whether name carries a non-null value.
func (r Raw) present(name string) bool {
	v, ok := r[name]
	return ok && v != nil
}

// missing reports whether a required field is absent, null or blank.
func (r Raw) missing(name string) bool {
	if !r.present(name) {
		return true
	}
	if s, ok := r[name].(string); ok && strings.TrimSpace(s) == "" {
		return true
	}
	return false
}

func missingFields(r Raw, names ...string) error {
	var absent []string
	for _, n := range names {
		if r.missing(n) {
			absent = append(absent, n)
		}
	}
	if len(absent) > 0 {
		return common.MissingFieldsError(absent)
	}
	return nil
}

// text returns the trimmed string value of name. Numbers are accepted and
// rendered in their JSON form, so a street number may be sent as 12.
func (r Raw) text(name string) (string, error) {
	switch v := r[name].(type) {
	case string:
		return strings.TrimSpace(v), nil
	case json.Number:
		return v.String(), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", common.NewValidationError(name+" must be a string", name)
	}
}

// requiredText is text that must not be blank.
func (r Raw) requiredText(name string) (string, error) {
	s, err := r.text(name)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", common.NewValidationError(name+" must not be empty", name)
	}
	return s, nil
}

func (r Raw) number(name string) (float64, bool) {
	var f float64
	var err error
	switch v := r[name].(type) {
	case json.Number:
		f, err = v.Float64()
	case float64:
		f = v
	case int:
		f = float64(v)
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func (r Raw) positive(name string) (float64, error) {
	f, ok := r.number(name)
	if !ok || f <= 0 {
		return 0, common.NewValidationError(name+" must be a positive number", name)
	}
	return f, nil
}

func (r Raw) year(name string) (int, error) {
	f, ok := r.number(name)
	if !ok || f != math.Trunc(f) || f < 1800 || f > float64(now().Year()) {
		return 0, common.NewValidationError(name+" must be a valid year", name)
	}
	return int(f), nil
}

func (r Raw) date(name string) (time.Time, error) {
	s, ok := r[name].(string)
	if !ok {
		return time.Time{}, common.NewValidationError(name+" has invalid date format", name)
	}
	t, err := timex.ParseDate(s)
	if err != nil {
		return time.Time{}, common.NewValidationError(name+" has invalid date format", name)
	}
	return t, nil
}

func (r Raw) boolean(name string) (bool, error) {
	switch v := r[name].(type) {
	case bool:
		return v, nil
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b, nil
		}
	}
	return false, common.NewValidationError(fmt.Sprintf("%s must be a boolean", name), name)
}
