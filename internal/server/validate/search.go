package validate

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/flatfinder/internal/common"
	"github.com/dmitrijs2005/flatfinder/internal/server/models"
	"github.com/dmitrijs2005/flatfinder/internal/timex"
)

// Query parameters understood by FlatSearch.
const (
	ParamCity          = "city"
	ParamMinRent       = "minRent"
	ParamMaxRent       = "maxRent"
	ParamMinAreaSize   = "minAreaSize"
	ParamMaxAreaSize   = "maxAreaSize"
	ParamHasAC         = "hasAc"
	ParamAvailableFrom = "availableFrom"
	ParamOwnerID       = "ownerId"
)

// FlatSearch builds a filter from query parameters. Blank parameters are
// ignored.
func FlatSearch(q url.Values) (models.FlatFilter, error) {
	var f models.FlatFilter

	get := func(name string) (string, bool) {
		v := strings.TrimSpace(q.Get(name))
		return v, v != ""
	}

	if v, ok := get(ParamCity); ok {
		f.City = &v
	}
	if v, ok := get(ParamOwnerID); ok {
		f.OwnerID = &v
	}

	numbers := []struct {
		name string
		dst  **float64
	}{
		{ParamMinRent, &f.MinRent},
		{ParamMaxRent, &f.MaxRent},
		{ParamMinAreaSize, &f.MinAreaSize},
		{ParamMaxAreaSize, &f.MaxAreaSize},
	}
	for _, n := range numbers {
		v, ok := get(n.name)
		if !ok {
			continue
		}
		num, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(num) || math.IsInf(num, 0) {
			return f, common.NewValidationError(n.name+" must be a number", n.name)
		}
		*n.dst = &num
	}

	if v, ok := get(ParamHasAC); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, common.NewValidationError(ParamHasAC+" must be a boolean", ParamHasAC)
		}
		f.HasAC = &b
	}
	if v, ok := get(ParamAvailableFrom); ok {
		d, err := timex.ParseDate(v)
		if err != nil {
			return f, common.NewValidationError(ParamAvailableFrom+" has invalid date format", ParamAvailableFrom)
		}
		f.AvailableFrom = &d
	}

	return f, nil
}
