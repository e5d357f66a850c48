package validate

import (
	"github.com/dmitrijs2005/flatfinder/internal/server/models"
)

// Field names as they appear in request bodies.
const (
	FieldCity          = "city"
	FieldStreetName    = "streetName"
	FieldStreetNumber  = "streetNumber"
	FieldAreaSize      = "areaSize"
	FieldHasAC         = "hasAc"
	FieldYearBuilt     = "yearBuilt"
	FieldRent          = "rent"
	FieldDateAvailable = "dateAvailable"
	FieldOwnerID       = "ownerId"
)

var requiredFlatFields = []string{
	FieldCity, FieldStreetName, FieldStreetNumber, FieldAreaSize,
	FieldYearBuilt, FieldRent, FieldDateAvailable, FieldOwnerID,
}

// NewFlat validates a flat creation payload.
func NewFlat(raw Raw) (models.FlatInput, error) {
	var in models.FlatInput

	if err := missingFields(raw, requiredFlatFields...); err != nil {
		return in, err
	}

	var err error
	if in.City, err = raw.requiredText(FieldCity); err != nil {
		return in, err
	}
	if in.StreetName, err = raw.requiredText(FieldStreetName); err != nil {
		return in, err
	}
	if in.StreetNumber, err = raw.requiredText(FieldStreetNumber); err != nil {
		return in, err
	}
	if in.OwnerID, err = raw.requiredText(FieldOwnerID); err != nil {
		return in, err
	}
	if in.DateAvailable, err = raw.date(FieldDateAvailable); err != nil {
		return in, err
	}
	if in.AreaSize, err = raw.positive(FieldAreaSize); err != nil {
		return in, err
	}
	if in.Rent, err = raw.positive(FieldRent); err != nil {
		return in, err
	}
	if in.YearBuilt, err = raw.year(FieldYearBuilt); err != nil {
		return in, err
	}
	if raw.present(FieldHasAC) {
		if in.HasAC, err = raw.boolean(FieldHasAC); err != nil {
			return in, err
		}
	}

	return in, nil
}

// FlatUpdate projects raw onto the mutable flat fields. Unknown and
// null-valued fields are dropped; recognized ones follow the creation rules.
func FlatUpdate(raw Raw) (models.FlatPatch, error) {
	var p models.FlatPatch

	texts := []struct {
		name string
		dst  **string
	}{
		{FieldCity, &p.City},
		{FieldStreetName, &p.StreetName},
		{FieldStreetNumber, &p.StreetNumber},
	}
	for _, f := range texts {
		if !raw.present(f.name) {
			continue
		}
		s, err := raw.requiredText(f.name)
		if err != nil {
			return p, err
		}
		*f.dst = &s
	}

	positives := []struct {
		name string
		dst  **float64
	}{
		{FieldAreaSize, &p.AreaSize},
		{FieldRent, &p.Rent},
	}
	for _, f := range positives {
		if !raw.present(f.name) {
			continue
		}
		v, err := raw.positive(f.name)
		if err != nil {
			return p, err
		}
		*f.dst = &v
	}

	if raw.present(FieldYearBuilt) {
		y, err := raw.year(FieldYearBuilt)
		if err != nil {
			return p, err
		}
		p.YearBuilt = &y
	}
	if raw.present(FieldDateAvailable) {
		d, err := raw.date(FieldDateAvailable)
		if err != nil {
			return p, err
		}
		p.DateAvailable = &d
	}
	if raw.present(FieldHasAC) {
		b, err := raw.boolean(FieldHasAC)
		if err != nil {
			return p, err
		}
		p.HasAC = &b
	}

	return p, nil
}
