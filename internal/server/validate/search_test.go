package validate

import (
	"net/url"
	"testing"
	"time"

	"github.com/dmitrijs2005/flatfinder/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatSearch(t *testing.T) {
	q := url.Values{
		ParamCity:          {"ber"},
		ParamMinRent:       {"500"},
		ParamMaxRent:       {"1000.5"},
		ParamHasAC:         {"true"},
		ParamAvailableFrom: {"2025-03-01"},
		ParamMinAreaSize:   {""},
	}

	f, err := FlatSearch(q)
	require.NoError(t, err)

	require.NotNil(t, f.City)
	assert.Equal(t, "ber", *f.City)
	require.NotNil(t, f.MinRent)
	assert.Equal(t, 500.0, *f.MinRent)
	require.NotNil(t, f.MaxRent)
	assert.Equal(t, 1000.5, *f.MaxRent)
	assert.Nil(t, f.MinAreaSize)
	require.NotNil(t, f.HasAC)
	assert.True(t, *f.HasAC)
	require.NotNil(t, f.AvailableFrom)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), *f.AvailableFrom)
}

func TestFlatSearch_Invalid(t *testing.T) {
	for _, q := range []url.Values{
		{ParamMinRent: {"cheap"}},
		{ParamMinRent: {"NaN"}},
		{ParamMaxAreaSize: {"Inf"}},
		{ParamMaxRent: {"-Inf"}},
		{ParamHasAC: {"sometimes"}},
		{ParamAvailableFrom: {"soon"}},
	} {
		_, err := FlatSearch(q)
		assert.ErrorIs(t, err, common.ErrorValidation, "%v", q)
	}
}
