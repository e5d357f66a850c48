package models

import (
	"strings"
	"time"
)

type Flat struct {
	ID            string    `json:"id"`
	City          string    `json:"city"`
	StreetName    string    `json:"streetName"`
	StreetNumber  string    `json:"streetNumber"`
	AreaSize      float64   `json:"areaSize"`
	HasAC         bool      `json:"hasAc"`
	YearBuilt     int       `json:"yearBuilt"`
	Rent          float64   `json:"rent"`
	DateAvailable time.Time `json:"dateAvailable"`
	OwnerID       string    `json:"ownerId"`
	CreatedBy     string    `json:"createdBy"`
	UpdatedBy     string    `json:"updatedBy"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// FlatInput is a validated creation payload.
type FlatInput struct {
	City          string
	StreetName    string
	StreetNumber  string
	AreaSize      float64
	HasAC         bool
	YearBuilt     int
	Rent          float64
	DateAvailable time.Time
	OwnerID       string
}

// FlatPatch carries the recognized mutable flat fields; nil means unchanged.
type FlatPatch struct {
	City          *string
	StreetName    *string
	StreetNumber  *string
	AreaSize      *float64
	HasAC         *bool
	YearBuilt     *int
	Rent          *float64
	DateAvailable *time.Time
	UpdatedBy     *string
}

// FlatFilter selects flats; every nil field imposes no constraint and the
// set ones are combined with AND. Ranges are inclusive.
type FlatFilter struct {
	City          *string
	MinRent       *float64
	MaxRent       *float64
	MinAreaSize   *float64
	MaxAreaSize   *float64
	HasAC         *bool
	AvailableFrom *time.Time
	OwnerID       *string
}

// Match applies the filter to a single flat. City matches as a
// case-insensitive substring.
func (f FlatFilter) Match(flat *Flat) bool {
	if f.City != nil && !containsFold(flat.City, *f.City) {
		return false
	}
	if f.MinRent != nil && flat.Rent < *f.MinRent {
		return false
	}
	if f.MaxRent != nil && flat.Rent > *f.MaxRent {
		return false
	}
	if f.MinAreaSize != nil && flat.AreaSize < *f.MinAreaSize {
		return false
	}
	if f.MaxAreaSize != nil && flat.AreaSize > *f.MaxAreaSize {
		return false
	}
	if f.HasAC != nil && flat.HasAC != *f.HasAC {
		return false
	}
	if f.AvailableFrom != nil && flat.DateAvailable.Before(*f.AvailableFrom) {
		return false
	}
	if f.OwnerID != nil && flat.OwnerID != *f.OwnerID {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
