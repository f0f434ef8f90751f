package geo

import (
	"testing"

	"github.com/nf/geocode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromGoogleResult(t *testing.T) {
	result := &geocode.GoogleResult{
		Address: "123 Main St, Springfield, IL 62701, USA",
		AddressParts: []*geocode.GoogleAddressPart{
			{Name: "123", Types: []string{"street_number"}},
			{Name: "Main Street", Types: []string{"route"}},
			{Name: "Springfield", Types: []string{"locality", "political"}},
			{Name: "Sangamon County", Types: []string{"administrative_area_level_2", "political"}},
			{Name: "Illinois", ShortName: "IL", Types: []string{"administrative_area_level_1", "political"}},
			{Name: "United States", ShortName: "US", Types: []string{"country", "political"}},
			{Name: "62701", Types: []string{"postal_code"}},
		},
		Geometry: &geocode.Geometry{
			Location: geocode.Point{Lat: 39.7817, Lng: -89.6501},
		},
	}

	got := FromGoogleResult(result)
	require.NotNil(t, got)

	assert.Equal(t, 39.7817, got.Latitude)
	assert.Equal(t, -89.6501, got.Longitude)
	assert.Equal(t, "123 Main St, Springfield, IL 62701, USA", got.FormattedAddress)
	assert.Equal(t, "Springfield", got.City)
	assert.Equal(t, "Sangamon County", got.AdministrativeLevels.Level2Long)
	assert.Equal(t, "Illinois", got.AdministrativeLevels.Level1Long)
	assert.Equal(t, "United States", got.Country)
	assert.Equal(t, "US", got.CountryCode)
	assert.Equal(t, "62701", got.ZipCode)
	assert.Equal(t, "Main Street", got.StreetName)
	assert.Equal(t, "123", got.StreetNumber)
	assert.Equal(t, "google", got.Provider)
}
