package geo

import (
	"errors"
	"fmt"

	"github.com/nf/geocode"

	"openhouse/models"
)

// ErrNotFound is returned when the provider has no result for an address,
// so callers never index into an empty result set.
var ErrNotFound = errors.New("no geocoding result for address")

// Geocoder resolves free-text addresses through the Google geocoding API.
type Geocoder struct {
	region string
}

func New(region string) *Geocoder {
	return &Geocoder{region: region}
}

// Resolve returns the best match for an address.
func (g *Geocoder) Resolve(address string) (*models.GeoResult, error) {
	req := &geocode.Request{
		Provider: geocode.GOOGLE,
		Region:   g.region,
		Address:  address,
	}

	resp, err := req.Lookup(nil)
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", address, err)
	}

	if resp.Status != "OK" || resp.GoogleResponse == nil || len(resp.GoogleResponse.Results) == 0 {
		return nil, ErrNotFound
	}

	return FromGoogleResult(resp.GoogleResponse.Results[0]), nil
}

// FromGoogleResult flattens a Google geocoding result into the document
// shape ads persist.
func FromGoogleResult(r *geocode.GoogleResult) *models.GeoResult {
	out := &models.GeoResult{
		Latitude:         r.Geometry.Location.Lat,
		Longitude:        r.Geometry.Location.Lng,
		FormattedAddress: r.Address,
		Provider:         "google",
	}

	for _, part := range r.AddressParts {
		for _, t := range part.Types {
			switch t {
			case "locality":
				out.City = part.Name
			case "administrative_area_level_1":
				out.AdministrativeLevels.Level1Long = part.Name
			case "administrative_area_level_2":
				out.AdministrativeLevels.Level2Long = part.Name
			case "country":
				out.Country = part.Name
				out.CountryCode = part.ShortName
			case "postal_code":
				out.ZipCode = part.Name
			case "route":
				out.StreetName = part.Name
			case "street_number":
				out.StreetNumber = part.Name
			}
		}
	}

	return out
}
