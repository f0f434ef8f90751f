package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Photo is the blob-storage descriptor returned by the upload endpoint and
// embedded in ads and profiles. Field casing matches the stored documents.
type Photo struct {
	Bucket   string `bson:"Bucket" json:"Bucket"`
	Key      string `bson:"Key" json:"Key"`
	Location string `bson:"Location" json:"Location"`
}

// GeoPoint follows the GeoJSON convention: coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

type AdministrativeLevels struct {
	Level1Long string `bson:"level1long,omitempty" json:"level1long,omitempty"`
	Level2Long string `bson:"level2long,omitempty" json:"level2long,omitempty"`
}

// GeoResult is the full geocoder payload persisted alongside the point.
type GeoResult struct {
	Latitude             float64              `bson:"latitude" json:"latitude"`
	Longitude            float64              `bson:"longitude" json:"longitude"`
	FormattedAddress     string               `bson:"formattedAddress,omitempty" json:"formattedAddress,omitempty"`
	City                 string               `bson:"city,omitempty" json:"city,omitempty"`
	ZipCode              string               `bson:"zipcode,omitempty" json:"zipcode,omitempty"`
	StreetName           string               `bson:"streetName,omitempty" json:"streetName,omitempty"`
	StreetNumber         string               `bson:"streetNumber,omitempty" json:"streetNumber,omitempty"`
	Country              string               `bson:"country,omitempty" json:"country,omitempty"`
	CountryCode          string               `bson:"countryCode,omitempty" json:"countryCode,omitempty"`
	AdministrativeLevels AdministrativeLevels `bson:"administrativeLevels" json:"administrativeLevels"`
	Provider             string               `bson:"provider" json:"provider"`
}

// Ad is a property listing. The slug is unique and never changes after
// creation; location/googleMap are projected out of list responses.
type Ad struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Photos      []Photo            `bson:"photos" json:"photos"`
	Price       float64            `bson:"price" json:"price"`
	Address     string             `bson:"address" json:"address"`
	Bedrooms    int                `bson:"bedrooms,omitempty" json:"bedrooms,omitempty"`
	Bathrooms   int                `bson:"bathrooms,omitempty" json:"bathrooms,omitempty"`
	Carpark     int                `bson:"carpark,omitempty" json:"carpark,omitempty"`
	Landsize    string             `bson:"landsize,omitempty" json:"landsize,omitempty"`
	Location    *GeoPoint          `bson:"location,omitempty" json:"location,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description" json:"description"`
	PostedBy    primitive.ObjectID `bson:"postedBy" json:"postedBy"`
	Sold        bool               `bson:"sold" json:"sold"`
	GoogleMap   *GeoResult         `bson:"googleMap,omitempty" json:"googleMap,omitempty"`
	Type        string             `bson:"type" json:"type"`
	Action      string             `bson:"action" json:"action"`
	Views       int64              `bson:"views" json:"views"`
	CreatedAt   int64              `bson:"createdAt" json:"createdAt"`
	UpdatedAt   int64              `bson:"updatedAt" json:"updatedAt"`
}

const ActionSell = "Sell"
const ActionRent = "Rent"
