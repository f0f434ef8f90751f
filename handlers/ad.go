package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"openhouse/database"
	"openhouse/geo"
	"openhouse/models"
	"openhouse/storage"
)

const adsPageSize = 12
const userAdsPageSize = 3
const relatedAdsLimit = 3

type AdRequest struct {
	Photos      []models.Photo `json:"photos"`
	Price       float64        `json:"price"`
	Type        string         `json:"type"`
	Address     string         `json:"address"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Landsize    string         `json:"landsize"`
	Action      string         `json:"action"`
	Bedrooms    int            `json:"bedrooms"`
	Bathrooms   int            `json:"bathrooms"`
	Carpark     int            `json:"carpark"`
}

// validateAdRequest checks required fields in fixed order and returns the
// first failing message.
func validateAdRequest(req *AdRequest) string {
	if len(req.Photos) == 0 {
		return "At least a photo is required."
	}
	if req.Price == 0 {
		return "Price is required."
	}
	if req.Type == "" {
		return "Is property house or land?"
	}
	if req.Address == "" {
		return "Address is required."
	}
	if req.Title == "" {
		return "Title is required."
	}
	if req.Description == "" {
		return "Description is required."
	}
	return ""
}

var digitsOnly = regexp.MustCompile(`^\d+$`)

// normalizeLandsize appends the display unit to bare numeric values.
func normalizeLandsize(landsize string) string {
	if digitsOnly.MatchString(landsize) && !strings.Contains(landsize, "sqft") {
		return landsize + " sqft"
	}
	return landsize
}

// makeAdSlug builds the unique, URL-safe slug an ad keeps for life. The
// random suffix keeps two identical type/address/price listings distinct.
func makeAdSlug(adType, address string, price float64) string {
	return slug.Make(fmt.Sprintf("%s-%s-%s-%s",
		adType, address, strconv.FormatFloat(price, 'f', -1, 64), randomID(6)))
}

// CreateAd validates the payload, geocodes the address and persists the
// listing, then promotes the owner to Seller. The promotion is a second
// write: if it fails the ad still exists, which is logged rather than rolled
// back.
func CreateAd(c *gin.Context) {
	var req AdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if msg := validateAdRequest(&req); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	geoResult, err := geocoder.Resolve(req.Address)
	if errors.Is(err, geo.ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not locate that address. Please check it and try again."})
		return
	}
	if err != nil {
		logger.Error().Err(err).Str("address", req.Address).Msg("geocode address")
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	action := req.Action
	if action == "" {
		action = models.ActionSell
	}

	now := time.Now().Unix()
	ad := models.Ad{
		ID:          primitive.NewObjectID(),
		Photos:      req.Photos,
		Price:       req.Price,
		Address:     req.Address,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		Carpark:     req.Carpark,
		Landsize:    normalizeLandsize(req.Landsize),
		Title:       req.Title,
		Slug:        makeAdSlug(req.Type, req.Address, req.Price),
		Description: req.Description,
		PostedBy:    userID,
		Type:        req.Type,
		Action:      action,
		Location: &models.GeoPoint{
			Type:        "Point",
			Coordinates: []float64{geoResult.Longitude, geoResult.Latitude},
		},
		GoogleMap: geoResult,
		CreatedAt: now,
		UpdatedAt: now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.Ads.InsertOne(ctx, ad); err != nil {
		logger.Error().Err(err).Msg("insert ad")
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	var user models.User
	err = database.Users.FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"role": models.RoleSeller}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		// The ad is already persisted; surface the partial state in the logs.
		logger.Error().Err(err).Str("ad", ad.ID.Hex()).Msg("promote owner to seller")
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ad": ad, "user": user})
}

// UpdateAd re-validates and re-geocodes like create, but the slug never
// changes and count fields fall back to their stored values when omitted.
func UpdateAd(c *gin.Context) {
	adID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ad ID"})
		return
	}

	var req AdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var ad models.Ad
	err = database.Ads.FindOne(ctx, bson.M{"_id": adID}).Decode(&ad)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ad not found."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	if ad.PostedBy.Hex() != c.GetString("userId") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied."})
		return
	}

	if msg := validateAdRequest(&req); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	geoResult, err := geocoder.Resolve(req.Address)
	if errors.Is(err, geo.ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not locate that address. Please check it and try again."})
		return
	}
	if err != nil {
		logger.Error().Err(err).Str("address", req.Address).Msg("geocode address")
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	set := bson.M{
		"photos":      req.Photos,
		"price":       req.Price,
		"type":        req.Type,
		"address":     req.Address,
		"title":       req.Title,
		"description": req.Description,
		"landsize":    normalizeLandsize(req.Landsize),
		"location": models.GeoPoint{
			Type:        "Point",
			Coordinates: []float64{geoResult.Longitude, geoResult.Latitude},
		},
		"googleMap": geoResult,
		"updatedAt": time.Now().Unix(),
	}
	if req.Action != "" {
		set["action"] = req.Action
	}

	// Count fields keep their stored values when the payload omits them.
	set["bedrooms"] = ad.Bedrooms
	if req.Bedrooms != 0 {
		set["bedrooms"] = req.Bedrooms
	}
	set["bathrooms"] = ad.Bathrooms
	if req.Bathrooms != 0 {
		set["bathrooms"] = req.Bathrooms
	}
	set["carpark"] = ad.Carpark
	if req.Carpark != 0 {
		set["carpark"] = req.Carpark
	}

	if _, err := database.Ads.UpdateOne(ctx, bson.M{"_id": adID}, bson.M{"$set": set}); err != nil {
		logger.Error().Err(err).Str("ad", adID.Hex()).Msg("update ad")
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DeleteAd is an owner-only hard delete.
func DeleteAd(c *gin.Context) {
	adID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ad ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var ad models.Ad
	err = database.Ads.FindOne(ctx, bson.M{"_id": adID}).Decode(&ad)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ad not found."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	if ad.PostedBy.Hex() != c.GetString("userId") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied."})
		return
	}

	if _, err := database.Ads.DeleteOne(ctx, bson.M{"_id": adID}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Ads serves the public landing feeds: the latest dozen listings for sale
// and for rent, with the geodata projected out.
func Ads(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	adsForSell, err := findAdsByAction(ctx, models.ActionSell)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	adsForRent, err := findAdsByAction(ctx, models.ActionRent)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	c.JSON(http.StatusOK, gin.H{"adsForSell": adsForSell, "adsForRent": adsForRent})
}

func findAdsByAction(ctx context.Context, action string) ([]models.Ad, error) {
	cursor, err := database.Ads.Find(ctx,
		bson.M{"action": action},
		options.Find().
			SetProjection(bson.M{"googleMap": 0, "location": 0}).
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetLimit(adsPageSize),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	ads := []models.Ad{}
	if err := cursor.All(ctx, &ads); err != nil {
		return nil, err
	}
	return ads, nil
}

// ReadAd fetches one listing by slug, bumps its view counter, joins the
// owner's public contact fields and picks up to three related listings by a
// textual locality match on the same action and type.
func ReadAd(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var ad models.Ad
	err := database.Ads.FindOneAndUpdate(ctx,
		bson.M{"slug": c.Param("slug")},
		bson.M{"$inc": bson.M{"views": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&ad)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ad not found."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	var owner models.OwnerSummary
	err = database.Users.FindOne(ctx,
		bson.M{"_id": ad.PostedBy},
		options.FindOne().SetProjection(bson.M{
			"name": 1, "username": 1, "email": 1, "phone": 1, "company": 1, "photo": 1,
		}),
	).Decode(&owner)
	if err != nil && err != mongo.ErrNoDocuments {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	related, err := findRelatedAds(ctx, &ad)
	if err != nil {
		logger.Error().Err(err).Str("slug", ad.Slug).Msg("find related ads")
		related = []models.Ad{}
	}

	c.JSON(http.StatusOK, gin.H{
		"ad": struct {
			models.Ad
			PostedBy models.OwnerSummary `json:"postedBy"`
		}{ad, owner},
		"related": related,
	})
}

// findRelatedAds is a locality heuristic, not a geospatial query: same
// action and type, address or second-level administrative division matching
// the source ad's city or county as a case-insensitive substring.
func findRelatedAds(ctx context.Context, ad *models.Ad) ([]models.Ad, error) {
	if ad.GoogleMap == nil {
		return []models.Ad{}, nil
	}

	var or []bson.M
	if city := ad.GoogleMap.City; city != "" {
		or = append(or, bson.M{"address": bson.M{
			"$regex": regexp.QuoteMeta(city), "$options": "i",
		}})
	}
	if level2 := ad.GoogleMap.AdministrativeLevels.Level2Long; level2 != "" {
		or = append(or, bson.M{"googleMap.administrativeLevels.level2long": bson.M{
			"$regex": regexp.QuoteMeta(level2), "$options": "i",
		}})
	}
	if len(or) == 0 {
		return []models.Ad{}, nil
	}

	cursor, err := database.Ads.Find(ctx,
		bson.M{
			"_id":    bson.M{"$ne": ad.ID},
			"action": ad.Action,
			"type":   ad.Type,
			"$or":    or,
		},
		options.Find().
			SetProjection(bson.M{"photos.Key": 0, "photos.Bucket": 0, "googleMap": 0}).
			SetLimit(relatedAdsLimit),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	related := []models.Ad{}
	if err := cursor.All(ctx, &related); err != nil {
		return nil, err
	}
	return related, nil
}

// UserAds pages through the caller's own listings, three per page, newest
// first, with the total count alongside.
func UserAds(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	page, err := strconv.Atoi(c.Param("page"))
	if err != nil || page < 1 {
		page = 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	total, err := database.Ads.CountDocuments(ctx, bson.M{"postedBy": userID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	cursor, err := database.Ads.Find(ctx,
		bson.M{"postedBy": userID},
		options.Find().
			SetProjection(bson.M{"googleMap": 0, "location": 0, "photos.Key": 0, "photos.Bucket": 0}).
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetSkip(int64(page-1)*userAdsPageSize).
			SetLimit(userAdsPageSize),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}
	defer cursor.Close(ctx)

	ads := []models.Ad{}
	if err := cursor.All(ctx, &ads); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ads": ads, "total": total})
}

type UploadImageRequest struct {
	Image string `json:"image" binding:"required"`
}

// UploadImage stores a base64 image under a key scoped to the caller and
// returns the descriptor the ad form embeds.
func UploadImage(c *gin.Context) {
	var req UploadImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	photo, err := store.Upload(ctx, c.GetString("userId"), req.Image)
	if errors.Is(err, storage.ErrInvalidImage) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image must be a base64 data URI."})
		return
	}
	if err != nil {
		logger.Error().Err(err).Msg("upload image")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Upload failed. Try again."})
		return
	}

	c.JSON(http.StatusOK, photo)
}

type RemoveImageRequest struct {
	Bucket string `json:"Bucket"`
	Key    string `json:"Key" binding:"required"`
}

func RemoveImage(c *gin.Context) {
	var req RemoveImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := store.Delete(ctx, req.Key); err != nil {
		logger.Error().Err(err).Str("key", req.Key).Msg("remove image")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Remove failed. Try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
