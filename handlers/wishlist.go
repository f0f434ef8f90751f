package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"openhouse/database"
	"openhouse/models"
)

type WishlistRequest struct {
	AdID string `json:"adId" binding:"required"`
}

// AddToWishlist adds a listing to the caller's wishlist. $addToSet keeps the
// add idempotent.
func AddToWishlist(c *gin.Context) {
	var req WishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	adID, err := primitive.ObjectIDFromHex(req.AdID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ad ID"})
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err = database.Users.FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"wishlist": adID}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	c.JSON(http.StatusOK, user)
}

// RemoveFromWishlist pulls a listing out of the caller's wishlist; removing
// a non-member is a no-op.
func RemoveFromWishlist(c *gin.Context) {
	adID, err := primitive.ObjectIDFromHex(c.Param("adId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ad ID"})
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err = database.Users.FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"wishlist": adID}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Wishlist resolves the caller's wishlist references into ads, newest first.
// Dangling references simply drop out of the result.
func Wishlist(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	ads, err := findAdsByIDs(ctx, user.Wishlist)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	c.JSON(http.StatusOK, ads)
}

func findAdsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Ad, error) {
	if len(ids) == 0 {
		return []models.Ad{}, nil
	}

	cursor, err := database.Ads.Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().
			SetProjection(bson.M{"googleMap": 0, "location": 0}).
			SetSort(bson.D{{Key: "createdAt", Value: -1}}),
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
