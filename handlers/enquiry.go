package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"openhouse/database"
	"openhouse/models"
)

type ContactSellerRequest struct {
	AdID    string `json:"adId"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// ContactSeller records the enquiry against the caller and emails the
// listing owner, with Reply-To pointed at the enquirer.
func ContactSeller(c *gin.Context) {
	var req ContactSellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Email == "" || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and message are required!"})
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

	var owner models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": ad.PostedBy}).Decode(&owner); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Could not find the seller for that ad."})
		return
	}

	if _, err := database.Users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"enquiredProperties": adID}},
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	content := fmt.Sprintf(`
        <p>You have received a new customer enquiry.</p>
        <h4>Customer Details</h4>
        <p>Name: %s</p>
        <p>Email: %s</p>
        <p>Phone: %s</p>
        <hr />
        <p>%s</p>

        <a href="%s/ad/%s">%s in %s for %s - $%v</a>
    `, req.Name, req.Email, req.Phone, req.Message,
		cfg.ClientURL, ad.Slug, ad.Type, ad.Address, ad.Action, ad.Price)

	subject := fmt.Sprintf("New Enquiry received: %s in %s for %s", ad.Type, ad.Address, ad.Action)

	if err := mail.SendWithReplyTo(owner.Email, subject, content, req.Email); err != nil {
		logger.Error().Err(err).Str("ad", ad.ID.Hex()).Msg("send enquiry email")
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// EnquiredProperties lists the ads the caller has contacted sellers about.
func EnquiredProperties(c *gin.Context) {
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

	ads, err := findAdsByIDs(ctx, user.Enquired)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	c.JSON(http.StatusOK, ads)
}
