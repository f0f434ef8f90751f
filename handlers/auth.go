package handlers

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"openhouse/auth"
	"openhouse/database"
	"openhouse/models"
)

var emailRx = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type PreRegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// validateCredentials returns the first failing message, in fixed order.
func validateCredentials(email, password string) string {
	if !emailRx.MatchString(email) {
		return "A valid email is required."
	}
	if password == "" {
		return "Password is required."
	}
	if len(password) < auth.MinPasswordLength {
		return fmt.Sprintf("Password should be at least %d characters long.", auth.MinPasswordLength)
	}
	return ""
}

// PreRegister is the first half of two-phase registration: nothing is stored;
// the hashed credentials ride inside a short-lived activation token mailed to
// the address, proving mailbox ownership before a document exists.
func PreRegister(c *gin.Context) {
	var req PreRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if msg := validateCredentials(req.Email, req.Password); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := database.Users.CountDocuments(ctx, bson.M{"email": req.Email})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Email is taken."})
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.Error().Err(err).Msg("hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	token, err := tokens.SignActivation(req.Email, hashed)
	if err != nil {
		logger.Error().Err(err).Msg("sign activation token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	content := fmt.Sprintf(`
        <p>Please click the link below to activate your account.</p>
        <p>This link will expire in an hour!</p>
        <a href="%s/auth/account-activate/%s">Activate my account</a>
    `, cfg.ClientURL, token)

	if err := mail.Send(req.Email, "Activate your account", content); err != nil {
		logger.Error().Err(err).Str("email", req.Email).Msg("send activation email")
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type RegisterRequest struct {
	Token string `json:"token" binding:"required"`
}

// Register consumes an activation token and creates the account. The email
// is re-checked for uniqueness to close the race against a concurrent
// registration inside the token's lifetime.
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, err := tokens.ParseActivation(req.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token. Please register again."})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := database.Users.CountDocuments(ctx, bson.M{"email": claims.Email})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Email is taken."})
		return
	}

	now := time.Now().Unix()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Username:  randomID(6),
		Email:     claims.Email,
		Password:  claims.Password,
		Role:      []string{models.RoleBuyer},
		Enquired:  []primitive.ObjectID{},
		Wishlist:  []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := insertUserWithFreshUsername(ctx, &user); err != nil {
		if isDuplicateOn(err, "email") {
			c.JSON(http.StatusConflict, gin.H{"error": "Email is taken."})
			return
		}
		logger.Error().Err(err).Msg("insert user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	respondWithTokenPair(c, &user)
}

const usernameInsertAttempts = 3

// insertUserWithFreshUsername retries the insert with a regenerated username
// when the random one collides. The users collection carries unique indexes
// on both email and username, and a duplicate email must surface, not be
// retried away.
func insertUserWithFreshUsername(ctx context.Context, user *models.User) error {
	var err error
	for i := 0; i < usernameInsertAttempts; i++ {
		if _, err = database.Users.InsertOne(ctx, *user); err == nil {
			return nil
		}
		if !isDuplicateOn(err, "username") {
			return err
		}
		user.Username = randomID(6)
	}
	return err
}

// isDuplicateOn reports whether err is a duplicate-key error on an index over
// the named field.
func isDuplicateOn(err error, field string) bool {
	return mongo.IsDuplicateKeyError(err) && strings.Contains(err.Error(), field)
}

// respondWithTokenPair issues a fresh access+refresh pair for a user.
func respondWithTokenPair(c *gin.Context, user *models.User) {
	token, err := tokens.SignSession(user.ID.Hex(), auth.AccessTokenTTL)
	if err != nil {
		logger.Error().Err(err).Msg("sign access token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	refreshToken, err := tokens.SignSession(user.ID.Hex(), auth.RefreshTokenTTL)
	if err != nil {
		logger.Error().Err(err).Msg("sign refresh token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":         user,
		"token":        token,
		"refreshToken": refreshToken,
	})
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Could not find user with that email."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	if !auth.CheckPassword(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Either incorrect email or password."})
		return
	}

	respondWithTokenPair(c, &user)
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ForgotPassword persists a one-time code on the account and emails a signed
// token wrapping it. The raw code never leaves the database.
func ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resetCode := randomID(12)

	result := database.Users.FindOneAndUpdate(ctx,
		bson.M{"email": req.Email},
		bson.M{"$set": bson.M{"resetCode": resetCode}},
	)
	if result.Err() == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Could not find user with that email."})
		return
	}
	if result.Err() != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	token, err := tokens.SignReset(resetCode)
	if err != nil {
		logger.Error().Err(err).Msg("sign reset token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	content := fmt.Sprintf(`
        <p>Please click the link below to access your account.</p>
        <p>This link will expire in an hour!</p>
        <a href="%s/auth/access-account/%s">Access my account</a>
    `, cfg.ClientURL, token)

	if err := mail.Send(req.Email, "Access your account", content); err != nil {
		logger.Error().Err(err).Str("email", req.Email).Msg("send reset email")
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type AccessAccountRequest struct {
	ResetCode string `json:"resetCode" binding:"required"`
}

// AccessAccount trades a reset token for a fresh session. Matching the stored
// code and clearing it happen in one FindOneAndUpdate, so the link is single
// use.
func AccessAccount(c *gin.Context) {
	var req AccessAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, err := tokens.ParseReset(req.ResetCode)
	if err != nil || claims.ResetCode == "" {
		// An empty code would match any account that has never requested a
		// reset, or has already consumed one.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token. Please try again."})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err = database.Users.FindOneAndUpdate(ctx,
		bson.M{"resetCode": claims.ResetCode},
		bson.M{"$set": bson.M{"resetCode": ""}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Could not find user with that reset code."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	respondWithTokenPair(c, &user)
}

// RefreshToken exchanges a valid refresh token, passed in the refresh_token
// header, for a new pair. There is no revocation list; expiry is the only
// invalidation.
func RefreshToken(c *gin.Context) {
	claims, err := tokens.ParseSession(c.GetHeader("refresh_token"))
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Refresh token is invalid or has expired."})
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Refresh token is invalid or has expired."})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Refresh token is invalid or has expired."})
		return
	}

	respondWithTokenPair(c, &user)
}

func CurrentUser(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err = database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
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

func PublicProfile(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"username": c.Param("username")}).Decode(&user)
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

type UpdatePasswordRequest struct {
	Password string `json:"password"`
}

func UpdatePassword(c *gin.Context) {
	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password is required."})
		return
	}
	if len(req.Password) < auth.MinPasswordLength {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Password should be at least %d characters long.", auth.MinPasswordLength),
		})
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.Error().Err(err).Msg("hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = database.Users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"password": hashed, "updatedAt": time.Now().Unix()}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type UpdateProfileRequest struct {
	Username string        `json:"username"`
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Address  string        `json:"address"`
	Company  string        `json:"company"`
	Phone    string        `json:"phone"`
	About    string        `json:"about"`
	Photo    *models.Photo `json:"photo"`
}

// UpdateProfile mutates only the caller's own record; the identity always
// comes from the verified token, never from the payload.
func UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	set := bson.M{}
	if req.Username != "" {
		set["username"] = req.Username
	}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Email != "" {
		if !emailRx.MatchString(req.Email) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A valid email is required."})
			return
		}
		set["email"] = req.Email
	}
	if req.Address != "" {
		set["address"] = req.Address
	}
	if req.Company != "" {
		set["company"] = req.Company
	}
	if req.Phone != "" {
		set["phone"] = req.Phone
	}
	if req.About != "" {
		set["about"] = req.About
	}
	if req.Photo != nil {
		set["photo"] = req.Photo
	}

	if len(set) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "No changes to update"})
		return
	}
	set["updatedAt"] = time.Now().Unix()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err = database.Users.FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if mongo.IsDuplicateKeyError(err) {
		c.JSON(http.StatusConflict, gin.H{"error": "Username or email is already taken."})
		return
	}
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

// Agents lists accounts holding the Seller role.
func Agents(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.Users.Find(ctx,
		bson.M{"role": models.RoleSeller},
		options.Find().SetProjection(bson.M{
			"password":           0,
			"resetCode":          0,
			"wishlist":           0,
			"enquiredProperties": 0,
		}),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}
	defer cursor.Close(ctx)

	var agents []models.User
	if err := cursor.All(ctx, &agents); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	c.JSON(http.StatusOK, agents)
}

// Agent returns one seller together with their listings.
func Agent(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.Users.FindOne(ctx,
		bson.M{"username": c.Param("username"), "role": models.RoleSeller},
	).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	cursor, err := database.Ads.Find(ctx,
		bson.M{"postedBy": user.ID},
		options.Find().
			SetProjection(bson.M{"googleMap": 0, "location": 0}).
			SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}
	defer cursor.Close(ctx)

	var ads []models.Ad
	if err := cursor.All(ctx, &ads); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "ads": ads})
}

// AgentAdCount reports how many listings a seller has posted.
func AgentAdCount(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"username": c.Param("username")}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	count, err := database.Ads.CountDocuments(ctx, bson.M{"postedBy": user.ID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSomethingWrong})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}
