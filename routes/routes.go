package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"openhouse/auth"
	"openhouse/handlers"
	"openhouse/middleware"
)

// SetupRouter wires every endpoint. Credential endpoints sit behind a per-IP
// rate limiter; everything touching caller identity goes through the bearer
// middleware.
func SetupRouter(tokens *auth.TokenService, clientURL string) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{clientURL, "http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With", "refresh_token"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")

	limiter := middleware.NewIPRateLimiter(60, time.Minute)
	credentials := api.Group("/")
	credentials.Use(middleware.RateLimit(limiter))
	credentials.POST("/pre-register", handlers.PreRegister)
	credentials.POST("/login", handlers.Login)
	credentials.POST("/forgot-password", handlers.ForgotPassword)

	// Public
	api.POST("/register", handlers.Register)
	api.POST("/access-account", handlers.AccessAccount)
	api.GET("/refresh-token", handlers.RefreshToken)
	api.GET("/profile/:username", handlers.PublicProfile)
	api.GET("/agents", handlers.Agents)
	api.GET("/agent/:username", handlers.Agent)
	api.GET("/agent-ad-count/:username", handlers.AgentAdCount)
	api.GET("/ads", handlers.Ads)
	api.GET("/ad/:slug", handlers.ReadAd)

	// Protected
	protected := api.Group("/")
	protected.Use(middleware.RequireSignin(tokens))
	protected.GET("/current-user", handlers.CurrentUser)
	protected.PUT("/update-password", handlers.UpdatePassword)
	protected.PUT("/update-profile", handlers.UpdateProfile)

	protected.POST("/upload-image", handlers.UploadImage)
	protected.POST("/remove-image", handlers.RemoveImage)

	protected.POST("/ad", handlers.CreateAd)
	protected.PUT("/ad/:id", handlers.UpdateAd)
	protected.DELETE("/ad/:id", handlers.DeleteAd)
	protected.GET("/user-ads/:page", handlers.UserAds)

	protected.POST("/wishlist", handlers.AddToWishlist)
	protected.DELETE("/wishlist/:adId", handlers.RemoveFromWishlist)
	protected.GET("/wishlist", handlers.Wishlist)

	protected.POST("/contact-seller", handlers.ContactSeller)
	protected.GET("/enquired-properties", handlers.EnquiredProperties)

	return router
}
