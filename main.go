package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"openhouse/auth"
	"openhouse/config"
	"openhouse/database"
	"openhouse/geo"
	"openhouse/handlers"
	"openhouse/mailer"
	"openhouse/routes"
	"openhouse/storage"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load configuration")
	}

	var dbErr error
	for i := 1; i <= 3; i++ {
		if dbErr = database.Connect(cfg.MongoURI, cfg.Database); dbErr != nil {
			logger.Warn().Err(dbErr).Int("attempt", i).Msg("mongodb connection failed")
			time.Sleep(2 * time.Second)
			continue
		}
		break
	}
	if dbErr != nil {
		logger.Fatal().Err(dbErr).Msg("could not connect to mongodb")
	}
	defer func() {
		if err := database.Disconnect(); err != nil {
			logger.Error().Err(err).Msg("mongodb disconnect")
		}
	}()
	logger.Info().Msg("mongodb connected")

	store, err := storage.New(cfg.CloudinaryURL, cfg.MediaBucket)
	if err != nil {
		logger.Fatal().Err(err).Msg("configure blob storage")
	}

	tokens := auth.NewTokenService(cfg.JWTSecret)

	handlers.Init(handlers.Deps{
		Config:   cfg,
		Tokens:   tokens,
		Mailer:   mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFrom, cfg.ReplyTo),
		Storage:  store,
		Geocoder: geo.New(cfg.GeocodeRegion),
		Logger:   logger.With().Str("component", "handlers").Logger(),
	})

	gin.SetMode(cfg.GinMode)

	router := routes.SetupRouter(tokens, cfg.ClientURL)

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}

	logger.Info().Msg("server stopped")
}
