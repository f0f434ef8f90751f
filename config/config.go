package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every knob the server reads from the environment. The JWT
// secret is handed to the token service at startup; nothing else reads it.
type Config struct {
	Port    string `env:"PORT" envDefault:"8000"`
	GinMode string `env:"GIN_MODE" envDefault:"debug"`

	MongoURI string `env:"MONGODB_URI" envDefault:"mongodb://127.0.0.1:27017"`
	Database string `env:"MONGO_DB" envDefault:"openhouse"`

	JWTSecret string `env:"JWT_SECRET,required"`
	ClientURL string `env:"CLIENT_URL" envDefault:"http://localhost:3000"`

	CloudinaryURL string `env:"CLOUDINARY_URL"`
	MediaBucket   string `env:"MEDIA_BUCKET" envDefault:"openhouse/ads"`

	GeocodeRegion string `env:"GEOCODE_REGION" envDefault:"us"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	EmailFrom    string `env:"EMAIL_FROM"`
	ReplyTo      string `env:"REPLY_TO"`
}

// Load reads .env if present, then parses the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	return &cfg, nil
}
