package handlers

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/rs/zerolog"

	"openhouse/auth"
	"openhouse/config"
	"openhouse/geo"
	"openhouse/mailer"
	"openhouse/storage"
)

// Shared collaborators for every handler, set once at startup.
var (
	cfg      *config.Config
	tokens   *auth.TokenService
	mail     *mailer.Mailer
	store    *storage.Storage
	geocoder *geo.Geocoder
	logger   zerolog.Logger
)

type Deps struct {
	Config   *config.Config
	Tokens   *auth.TokenService
	Mailer   *mailer.Mailer
	Storage  *storage.Storage
	Geocoder *geo.Geocoder
	Logger   zerolog.Logger
}

// Init wires the handler package to its collaborators.
func Init(d Deps) {
	cfg = d.Config
	tokens = d.Tokens
	mail = d.Mailer
	store = d.Storage
	geocoder = d.Geocoder
	logger = d.Logger
}

// errSomethingWrong is the generic failure message; internal detail stays in
// the logs.
const errSomethingWrong = "Something went wrong. Please try again."

// randomID returns n hex characters from a CSPRNG, used for generated
// usernames, slug suffixes and reset codes.
func randomID(n int) string {
	b := make([]byte, (n+1)/2)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return hex.EncodeToString(b)[:n]
}
