package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// AccessTokenTTL covers access tokens, activation links and reset links.
	AccessTokenTTL = time.Hour
	// RefreshTokenTTL keeps a session renewable for 77 days.
	RefreshTokenTTL = 77 * 24 * time.Hour
)

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// Token purposes travel in the subject claim. Every parser checks the
// purpose, so a token minted for one flow can never be replayed into another
// even though all three share the signing secret.
const (
	purposeSession    = "session"
	purposeActivation = "activation"
	purposeReset      = "reset"
)

// SessionClaims identify a signed-in user on access and refresh tokens.
type SessionClaims struct {
	UserID string `json:"_id"`
	jwt.RegisteredClaims
}

// ActivationClaims carry a pending registration through the activation email.
// No user document exists until the token comes back.
type ActivationClaims struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	jwt.RegisteredClaims
}

// ResetClaims wrap the one-time code persisted on the user record; the raw
// code never travels in the email link.
type ResetClaims struct {
	ResetCode string `json:"resetCode"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies every token the API issues. The secret is
// the trust root: anyone holding it can forge any claim set.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

func (s *TokenService) SignSession(userID string, ttl time.Duration) (string, error) {
	return s.sign(&SessionClaims{
		UserID:           userID,
		RegisteredClaims: registered(purposeSession, ttl),
	})
}

func (s *TokenService) SignActivation(email, hashedPassword string) (string, error) {
	return s.sign(&ActivationClaims{
		Email:            email,
		Password:         hashedPassword,
		RegisteredClaims: registered(purposeActivation, AccessTokenTTL),
	})
}

func (s *TokenService) SignReset(code string) (string, error) {
	return s.sign(&ResetClaims{
		ResetCode:        code,
		RegisteredClaims: registered(purposeReset, AccessTokenTTL),
	})
}

func (s *TokenService) ParseSession(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := s.parse(token, claims, purposeSession); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *TokenService) ParseActivation(token string) (*ActivationClaims, error) {
	claims := &ActivationClaims{}
	if err := s.parse(token, claims, purposeActivation); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *TokenService) ParseReset(token string) (*ResetClaims, error) {
	claims := &ResetClaims{}
	if err := s.parse(token, claims, purposeReset); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *TokenService) sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *TokenService) parse(tokenString string, claims jwt.Claims, purpose string) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithSubject(purpose))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}
	if !token.Valid {
		return ErrTokenInvalid
	}
	return nil
}

func registered(purpose string, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Subject:   purpose,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
}
