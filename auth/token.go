package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenDuration is used when no duration is configured.
const DefaultTokenDuration = 30 * 24 * time.Hour

// CustomClaims defines the structure of the data stored inside the JWT.
type CustomClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and validates session credentials with a shared secret.
type TokenIssuer struct {
	secret   []byte
	issuer   string
	duration time.Duration
	now      func() time.Time
}

func NewTokenIssuer(secret, issuer string, duration time.Duration) *TokenIssuer {
	if duration <= 0 {
		duration = DefaultTokenDuration
	}
	return &TokenIssuer{secret: []byte(secret), issuer: issuer, duration: duration, now: time.Now}
}

// Issue creates a signed JWT for userID and returns it with its expiry.
func (t *TokenIssuer) Issue(userID string) (string, time.Time, error) {
	if userID == "" {
		return "", time.Time{}, fmt.Errorf("cannot issue a token without subject")
	}
	issuedAt := t.now().UTC()
	expiresAt := issuedAt.Add(t.duration)

	claims := &CustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			Issuer:    t.issuer,
		},
	}

	// HS256 (HMAC with SHA256)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Validate parses the token, checks its signature, expiry and issuer.
func (t *TokenIssuer) Validate(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*CustomClaims); ok && token.Valid && claims.UserID != "" {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}
