package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/crewstock-backend/pkg/config"
)

var (
	jwtSigningMethod = jwt.SigningMethodHS256

	// ErrMissingEmail is returned for tokens that verify but carry no email claim.
	ErrMissingEmail = errors.New("identity token has no email")
)

// MintIdentityToken signs an identity token. Production tokens come from the
// provider; this is used by the crew CLI for local sessions and by tests.
func MintIdentityToken(cfg config.IdentityConfig, now time.Time, ttl time.Duration, payload IdentityPayload) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("identity secret is required")
	}
	if cfg.Issuer == "" {
		return "", fmt.Errorf("identity issuer is required")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive")
	}
	if strings.TrimSpace(payload.Email) == "" {
		return "", ErrMissingEmail
	}

	claims := IdentityClaims{
		Email:    payload.Email,
		Name:     payload.Name,
		ImageURL: payload.ImageURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   payload.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	if cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{cfg.Audience}
	}

	signed, err := jwt.NewWithClaims(jwtSigningMethod, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// ParseIdentityToken verifies the signature, issuer, audience and expiry of a provider token.
func ParseIdentityToken(cfg config.IdentityConfig, tokenString string) (*IdentityClaims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("identity secret is required")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	claims := &IdentityClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		opts...,
	)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(claims.Email) == "" {
		return nil, ErrMissingEmail
	}
	return claims, nil
}
