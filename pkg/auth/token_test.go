package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/crewstock-backend/pkg/config"
)

func testIdentityConfig() config.IdentityConfig {
	return config.IdentityConfig{Secret: "secret", Issuer: "crew-idp", Audience: "crewstock"}
}

func TestMintAndParseIdentityToken(t *testing.T) {
	cfg := testIdentityConfig()
	now := time.Now().UTC()

	token, err := MintIdentityToken(cfg, now, time.Hour, IdentityPayload{Email: "Lead@Example.com", Name: "Lead"})
	require.NoError(t, err)

	claims, err := ParseIdentityToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, "Lead@Example.com", claims.Email, "email is returned as asserted; normalization happens downstream")
	assert.Equal(t, "Lead", claims.Name)
	assert.Equal(t, cfg.Issuer, claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, now.Add(time.Hour), claims.ExpiresAt.Time, time.Second)
}

func TestParseIdentityTokenRejects(t *testing.T) {
	cfg := testIdentityConfig()
	now := time.Now().UTC()

	expired, err := MintIdentityToken(cfg, now.Add(-2*time.Hour), time.Hour, IdentityPayload{Email: "a@b.co"})
	require.NoError(t, err)
	_, err = ParseIdentityToken(cfg, expired)
	require.Error(t, err)

	otherIssuer := cfg
	otherIssuer.Issuer = "someone-else"
	foreign, err := MintIdentityToken(otherIssuer, now, time.Hour, IdentityPayload{Email: "a@b.co"})
	require.NoError(t, err)
	_, err = ParseIdentityToken(cfg, foreign)
	require.Error(t, err)

	otherSecret := cfg
	otherSecret.Secret = "different"
	forged, err := MintIdentityToken(otherSecret, now, time.Hour, IdentityPayload{Email: "a@b.co"})
	require.NoError(t, err)
	_, err = ParseIdentityToken(cfg, forged)
	require.Error(t, err)

	_, err = ParseIdentityToken(cfg, "not-a-token")
	require.Error(t, err)
}

func TestParseIdentityTokenRequiresEmail(t *testing.T) {
	cfg := testIdentityConfig()
	claims := IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
	require.NoError(t, err)

	_, err = ParseIdentityToken(cfg, signed)
	require.ErrorIs(t, err, ErrMissingEmail)
}

func TestMintIdentityTokenValidatesInput(t *testing.T) {
	cfg := testIdentityConfig()
	_, err := MintIdentityToken(config.IdentityConfig{Issuer: "x"}, time.Now(), time.Hour, IdentityPayload{Email: "a@b.co"})
	require.Error(t, err)
	_, err = MintIdentityToken(cfg, time.Now(), 0, IdentityPayload{Email: "a@b.co"})
	require.Error(t, err)
	_, err = MintIdentityToken(cfg, time.Now(), time.Hour, IdentityPayload{Email: " "})
	require.ErrorIs(t, err, ErrMissingEmail)
}
