package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// IdentityPayload is what the upstream identity provider asserts about a caller.
type IdentityPayload struct {
	Email    string
	Name     string
	ImageURL string
}

// IdentityClaims is the JWT body issued by the identity provider. The subject
// is the provider's own account id and is not used as an internal key.
type IdentityClaims struct {
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	ImageURL string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}
