package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}

// IssuedToken is returned when the service mints an access token for an
// externally authenticated user.
type IssuedToken struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
}

// Actor identifies who performed a ledger mutation.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SystemActor is used when no authenticated user is available.
var SystemActor = Actor{ID: "system", Name: "System"}

// ActorFromClaims derives the audit actor from token claims.
func ActorFromClaims(claims *JWTClaims) Actor {
	if claims == nil || claims.UserID == "" {
		return SystemActor
	}
	name := claims.FullName
	if name == "" {
		name = claims.Email
	}
	if name == "" {
		name = claims.UserID
	}
	return Actor{ID: claims.UserID, Name: name}
}
