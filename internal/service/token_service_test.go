package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-ledger-api/internal/models"
	appErrors "github.com/noah-isme/academy-ledger-api/pkg/errors"
)

func TestTokenServiceRoundTrip(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "secret", Issuer: "academy", Expiry: time.Hour})

	issued, err := svc.IssueToken("user-1", models.RoleAdmin, "admin@academy.test", "Ada Admin")
	require.NoError(t, err)
	assert.Equal(t, int64(3600), issued.ExpiresIn)

	claims, err := svc.ValidateToken(issued.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, models.Actor{ID: "user-1", Name: "Ada Admin"}, models.ActorFromClaims(claims))
}

func TestTokenServiceRejectsForeignSignature(t *testing.T) {
	issuer := NewTokenService(TokenConfig{Secret: "other", Issuer: "academy"})
	issued, err := issuer.IssueToken("user-1", models.RoleParent, "", "")
	require.NoError(t, err)

	svc := NewTokenService(TokenConfig{Secret: "secret", Issuer: "academy"})
	_, err = svc.ValidateToken(issued.AccessToken)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestTokenServiceRejectsExpired(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "secret", Expiry: time.Minute})
	svc.now = func() time.Time { return time.Now().UTC().Add(-2 * time.Hour) }
	issued, err := svc.IssueToken("user-1", models.RoleMentor, "", "")
	require.NoError(t, err)

	_, err = svc.ValidateToken(issued.AccessToken)
	require.Error(t, err)
	assert.Equal(t, "token expired", appErrors.FromError(err).Message)
}

func TestTokenServiceRequiresUserID(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "secret"})
	_, err := svc.IssueToken("", models.RoleAdmin, "", "")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}
