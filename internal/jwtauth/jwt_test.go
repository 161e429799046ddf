package jwtauth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docseva/internal/platform/middleware"
	dErrors "docseva/pkg/domain-errors"
)

var jwtService = NewJWTService("test-signing-key", "test-issuer")
var subject = uuid.New()
var expiresIn = time.Hour

func Test_GenerateToken(t *testing.T) {
	token, err := jwtService.GenerateToken(subject, middleware.RoleOfficer, expiresIn)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, subject.String(), claims.Subject)
	assert.Equal(t, middleware.RoleOfficer, claims.Role)
	assert.WithinDuration(t, time.Now().Add(expiresIn), claims.ExpiresAt.Time, time.Minute)
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := jwtService.ValidateToken("invalid-token-string")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	token, err := jwtService.GenerateToken(subject, middleware.RoleCitizen, -time.Hour)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_WrongKey(t *testing.T) {
	other := NewJWTService("another-signing-key", "test-issuer")
	token, err := other.GenerateToken(subject, middleware.RoleCitizen, expiresIn)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_Adapter(t *testing.T) {
	token, err := jwtService.GenerateToken(subject, middleware.RoleCitizen, expiresIn)
	require.NoError(t, err)

	adapter := NewAdapter(jwtService)
	claims, err := adapter.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, subject.String(), claims.Subject)
	assert.Equal(t, middleware.RoleCitizen, claims.Role)
}
