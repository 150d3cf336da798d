package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)

	token, err := svc.GenerateToken("admin", RoleLSAAdmin, "")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, RoleLSAAdmin, claims.Role)
	assert.Empty(t, claims.SpaID)
}

func TestSpaAdminTokenCarriesSpaScope(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)

	token, err := svc.GenerateToken("serenity", RoleSpaAdmin, "spa-1")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, RoleSpaAdmin, claims.Role)
	assert.Equal(t, "spa-1", claims.SpaID)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	svc := NewJWTService(testSecret, -time.Minute)

	token, err := svc.GenerateToken("admin", RoleLSAAdmin, "")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenSignedWithOtherSecretIsRejected(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)
	other := NewJWTService("another-secret-another-secret-xx", time.Hour)

	token, err := other.GenerateToken("admin", RoleLSAAdmin, "")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestGarbageTokenIsRejected(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)
	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}
