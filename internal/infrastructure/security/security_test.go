package security

import (
	"strings"
	"testing"
	"time"

	"github.com/motonorte/storefront-go/internal/domain/account"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Segura#123")
	require.NoError(t, err)

	assert.NotEqual(t, "Segura#123", hash)
	assert.True(t, CheckPassword(hash, "Segura#123"))
	assert.False(t, CheckPassword(hash, "Segura#124"))
	assert.False(t, CheckPassword("", "Segura#123"))
}

func TestProfileTokenRoundTrip(t *testing.T) {
	profile := &account.Profile{Name: "Ana Soto", Email: "ana@example.com", FirstName: "Ana"}

	token, err := GenerateProfileToken(profile, "test-secret", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT(token, "test-secret")
	require.NoError(t, err)

	decoded := GetProfileFromClaims(claims)
	require.NotNil(t, decoded)
	assert.Equal(t, profile.Email, decoded.Email)
	assert.Equal(t, profile.FirstName, decoded.FirstName)
}

func TestValidateJWTWrongSecret(t *testing.T) {
	token, err := GenerateProfileToken(&account.Profile{Email: "ana@example.com"}, "secret-a", time.Hour)
	require.NoError(t, err)

	_, err = ValidateJWT(token, "secret-b")
	assert.Error(t, err)
}

func TestValidateJWTExpired(t *testing.T) {
	token, err := GenerateProfileToken(&account.Profile{Email: "ana@example.com"}, "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateJWT(token, "secret")
	assert.Error(t, err)
}

func TestGetProfileFromClaimsRequiresEmail(t *testing.T) {
	token, err := GenerateProfileToken(&account.Profile{Name: "Ana"}, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT(token, "secret")
	require.NoError(t, err)
	assert.Nil(t, GetProfileFromClaims(claims))
}

func TestGenerators(t *testing.T) {
	assert.True(t, strings.HasPrefix(GenerateAccountID(), "user_"))
	assert.True(t, strings.HasPrefix(GenerateOrderNumber(), "PED-"))
	assert.NotEqual(t, GenerateULID(), GenerateULID())

	token, err := GenerateSecureToken(32)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}
