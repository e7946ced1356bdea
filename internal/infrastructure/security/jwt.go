package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/motonorte/storefront-go/internal/domain/account"
)

// ValidateJWT validates a JWT token and returns the claims
func ValidateJWT(tokenString, jwtSecret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// GetProfileFromClaims extracts a session profile from JWT claims
func GetProfileFromClaims(claims jwt.MapClaims) *account.Profile {
	profileData, ok := claims["profile"].(map[string]any)
	if !ok {
		return nil
	}
	name, _ := profileData["name"].(string)
	email, _ := profileData["email"].(string)
	firstName, _ := profileData["firstName"].(string)
	if email == "" {
		return nil
	}
	return &account.Profile{
		Name:      name,
		Email:     email,
		FirstName: firstName,
	}
}

// GenerateProfileToken creates a JWT token for a signed-in session profile
func GenerateProfileToken(profile *account.Profile, jwtSecret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"profile": map[string]string{
			"name":      profile.Name,
			"email":     profile.Email,
			"firstName": profile.FirstName,
		},
		"iat": time.Now().UTC().Unix(),
		"exp": time.Now().UTC().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	result, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		return "", err
	}

	return result, nil
}
