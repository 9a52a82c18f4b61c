package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/43bits/mess-calender-gec/internal/core"
)

// TokenTTL is how long an issued token stays valid.
var TokenTTL = 24 * time.Hour

var ErrInvalidToken = fmt.Errorf("invalid token: %w", core.ErrUnauthenticated)

var configuredSecret string

// SetSecret makes secret the signing key, taking precedence over JWT_SECRET.
// An empty secret falls back to the environment again. Call it once at
// startup, before tokens are issued.
func SetSecret(secret string) {
	configuredSecret = secret
}

func getJWTSecret() ([]byte, error) {
	secret := configuredSecret
	if secret == "" {
		secret = os.Getenv("JWT_SECRET")
	}
	if secret == "" {
		return nil, errors.New("JWT_SECRET not set")
	}
	return []byte(secret), nil
}

func GenerateToken(userID, email, role string) (string, error) {
	if userID == "" {
		return "", errors.New("empty userID passed to GenerateToken")
	}

	secret, err := getJWTSecret()
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"userID": userID,
		"email":  email,
		"role":   role,
		"exp":    time.Now().Add(TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ValidateToken(tokenString string) (string, string, string, error) {
	secret, err := getJWTSecret()
	if err != nil {
		return "", "", "", err
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return "", "", "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", "", ErrInvalidToken
	}

	userID, _ := claims["userID"].(string)
	if userID == "" {
		return "", "", "", ErrInvalidToken
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	return userID, email, role, nil
}

// CallerFromToken validates tokenString and returns the identity it carries
// together with the email claim.
func CallerFromToken(tokenString string) (core.Caller, string, error) {
	userID, email, role, err := ValidateToken(tokenString)
	if err != nil {
		return core.Caller{}, "", err
	}
	return core.Caller{ID: userID, Role: role}, email, nil
}
