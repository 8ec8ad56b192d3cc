package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"arone/config"

	"github.com/golang-jwt/jwt"
)

// devSecret signs tokens when JWT_SECRET is unset outside production.
const devSecret = "arone-local-dev"

// SessionClaims are the claims carried by a locally issued session token.
type SessionClaims struct {
	Subject     string
	Email       string
	DisplayName string
	ID          string
	ExpiresAt   time.Time
}

func secretKey() ([]byte, error) {
	secret := config.AppConfig.JWTSecret
	if secret == "" {
		if config.IsProduction() {
			return nil, errors.New("JWT_SECRET is not configured")
		}
		secret = devSecret
	}
	return []byte(secret), nil
}

// GenerateToken creates a signed HS256 token for the given subject. id becomes the jti
// claim so one token can be revoked without touching the others.
func GenerateToken(subject, email, displayName, id string, duration time.Duration) (string, error) {
	key, err := secretKey()
	if err != nil {
		return "", err
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"name":  displayName,
		"jti":   id,
		"iat":   now.Unix(),
		"exp":   now.Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// HashToken computes a SHA-256 hash of the token string.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	key, err := secretKey()
	if err != nil {
		return nil, err
	}
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	})
}

// ParseSessionToken validates a token and extracts its claims.
func ParseSessionToken(tokenString string) (*SessionClaims, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("token does not contain a valid 'sub' claim")
	}
	jti, ok := claims["jti"].(string)
	if !ok || jti == "" {
		return nil, errors.New("token does not contain a valid 'jti' claim")
	}

	out := &SessionClaims{Subject: sub, ID: jti}
	out.Email, _ = claims["email"].(string)
	out.DisplayName, _ = claims["name"].(string)
	if exp, ok := claims["exp"].(float64); ok {
		out.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return out, nil
}
