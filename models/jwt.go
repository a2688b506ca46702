package models

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var JWT = struct {
	ACCESS_COOKIE_NAME string
}{
	ACCESS_COOKIE_NAME: "access_token",
}

// JWTClaims are the claims of an access token issued by the hosted auth
// backend. The subject is the user id.
type JWTClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// ValidateJWTToken checks the HS256 signature and expiry of tokenString and
// returns its claims.
func ValidateJWTToken(tokenString string, secret string) (*JWTClaims, error) {
	if secret == "" {
		return nil, fmt.Errorf("no token secret configured")
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || claims.Subject == "" {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}
