// Package utils provides helpers for session tokens, short-lived codes and
// password hashing.
package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionToken is a signed, stateless credential issued on successful login
// or registration. Token is the serialized JWT; Exp its UTC expiry.
// Validity is enforced by the JWT middleware on subsequent requests, not by
// the workflow engine.
type SessionToken struct {
	Token string    `json:"token"`
	Exp   time.Time `json:"expires"`
}

// NewSessionToken builds and signs an HS256 JWT carrying the user's id
// (sub) and email, expiring ttlMin minutes from now.
func NewSessionToken(secret string, userID uint64, email string, ttlMin int) (SessionToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"exp":   exp.Unix(),
		"iat":   time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}
