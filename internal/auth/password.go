// ABOUTME: Password hashing and verification built on bcrypt
// ABOUTME: Includes a dummy compare to keep login timing constant for unknown emails

package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when a password does not match. Callers
// surface it with a generic message so failed logins cannot distinguish a
// wrong password from an unknown email.
var ErrInvalidCredentials = errors.New("invalid email or password")

// dummyHash is compared against when the email is unknown, so the login path
// costs one bcrypt comparison whether or not the account exists.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// HashPassword hashes a password with bcrypt at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword checks a password against a stored bcrypt hash. It returns
// ErrInvalidCredentials on mismatch. An empty hash (account without password
// login) never matches but still burns a bcrypt comparison.
func VerifyPassword(hash, password string) error {
	if hash == "" {
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// DummyCompare performs a bcrypt comparison against a fixed hash. Login
// handlers call it when the email lookup fails to keep timing constant.
func DummyCompare(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
}
