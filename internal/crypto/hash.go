// Package crypto wraps the password hashing used by the account operations.
package crypto

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a password with bcrypt at the default cost. The salt
// is embedded in the hash, so equal passwords produce different hashes.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword checks a password against a stored bcrypt hash.
func VerifyPassword(password, hashedPassword string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if hashedPassword == "" {
		return fmt.Errorf("hashed password cannot be empty")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)); err != nil {
		return fmt.Errorf("invalid password")
	}
	return nil
}
