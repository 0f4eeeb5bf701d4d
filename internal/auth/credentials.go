package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// CredentialStore verifies the primary email/password credential.
type CredentialStore interface {
	// Verify checks the credential pair; an unknown email and a wrong
	// password are indistinguishable to the caller.
	Verify(ctx context.Context, email, password string) error
}

// StaticCredentialStore holds a single admin credential loaded from
// configuration, with the password as a bcrypt hash.
type StaticCredentialStore struct {
	email string
	hash  []byte
}

// NewStaticCredentialStore creates a store around a configured admin email
// and bcrypt password hash.
func NewStaticCredentialStore(email, passwordHash string) *StaticCredentialStore {
	return &StaticCredentialStore{
		email: email,
		hash:  []byte(passwordHash),
	}
}

// Verify checks the given credentials against the configured admin.
func (s *StaticCredentialStore) Verify(_ context.Context, email, password string) error {
	if email != s.email {
		return fmt.Errorf("unknown credentials")
	}
	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(password)); err != nil {
		return fmt.Errorf("unknown credentials")
	}
	return nil
}

// HashPassword produces a bcrypt hash for seeding credentials.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
