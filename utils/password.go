package utils

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns the bcrypt hash of the password, used to produce the configured admin hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// BcryptVerifier checks credentials against a single configured admin account.
type BcryptVerifier struct {
	Username     string
	PasswordHash string
}

// Verify reports whether username and password match the account. An
// unconfigured account never matches.
func (v BcryptVerifier) Verify(username, password string) bool {
	if v.Username == "" || v.PasswordHash == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(v.Username)) == 1
	passOK := bcrypt.CompareHashAndPassword([]byte(v.PasswordHash), []byte(password)) == nil
	return userOK && passOK
}
