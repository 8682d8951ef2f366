package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// bcryptMaxBytes is the longest input bcrypt accepts.
const bcryptMaxBytes = 72

// HashPassword returns a bcrypt hash of password. Passwords of any length are
// accepted; see bcryptInput.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(bcryptInput(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches stored. Accounts created before
// hashing was introduced hold the plaintext value; those are compared in constant time.
func CheckPassword(stored, password string) bool {
	if isBcrypt(stored) {
		err := bcrypt.CompareHashAndPassword([]byte(stored), bcryptInput(password))
		return err == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}

// bcryptInput passes short passwords through unchanged and condenses anything over
// 72 bytes (easy to reach with multibyte characters) into a base64 SHA-256 digest,
// so no part of a long password is ignored and bcrypt never rejects it.
func bcryptInput(password string) []byte {
	if len(password) <= bcryptMaxBytes {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

func isBcrypt(s string) bool {
	if !strings.HasPrefix(s, "$2") {
		return false
	}
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}
