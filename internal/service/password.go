package service

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor used for every stored password.
const PasswordCost = 10

// passwordMaxBytes is the longest input bcrypt accepts. Longer passwords are
// truncated on both hash and compare so that any length a user can register
// with also works at login.
const passwordMaxBytes = 72

func bcryptInput(plaintext string) []byte {
	b := []byte(plaintext)
	if len(b) > passwordMaxBytes {
		b = b[:passwordMaxBytes]
	}
	return b
}

// HashPassword derives a salted bcrypt hash from plaintext.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(bcryptInput(plaintext), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext matches hash.
func CheckPassword(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(plaintext)) == nil
}
