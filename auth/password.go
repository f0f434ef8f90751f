package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost mirrors the work factor the accounts were originally hashed with.
const bcryptCost = 12

// MinPasswordLength is enforced on registration and password changes.
const MinPasswordLength = 4

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(password, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
