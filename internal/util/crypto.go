package util

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// DefaultPasswordCost matches the cost the console's seed data was hashed with.
const DefaultPasswordCost = 10

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// BurnPasswordCheck performs a bcrypt comparison against a fixed hash so a
// login for an unknown email costs as much time as one with a wrong password.
func BurnPasswordCheck(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = HashPassword("dummy-password-for-timing", DefaultPasswordCost)
	})
	CheckPasswordHash(password, dummyHash)
}
