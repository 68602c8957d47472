package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword produces the stored form of a devserver account password.
// cost comes from DEVSERVER_BCRYPT_COST; tests pass bcrypt.MinCost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword reports a mismatch between a login attempt and the stored hash as an error.
func ComparePassword(stored, attempt string) error {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(attempt))
}
