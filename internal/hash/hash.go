package hash

import "golang.org/x/crypto/bcrypt"

// Cost follows the back-office password policy.
const Cost = 12

func HashPassword(password string) (string, error) {
	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", err
	}

	return string(hashbytes), nil
}

// CheckPassword reports whether password matches hash. A mismatch is a
// plain false, never an error.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
