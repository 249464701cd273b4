package hash

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a one-way digest from the plaintext. The plaintext is
// never stored; the digest replaces any previous one on password change.
func HashPassword(password string) (string, error) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hashBytes), nil
}

// CheckPassword reports whether the candidate plaintext matches the stored
// digest. It is false for any mismatch and never fails for well-formed input.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
