// Package utils provides small helpers with no dependencies on the rest of
// the application.
package utils

import "golang.org/x/crypto/bcrypt"

// HashToken derives a bcrypt hash for a shared internal token.  The hash —
// never the token itself — is what gets stored in configuration, so a
// leaked environment dump does not hand out the credential.
func HashToken(token string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(token), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckToken reports whether the presented token matches the stored bcrypt
// hash.
func CheckToken(hash, token string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)) == nil
}
