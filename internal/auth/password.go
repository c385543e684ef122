package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	passwordLength  = 12
	passwordCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!@#$%^&*()_+"
)

// GeneratePassword returns a random printable password.
func GeneratePassword() (string, error) {
	max := big.NewInt(int64(len(passwordCharset)))
	out := make([]byte, passwordLength)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		out[i] = passwordCharset[n.Int64()]
	}
	return string(out), nil
}
