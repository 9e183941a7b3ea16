// Package token generates and validates opaque alphanumeric identifiers.
package token

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Alphabet is the character set of every generated token.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

var alphabetLen = big.NewInt(int64(len(Alphabet)))

// Alphanumeric returns n characters drawn uniformly from Alphabet using crypto/rand.
func Alphanumeric(n int) (string, error) {
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		out[i] = Alphabet[idx.Int64()]
	}
	return string(out), nil
}

// IsAlphanumeric reports whether s is exactly n characters long and drawn from Alphabet.
func IsAlphanumeric(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9') {
			return false
		}
	}
	return true
}
