package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	DigitsAlphabet = "0123456789"

	// AlphanumericAlphabet excludes O, I, 0 and 1 so that codes a human
	// transcribes by hand cannot be misread.
	AlphanumericAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// RandomCode draws length characters from alphabet using crypto/rand.
func RandomCode(length int, alphabet string) (string, error) {
	if length <= 0 || alphabet == "" {
		return "", fmt.Errorf("invalid code parameters: length=%d alphabet=%q", length, alphabet)
	}
	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, length)
	for i := range b {
		num, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = alphabet[num.Int64()]
	}
	return string(b), nil
}

// RandomNumericString generates a random string containing only digits.
func RandomNumericString(length int) string {
	code, err := RandomCode(length, DigitsAlphabet)
	if err != nil {
		panic(err)
	}
	return code
}
