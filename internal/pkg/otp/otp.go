package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// DefaultLength is the number of digits in a generated code.
const DefaultLength = 6

// DefaultTTL is how long a code stays valid.
const DefaultTTL = 5 * time.Minute

var ten = big.NewInt(10)

// Generate returns a code of n decimal digits, each drawn independently from
// crypto/rand. Codes keep leading zeros.
func Generate(n int) (string, error) {
	if n <= 0 {
		n = DefaultLength
	}
	b := make([]byte, n)
	for i := range b {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("generate otp: %w", err)
		}
		b[i] = '0' + byte(d.Int64())
	}
	return string(b), nil
}

// ExpiresAt returns the Unix timestamp at which a code issued now expires.
func ExpiresAt(ttl time.Duration) int64 {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return time.Now().UTC().Add(ttl).Unix()
}
