package vouchercode

import (
	"crypto/rand"
	"fmt"
)

// Voucher codes are bearer-secret-adjacent: guessing one grants redemption
// value, so they are drawn from crypto/rand rather than math/rand.

const (
	Length   = 12
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// limit is the largest multiple of len(alphabet) that fits in a byte.
// Bytes at or above it are redrawn, otherwise the low characters of the
// alphabet would be slightly over-represented.
const limit = 256 / len(alphabet) * len(alphabet)

func Generate() (string, error) {
	code := make([]byte, 0, Length)
	buf := make([]byte, Length)
	for {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			code = append(code, alphabet[int(b)%len(alphabet)])
			if len(code) == Length {
				return string(code), nil
			}
		}
	}
}
