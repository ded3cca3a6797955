package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// CodeLength is fixed: the client input widget expects exactly six digits.
const CodeLength = 6

// Validity is the window during which an issued code can be redeemed.
// It is baked into the stored record at generation time, never recomputed
// at verification time.
const Validity = 10 * time.Minute

var codeSpace = big.NewInt(1000000)

// Generate produces a zero-padded six-digit code and its absolute expiry.
// Pure function of the clock and the CSPRNG; no side effects.
func Generate() (string, time.Time, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), time.Now().Add(Validity), nil
}
