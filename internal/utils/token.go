package utils

import (
	"crypto/rand"
	"encoding/base64"
	"math/big"

	"github.com/google/uuid"
)

// codeDigits is the length of verification and reset codes. Six digits keep
// the code typeable from an email while the collision window stays
// negligible for the token's lifetime; a new code silently replaces any
// prior one.
const codeDigits = 6

// NewVerificationCode returns a fixed-length numeric code drawn from
// crypto/rand. It is used for both email verification and password reset.
func NewVerificationCode() (string, error) {
	out := make([]byte, codeDigits)
	for i := range out {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		out[i] = byte('0' + n.Int64())
	}
	return string(out), nil
}

// NewProjectUID returns a 22-character URL-safe identifier for sharing
// project links, derived from a random UUID.
func NewProjectUID() string {
	u := uuid.New()
	return base64.RawURLEncoding.EncodeToString(u[:])
}
