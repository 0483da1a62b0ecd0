package crypto

import (
	"crypto/rand"
	"encoding/base64"
)

// NewToken returns an opaque single-use token, used by the contest
// verification step.
func NewToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
