package security

import (
	"crypto/rand"
	"encoding/hex"
)

// NewLinkID generates the opaque identifier a payment link is shared
// under: 16 random bytes as a 32-character lowercase hex string.
func NewLinkID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
