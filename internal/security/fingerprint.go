package security

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint is a short, non-reversible label for a secret, safe to put in logs.
func Fingerprint(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}
