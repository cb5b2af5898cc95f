package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// InviteTokenBytes is the entropy of invitation tokens. Tokens are hex
// encoded, so the emitted string is twice this length.
const InviteTokenBytes = 32

// GenerateRandomToken returns n random bytes from a cryptographically
// strong source, hex encoded. It returns "" only if the system's random
// source is unavailable; callers treat that as a hard failure.
func GenerateRandomToken(n int) string {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return ""
	}
	return hex.EncodeToString(bytes)
}
