package service

import (
	"crypto/rand"
	"encoding/hex"
)

// idAttempts bounds the retry loop around random id generation. The
// pre-check against the store narrows the race window; the unique index is
// the authoritative arbiter, and a duplicate-key error on insert means
// "draw again", not "give up".
const idAttempts = 5

// randomHex returns n random bytes as lowercase hex (2n characters).
func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
