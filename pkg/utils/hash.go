package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// NewTxHash returns a fresh transaction identifier: "0x" followed by 32
// random bytes hex-encoded. 256 bits of entropy, treated as collision-free.
func NewTxHash() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process has bigger problems
		panic(err)
	}
	return "0x" + hex.EncodeToString(buf)
}
