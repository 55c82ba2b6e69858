package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// SumSHA256 returns the SHA-256 checksum of the provided data.
func SumSHA256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// ShortSHA256Hex returns the first n lowercase hex characters of the SHA-256
// digest of s. n is clamped to the digest's hex length.
func ShortSHA256Hex(s string, n int) string {
	sum := SumSHA256([]byte(s))
	full := hex.EncodeToString(sum[:])
	if n < 0 || n > len(full) {
		n = len(full)
	}
	return full[:n]
}
