package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortSHA256Hex(t *testing.T) {
	// sha256("abc") = ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad
	assert.Equal(t, "ba7816bf", ShortSHA256Hex("abc", 8))
	assert.Len(t, ShortSHA256Hex("abc", 100), 64)
	assert.Len(t, ShortSHA256Hex("abc", -1), 64)
	assert.Equal(t, "", ShortSHA256Hex("abc", 0))
}
