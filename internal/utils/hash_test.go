// internal/utils/hash_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityHash(t *testing.T) {
	h := IdentityHash("ワンピース フィギュア", "https://example.com/item/1")

	assert.Len(t, h, 8)
	assert.Equal(t, h, IdentityHash("ワンピース フィギュア", "https://example.com/item/1"))

	// Name and URL both contribute to the identity.
	assert.NotEqual(t, h, IdentityHash("ワンピース フィギュア", "https://example.com/item/2"))
	assert.NotEqual(t, h, IdentityHash("ナルト フィギュア", "https://example.com/item/1"))

	// The separator keeps ("ab", "c") and ("a", "bc") distinct.
	assert.NotEqual(t, IdentityHash("ab", "c"), IdentityHash("a", "bc"))
}

func TestTextHash(t *testing.T) {
	// Known md5 vector.
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", TextHash("hello"))
	assert.Equal(t, TextHash("ワンピース"), TextHash("ワンピース"))
	assert.NotEqual(t, TextHash("ワンピース"), TextHash("ナルト"))
}
