// internal/utils/hash.go
package utils

import (
	"crypto/md5"
	"encoding/hex"
)

// identityHashLen truncates identity hashes to 8 hex chars. Identities are
// further namespaced by a spider or source prefix, so a short digest is
// collision-resistant enough while keeping hashes readable in logs.
const identityHashLen = 8

// IdentityHash returns the deterministic short digest used inside product
// hashes: md5(name + "|" + url) truncated.
func IdentityHash(name, url string) string {
	sum := md5.Sum([]byte(name + "|" + url))
	return hex.EncodeToString(sum[:])[:identityHashLen]
}

// TextHash returns the full content hash keying the translation cache.
// md5 is fine here: the hash only deduplicates text, nothing is secured by it.
func TextHash(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}
