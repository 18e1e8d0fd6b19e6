package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// forbiddenKeyChars are the filesystem-unsafe and backing-store-unsafe
// characters a cache key may never contain.
const forbiddenKeyChars = `_*/\;:?"|+[{]}()#$%^`

// ValidateKey rejects ".", "..", ",", empty, over 255 chars, both "<" and
// ">" together, or any character in forbiddenKeyChars.
func ValidateKey(key string) error {
	switch key {
	case "", ".", "..", ",":
		return &InvalidCacheKey{Key: key, Reason: "empty or reserved path segment"}
	}
	if len(key) > 255 {
		return &InvalidCacheKey{Key: key, Reason: "longer than 255 characters"}
	}
	if strings.ContainsRune(key, '<') && strings.ContainsRune(key, '>') {
		return &InvalidCacheKey{Key: key, Reason: "contains both < and >"}
	}
	if strings.ContainsAny(key, forbiddenKeyChars) {
		return &InvalidCacheKey{Key: key, Reason: "contains a forbidden character"}
	}
	return nil
}

// GenerateResultCacheKey hashes the (src, dest, exclusions) triple into a
// stable key for the result cache. Exclusions are sorted
// first so that equivalent requests collide.
func GenerateResultCacheKey(src, dest string, exclusions []string) string {
	sorted := append([]string(nil), exclusions...)
	sort.Strings(sorted)

	h := sha256.New()
	h.Write([]byte("src="))
	h.Write([]byte(src))
	h.Write([]byte("&dest="))
	h.Write([]byte(dest))
	h.Write([]byte("&exclusions="))
	h.Write([]byte(strings.Join(sorted, ",")))
	return hex.EncodeToString(h.Sum(nil))
}
