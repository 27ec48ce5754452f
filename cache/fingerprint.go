// Package cache implements a disk-backed store of incremental-parse
// results and diagnostic reports, keyed by a structural fingerprint of
// (source digest, options digest, provider identity). The cache is
// never the source of truth — every entry it serves must also be
// derivable from scratch by re-running the parser, scope builder, and
// diagnostic engine directly.
package cache

import (
	"encoding/hex"
	"fmt"
	"hash"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/hkdf"
)

// fingerprintInfo domain-separates cache-key derivation from any other
// HKDF consumer that might one day derive keys from the same digest.
const fingerprintInfo = "gdtoolkit/sema/cache/fingerprint/v1"

// Fingerprint is a 32-byte cache key.
type Fingerprint [32]byte

// String renders f as lowercase hex, the form used for on-disk file
// names in Store.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

func newBlake2b256() hash.Hash {
	h, _ := blake2b.New256(nil) // nil key is always valid: New256 only errors on an oversized key
	return h
}

// New computes the fingerprint of (sourceDigest, optionsDigest,
// providerIdentity): the three parts are BLAKE2b-256 hashed together
// (null-separated), then the result is run through HKDF with a fixed
// domain-separation string to produce the final key. Any single
// differing input changes the fingerprint.
func New(sourceDigest, optionsDigest, providerIdentity string) (Fingerprint, error) {
	h := newBlake2b256()
	for _, part := range []string{sourceDigest, optionsDigest, providerIdentity} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	digest := h.Sum(nil)

	kdf := hkdf.New(newBlake2b256, digest, nil, []byte(fingerprintInfo))
	var out Fingerprint
	if _, err := kdf.Read(out[:]); err != nil {
		return Fingerprint{}, fmt.Errorf("cache: hkdf expand: %w", err)
	}
	return out, nil
}

// SourceDigest hashes a script's raw source text, the first of
// Fingerprint's three inputs.
func SourceDigest(source []byte) string {
	sum := blake2b.Sum256(source)
	return hex.EncodeToString(sum[:])
}
