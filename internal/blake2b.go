// Package internal wraps golang.org/x/crypto primitives used outside the
// generation path: seed fingerprints and passphrase seed derivation.
package internal

import (
	"hash"

	"golang.org/x/crypto/blake2b"
)

// fingerprintKey domain-separates seed fingerprints from other BLAKE2b uses.
var fingerprintKey = []byte("goldenseed fingerprint v1")

// Fingerprint returns the keyed BLAKE2b-256 digest of a seed.
func Fingerprint(seed []byte) [32]byte {
	h := newKeyed(fingerprintKey)
	h.Write(seed)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Checksum returns the unkeyed BLAKE2b-256 digest of data.
func Checksum(data []byte) [32]byte {
	return blake2b.Sum256(data)
}

func newKeyed(key []byte) hash.Hash {
	h, err := blake2b.New256(key)
	if err != nil {
		// key is a compile-time constant shorter than 64 bytes
		panic(err)
	}
	return h
}
