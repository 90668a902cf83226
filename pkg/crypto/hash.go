// Package crypto provides the hash primitives used for key
// fingerprints and base58check envelopes.
package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // mandated by BIP-32/base58check
)

// Sha256d computes SHA256(SHA256(data)), the checksum hash used by
// the base58check envelope.
func Sha256d(data []byte) [32]byte {
	first := sha256.Sum256(data)
	return sha256.Sum256(first[:])
}

// Checksum4 returns the first 4 bytes of Sha256d(data).
func Checksum4(data []byte) [4]byte {
	h := Sha256d(data)
	var out [4]byte
	copy(out[:], h[:4])
	return out
}

// Hash160 computes RIPEMD160(SHA256(data)). Key fingerprints are the
// first 4 bytes of this digest over the compressed public key.
func Hash160(data []byte) [20]byte {
	first := sha256.Sum256(data)
	r := ripemd160.New()
	r.Write(first[:])
	var out [20]byte
	copy(out[:], r.Sum(nil))
	return out
}
