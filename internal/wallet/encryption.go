package wallet

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// Sealed phrase format, all integers big-endian:
//
//	version(1) | salt(32) | memory(4) | time(4) | threads(1) | nonce(24) | ciphertext
const (
	sealVersion   = 1
	sealSaltSize  = 32
	sealHeaderLen = 1 + sealSaltSize + 4 + 4 + 1
)

// KDFParams holds the Argon2id parameters recorded alongside each
// sealed phrase, so old wallet files stay readable when the defaults
// are raised.
type KDFParams struct {
	MemoryKiB uint32
	Time      uint32
	Threads   uint8
}

// DefaultKDFParams returns the Argon2id parameters for new wallets.
func DefaultKDFParams() KDFParams {
	return KDFParams{
		MemoryKiB: 64 * 1024,
		Time:      3,
		Threads:   4,
	}
}

func sealKey(password, salt []byte, params KDFParams) []byte {
	return argon2.IDKey(password, salt, params.Time, params.MemoryKiB,
		params.Threads, chacha20poly1305.KeySize)
}

// SealPhrase encrypts a recovery phrase under a password using
// Argon2id key stretching and XChaCha20-Poly1305.
func SealPhrase(phrase, password []byte, params KDFParams) ([]byte, error) {
	salt := make([]byte, sealSaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	key := sealKey(password, salt, params)
	defer ZeroSeed(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	out := make([]byte, 0, sealHeaderLen+len(nonce)+len(phrase)+aead.Overhead())
	out = append(out, sealVersion)
	out = append(out, salt...)
	out = binary.BigEndian.AppendUint32(out, params.MemoryKiB)
	out = binary.BigEndian.AppendUint32(out, params.Time)
	out = append(out, params.Threads)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, phrase, nil), nil
}

// OpenPhrase decrypts a sealed recovery phrase. The caller owns the
// returned bytes and should wipe them after use.
func OpenPhrase(sealed, password []byte) ([]byte, error) {
	nonceSize := chacha20poly1305.NonceSizeX
	if len(sealed) < sealHeaderLen+nonceSize+chacha20poly1305.Overhead {
		return nil, fmt.Errorf("sealed phrase too short: %d bytes", len(sealed))
	}
	if sealed[0] != sealVersion {
		return nil, fmt.Errorf("unsupported sealed phrase version %d", sealed[0])
	}

	salt := sealed[1 : 1+sealSaltSize]
	params := KDFParams{
		MemoryKiB: binary.BigEndian.Uint32(sealed[1+sealSaltSize:]),
		Time:      binary.BigEndian.Uint32(sealed[1+sealSaltSize+4:]),
		Threads:   sealed[sealHeaderLen-1],
	}
	nonce := sealed[sealHeaderLen : sealHeaderLen+nonceSize]
	ciphertext := sealed[sealHeaderLen+nonceSize:]

	key := sealKey(password, salt, params)
	defer ZeroSeed(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	phrase, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt phrase: %w", err)
	}
	return phrase, nil
}
