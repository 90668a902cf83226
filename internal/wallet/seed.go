package wallet

import (
	"errors"
	"fmt"

	"github.com/tyler-smith/go-bip39"

	"github.com/bitcoin-pocx/pocx-wallet/pkg/descriptor"
)

// SeedSize is the length of a derived seed in bytes (512 bits).
const SeedSize = 64

// ErrInvalidMnemonic is returned when a phrase fails BIP-39 validation.
var ErrInvalidMnemonic = errors.New("wallet: invalid mnemonic")

// SeedFromMnemonic derives the 512-bit seed from a mnemonic and
// optional passphrase using PBKDF2-SHA512 as specified in BIP-39.
// The caller owns the returned bytes and should wipe them after use.
func SeedFromMnemonic(mnemonic, passphrase string) ([]byte, error) {
	mnemonic = descriptor.NormalizeMnemonic(mnemonic)
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}
	return seed, nil
}

// ZeroSeed overwrites seed bytes in place.
func ZeroSeed(seed []byte) {
	for i := range seed {
		seed[i] = 0
	}
}
