// Package wallet implements the recovery-phrase handling and the
// encrypted on-disk keystore for the desktop and CLI frontends.
package wallet

import (
	"fmt"

	"github.com/tyler-smith/go-bip39"

	"github.com/bitcoin-pocx/pocx-wallet/pkg/descriptor"
)

// Supported mnemonic entropy sizes in bits.
const (
	Entropy12Words = 128
	Entropy24Words = 256
)

// GenerateMnemonic creates a new BIP-39 mnemonic of 12 or 24 words.
// It fails only when the entropy size is unsupported or the system
// entropy source is unavailable.
func GenerateMnemonic(strengthBits int) (string, error) {
	if strengthBits != Entropy12Words && strengthBits != Entropy24Words {
		return "", fmt.Errorf("mnemonic strength must be %d or %d bits, got %d",
			Entropy12Words, Entropy24Words, strengthBits)
	}
	entropy, err := bip39.NewEntropy(strengthBits)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// ValidateMnemonic checks word-list membership and the embedded
// checksum. The phrase is normalized (lowercase, single spaces) first,
// so pasted phrases with stray whitespace validate.
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(descriptor.NormalizeMnemonic(mnemonic))
}
