package wallet

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"
)

const trezorMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestSeedFromMnemonic_KnownVector(t *testing.T) {
	// BIP-39 test vector: all-abandon phrase with passphrase "TREZOR".
	seed, err := SeedFromMnemonic(trezorMnemonic, "TREZOR")
	if err != nil {
		t.Fatalf("SeedFromMnemonic() error: %v", err)
	}
	want, _ := hex.DecodeString(
		"c55257c360c07c72029aebc1b53c05ed0362ada38ead3e3e9efa3708e53495531f09a6987599d18264c1e1c92f2cf141630c7a3c4ab7c81b2f001698e7463b04")
	if !bytes.Equal(seed, want) {
		t.Errorf("seed = %x, want %x", seed, want)
	}
}

func TestSeedFromMnemonic_Deterministic(t *testing.T) {
	s1, err := SeedFromMnemonic(trezorMnemonic, "")
	if err != nil {
		t.Fatalf("SeedFromMnemonic() error: %v", err)
	}
	s2, err := SeedFromMnemonic(trezorMnemonic, "")
	if err != nil {
		t.Fatalf("SeedFromMnemonic() error: %v", err)
	}
	if !bytes.Equal(s1, s2) {
		t.Error("same inputs should yield the same seed")
	}
	if len(s1) != SeedSize {
		t.Errorf("seed length = %d, want %d", len(s1), SeedSize)
	}
}

func TestSeedFromMnemonic_PassphraseSeparatesWallets(t *testing.T) {
	plain, err := SeedFromMnemonic(trezorMnemonic, "")
	if err != nil {
		t.Fatalf("SeedFromMnemonic() error: %v", err)
	}
	hidden, err := SeedFromMnemonic(trezorMnemonic, "hidden")
	if err != nil {
		t.Fatalf("SeedFromMnemonic() error: %v", err)
	}
	if bytes.Equal(plain, hidden) {
		t.Error("different passphrases should yield unrelated seeds")
	}
}

func TestSeedFromMnemonic_InvalidMnemonic(t *testing.T) {
	_, err := SeedFromMnemonic("abandon abandon wrong", "")
	if err == nil {
		t.Fatal("invalid mnemonic should fail")
	}
	if !errors.Is(err, ErrInvalidMnemonic) {
		t.Errorf("error = %v, want ErrInvalidMnemonic", err)
	}
}

func TestZeroSeed(t *testing.T) {
	seed := []byte{1, 2, 3, 4}
	ZeroSeed(seed)
	if !bytes.Equal(seed, make([]byte, 4)) {
		t.Error("ZeroSeed should overwrite every byte")
	}
}
