package hdkey

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	bip32 "github.com/tyler-smith/go-bip32"
)

// vector1Seed is the seed from BIP-32 test vector 1.
func vector1Seed(t *testing.T) []byte {
	t.Helper()
	seed, err := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	if err != nil {
		t.Fatalf("decode seed: %v", err)
	}
	return seed
}

func TestNewMaster_Vector1(t *testing.T) {
	master, err := NewMaster(vector1Seed(t))
	if err != nil {
		t.Fatalf("NewMaster() error: %v", err)
	}

	const wantPriv = "xprv9s21ZrQH143K3QTDL4LXw2F7HEK3wJUD2nW2nRk4stbPy6cq3jPPqjiChkVvvNKmPGJxWUtg6LnF5kejMRNNU3TGtRBeJgk33yuGBxrMPHi"
	if got := master.String(MainNet); got != wantPriv {
		t.Errorf("master xprv = %s, want %s", got, wantPriv)
	}

	pub := master.Neuter()
	const wantPub = "xpub661MyMwAqRbcFtXgS5sYJABqqG9YLmC4Q1Rdap9gSE8NqtwybGhePY2gZ29ESFjqJoCu1Rupje8YtGqsefD265TMg7usUDFdp6W1EGMcet8"
	if got := pub.String(MainNet); got != wantPub {
		t.Errorf("master xpub = %s, want %s", got, wantPub)
	}

	if fp := master.Fingerprint(); hex.EncodeToString(fp[:]) != "3442193e" {
		t.Errorf("master fingerprint = %x, want 3442193e", fp)
	}
	if master.Depth() != 0 {
		t.Errorf("master depth = %d, want 0", master.Depth())
	}
	if master.ParentFingerprint() != [4]byte{} {
		t.Error("master parent fingerprint should be zero")
	}
}

func TestChild_Vector1Hardened(t *testing.T) {
	master, err := NewMaster(vector1Seed(t))
	if err != nil {
		t.Fatalf("NewMaster() error: %v", err)
	}

	child, err := master.Child(HardenedKeyStart + 0)
	if err != nil {
		t.Fatalf("Child(0') error: %v", err)
	}

	const want = "xprv9uHRZZhk6KAJC1avXpDAp4MDc3sQKNxDiPvvkX8Br5ngLNv1TxvUxt4cV1rGL5hj6KCesnDYUhd7oWgT11eZG7XnxHrnYeSvkzY7d2bhkJ7"
	if got := child.String(MainNet); got != want {
		t.Errorf("m/0' xprv = %s, want %s", got, want)
	}

	if child.Depth() != 1 {
		t.Errorf("child depth = %d, want 1", child.Depth())
	}
	if child.ChildIndex() != HardenedKeyStart {
		t.Errorf("child index = %d, want %d", child.ChildIndex(), HardenedKeyStart)
	}
	if child.ParentFingerprint() != master.Fingerprint() {
		t.Error("child parent fingerprint should match master fingerprint")
	}
}

func TestNewMaster_InvalidSeedLength(t *testing.T) {
	tests := []struct {
		name string
		seed []byte
	}{
		{"empty", []byte{}},
		{"too short", make([]byte, 15)},
		{"too long", make([]byte, 65)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewMaster(tt.seed); !errors.Is(err, ErrInvalidSeed) {
				t.Errorf("NewMaster() error = %v, want ErrInvalidSeed", err)
			}
		})
	}
}

func TestDerive_PathConsistency(t *testing.T) {
	master, err := NewMaster(vector1Seed(t))
	if err != nil {
		t.Fatalf("NewMaster() error: %v", err)
	}

	// m/84'/1'/0'/0/5 in one shot must equal m/84'/1'/0' then 0 then 5.
	full, err := ParsePath("m/84'/1'/0'/0/5")
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	direct, err := master.Derive(full)
	if err != nil {
		t.Fatalf("Derive(full) error: %v", err)
	}

	account, err := master.Derive(Path{
		HardenedKeyStart + 84, HardenedKeyStart + 1, HardenedKeyStart + 0,
	})
	if err != nil {
		t.Fatalf("Derive(account) error: %v", err)
	}
	branch, err := account.Child(0)
	if err != nil {
		t.Fatalf("Child(0) error: %v", err)
	}
	stepped, err := branch.Child(5)
	if err != nil {
		t.Fatalf("Child(5) error: %v", err)
	}

	if direct.String(TestNet) != stepped.String(TestNet) {
		t.Errorf("stepwise derivation diverged:\n direct  %s\n stepped %s",
			direct.String(TestNet), stepped.String(TestNet))
	}
}

func TestChild_HardenedFromPublic(t *testing.T) {
	master, err := NewMaster(vector1Seed(t))
	if err != nil {
		t.Fatalf("NewMaster() error: %v", err)
	}
	pub := master.Neuter()

	if _, err := pub.Child(HardenedKeyStart); !errors.Is(err, ErrHardenedFromPublic) {
		t.Errorf("Child(hardened) on public key error = %v, want ErrHardenedFromPublic", err)
	}
}

func TestChild_PublicDerivationMatchesNeuteredPrivate(t *testing.T) {
	master, err := NewMaster(vector1Seed(t))
	if err != nil {
		t.Fatalf("NewMaster() error: %v", err)
	}

	// Neuter-then-derive must equal derive-then-neuter for non-hardened
	// children: the CKDpub point-addition path against the CKDpriv path.
	masterPub := master.Neuter()

	for _, index := range []uint32{0, 1, 7, 1000} {
		fromPub, err := masterPub.Child(index)
		if err != nil {
			t.Fatalf("public Child(%d) error: %v", index, err)
		}
		privChild, err := master.Child(index)
		if err != nil {
			t.Fatalf("private Child(%d) error: %v", index, err)
		}
		fromPriv := privChild.Neuter()

		if fromPub.String(MainNet) != fromPriv.String(MainNet) {
			t.Errorf("index %d: CKDpub %s != neutered CKDpriv %s",
				index, fromPub.String(MainNet), fromPriv.String(MainNet))
		}
	}
}

func TestFingerprint_PublicMatchesPrivate(t *testing.T) {
	master, err := NewMaster(vector1Seed(t))
	if err != nil {
		t.Fatalf("NewMaster() error: %v", err)
	}

	priv := master.Fingerprint()
	if priv == [4]byte{} {
		t.Fatal("fingerprint should never be zero for a valid key")
	}
	if pub := master.Neuter().Fingerprint(); pub != priv {
		t.Errorf("public fingerprint %x != private fingerprint %x", pub, priv)
	}
}

func TestPrivateKey_PublicOnly(t *testing.T) {
	master, err := NewMaster(vector1Seed(t))
	if err != nil {
		t.Fatalf("NewMaster() error: %v", err)
	}
	pub := master.Neuter()

	if _, err := pub.PrivateKey(); !errors.Is(err, ErrNotPrivate) {
		t.Errorf("PrivateKey() on public key error = %v, want ErrNotPrivate", err)
	}
}

// TestCrossCheck_GoBIP32 derives the same tree with the independent
// tyler-smith/go-bip32 implementation and compares serialized keys.
func TestCrossCheck_GoBIP32(t *testing.T) {
	seed := make([]byte, 64)
	for i := range seed {
		seed[i] = byte(i * 7)
	}

	ours, err := NewMaster(seed)
	if err != nil {
		t.Fatalf("NewMaster() error: %v", err)
	}
	theirs, err := bip32.NewMasterKey(seed)
	if err != nil {
		t.Fatalf("bip32.NewMasterKey() error: %v", err)
	}

	if got, want := ours.String(MainNet), theirs.B58Serialize(); got != want {
		t.Fatalf("master xprv = %s, go-bip32 = %s", got, want)
	}

	indices := []uint32{bip32.FirstHardenedChild + 44, bip32.FirstHardenedChild, 0, 3}
	for _, index := range indices {
		ourChild, err := ours.Child(index)
		if err != nil {
			t.Fatalf("Child(%d) error: %v", index, err)
		}
		theirChild, err := theirs.NewChildKey(index)
		if err != nil {
			t.Fatalf("bip32.NewChildKey(%d) error: %v", index, err)
		}
		if got, want := ourChild.String(MainNet), theirChild.B58Serialize(); got != want {
			t.Errorf("child %d xprv = %s, go-bip32 = %s", index, got, want)
		}
		ours, theirs = ourChild, theirChild
	}
}

func TestZero_WipesKeyMaterial(t *testing.T) {
	master, err := NewMaster(vector1Seed(t))
	if err != nil {
		t.Fatalf("NewMaster() error: %v", err)
	}
	priv, err := master.PrivateKey()
	if err != nil {
		t.Fatalf("PrivateKey() error: %v", err)
	}
	if bytes.Equal(priv, make([]byte, 32)) {
		t.Fatal("private key should be non-zero before wipe")
	}

	master.Zero()
	if master.key != [33]byte{} || master.chainCode != [32]byte{} {
		t.Error("Zero() should wipe key material and chain code")
	}
	if master.IsPrivate() {
		t.Error("Zero() should drop private flag")
	}
}
