package hdkey

import (
	"errors"
	"testing"

	"github.com/btcsuite/btcd/btcutil/base58"

	"github.com/bitcoin-pocx/pocx-wallet/pkg/crypto"
)

// reencode applies a fresh base58check envelope to raw serialized
// bytes, so tests can corrupt fields without tripping the checksum.
func reencode(raw [SerializedLen]byte) string {
	chk := crypto.Checksum4(raw[:])
	return base58.Encode(append(raw[:], chk[:]...))
}

func testKey(t *testing.T) *ExtendedKey {
	t.Helper()
	master, err := NewMaster(vector1Seed(t))
	if err != nil {
		t.Fatalf("NewMaster() error: %v", err)
	}
	path, err := ParsePath("m/84'/1'/0'")
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	key, err := master.Derive(path)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	return key
}

func TestSerialize_Layout(t *testing.T) {
	key := testKey(t)
	raw := key.Serialize(TestNet)

	if got := raw[0:4]; [4]byte(got) != testNetPriv {
		t.Errorf("version bytes = %x, want %x (tprv)", got, testNetPriv)
	}
	if raw[4] != key.Depth() {
		t.Errorf("depth byte = %d, want %d", raw[4], key.Depth())
	}
	if raw[45] != 0x00 {
		t.Errorf("private key pad byte = %#x, want 0x00", raw[45])
	}
}

func TestParse_RoundTrip(t *testing.T) {
	key := testKey(t)

	for _, network := range []Network{MainNet, TestNet} {
		encoded := key.String(network)
		decoded, gotNet, err := Parse(encoded)
		if err != nil {
			t.Fatalf("Parse(%s) error: %v", encoded, err)
		}
		if gotNet != network {
			t.Errorf("network = %v, want %v", gotNet, network)
		}
		if decoded.Depth() != key.Depth() {
			t.Errorf("depth = %d, want %d", decoded.Depth(), key.Depth())
		}
		if decoded.ChildIndex() != key.ChildIndex() {
			t.Errorf("child index = %d, want %d", decoded.ChildIndex(), key.ChildIndex())
		}
		if decoded.ParentFingerprint() != key.ParentFingerprint() {
			t.Error("parent fingerprint not preserved")
		}
		if decoded.chainCode != key.chainCode {
			t.Error("chain code not preserved")
		}
		if decoded.key != key.key {
			t.Error("key material not preserved")
		}
		if decoded.String(network) != encoded {
			t.Error("re-encoding should reproduce the input")
		}
	}
}

func TestParse_PublicRoundTrip(t *testing.T) {
	pub := testKey(t).Neuter()

	encoded := pub.String(TestNet)
	if encoded[:4] != "tpub" {
		t.Errorf("testnet public key prefix = %q, want tpub", encoded[:4])
	}
	decoded, _, err := Parse(encoded)
	if err != nil {
		t.Fatalf("Parse(%s) error: %v", encoded, err)
	}
	if decoded.IsPrivate() {
		t.Error("decoded key should be public")
	}
}

func TestParse_ChecksumMismatch(t *testing.T) {
	encoded := testKey(t).String(TestNet)

	// Flip the final character to corrupt the checksum.
	last := encoded[len(encoded)-1]
	replacement := byte('2')
	if last == replacement {
		replacement = '3'
	}
	corrupted := encoded[:len(encoded)-1] + string(replacement)

	if _, _, err := Parse(corrupted); !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("Parse(corrupted) error = %v, want ErrChecksumMismatch", err)
	}
}

func TestParse_InvalidVersionByte(t *testing.T) {
	key := testKey(t)
	raw := key.Serialize(TestNet)
	raw[0] = 0xff

	// Re-apply a valid checksum so only the version bytes are wrong.
	corrupted := reencode(raw)
	if _, _, err := Parse(corrupted); !errors.Is(err, ErrInvalidVersionByte) {
		t.Errorf("Parse error = %v, want ErrInvalidVersionByte", err)
	}
}

func TestParse_Garbage(t *testing.T) {
	for _, input := range []string{"", "notakey", "tprv"} {
		if _, _, err := Parse(input); err == nil {
			t.Errorf("Parse(%q) should fail", input)
		}
	}
}
