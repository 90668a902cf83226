package descriptor

import (
	"errors"
	"strings"
	"testing"
)

func TestChecksum_KnownVectors(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		// The BIP-380 example.
		{"raw(deadbeef)", "89f8spxm"},
		// The descriptor from Bitcoin Core's getdescriptorinfo help.
		{"wpkh([d34db33f/84h/0h/0h]0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798)", "cjjspncu"},
	}

	for _, tt := range tests {
		got, err := Checksum(tt.desc)
		if err != nil {
			t.Fatalf("Checksum(%q) error: %v", tt.desc, err)
		}
		if got != tt.want {
			t.Errorf("Checksum(%q) = %s, want %s", tt.desc, got, tt.want)
		}
	}
}

func TestAddChecksum(t *testing.T) {
	got, err := AddChecksum("raw(deadbeef)")
	if err != nil {
		t.Fatalf("AddChecksum error: %v", err)
	}
	if got != "raw(deadbeef)#89f8spxm" {
		t.Errorf("AddChecksum = %s, want raw(deadbeef)#89f8spxm", got)
	}
}

func TestAddChecksum_AlreadyChecksummed(t *testing.T) {
	const desc = "raw(deadbeef)#89f8spxm"
	got, err := AddChecksum(desc)
	if err != nil {
		t.Fatalf("AddChecksum error: %v", err)
	}
	if got != desc {
		t.Errorf("AddChecksum on checksummed input = %s, want unchanged", got)
	}
}

func TestVerifyChecksum_RoundTrip(t *testing.T) {
	descs := []string{
		"raw(deadbeef)",
		"pkh(tpubD6NzVbkrYhZ4XgiXtGrdW5XDAPFCL9h7we1vwNCpn8tGbBcgfVYjXyhWo4E1xkh56hjod1RhGjxbaTLV3X4FyWuejifB9jusQ46QzG87VKp/0/*)",
		"wpkh([d34db33f/84'/1'/0']0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798)",
		"sh(wpkh(0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798))",
	}

	for _, desc := range descs {
		checksummed, err := AddChecksum(desc)
		if err != nil {
			t.Fatalf("AddChecksum(%q) error: %v", desc, err)
		}
		if !VerifyChecksum(checksummed) {
			t.Errorf("VerifyChecksum(AddChecksum(%q)) = false", desc)
		}
	}
}

func TestVerifyChecksum_DetectsSingleCharacterFlips(t *testing.T) {
	const desc = "raw(deadbeef)#89f8spxm"

	for i := 0; i < len(desc); i++ {
		if desc[i] == '#' {
			continue
		}
		// Replace with a different in-alphabet character.
		replacement := byte('a')
		if desc[i] == replacement {
			replacement = 'b'
		}
		mutated := desc[:i] + string(replacement) + desc[i+1:]
		if VerifyChecksum(mutated) {
			t.Errorf("flip at %d (%q) not detected", i, mutated)
		}
	}
}

func TestChecksum_InvalidCharacter(t *testing.T) {
	tests := []string{
		"wpkh(\tkey)", // control character
		"pkh(key)é",   // non-ASCII
	}
	for _, desc := range tests {
		if _, err := Checksum(desc); !errors.Is(err, ErrInvalidCharacter) {
			t.Errorf("Checksum(%q) error = %v, want ErrInvalidCharacter", desc, err)
		}
	}
}

func TestChecksum_FullInputAlphabet(t *testing.T) {
	// Every character of the input alphabet must be accepted.
	chk, err := Checksum(inputCharset)
	if err != nil {
		t.Fatalf("Checksum(inputCharset) error: %v", err)
	}
	if len(chk) != 8 {
		t.Fatalf("checksum length = %d, want 8", len(chk))
	}
	for _, c := range chk {
		if !strings.ContainsRune(checksumCharset, c) {
			t.Errorf("checksum character %q outside checksum alphabet", c)
		}
	}
}

func TestVerifyChecksum_Malformed(t *testing.T) {
	tests := []string{
		"raw(deadbeef)",          // no checksum
		"raw(deadbeef)#89f8spx",  // short checksum
		"raw(deadbeef)#89f8spxmm", // long checksum
		"",
	}
	for _, desc := range tests {
		if VerifyChecksum(desc) {
			t.Errorf("VerifyChecksum(%q) = true, want false", desc)
		}
	}
}
