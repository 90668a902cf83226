// Package descriptor builds Bitcoin Core output descriptors and
// implements the BIP-380 descriptor checksum.
package descriptor

import (
	"errors"
	"fmt"
	"strings"
)

// inputCharset is the BIP-380 input alphabet. The position of each
// character encodes a 5-bit value (pos & 31) and a 2-bit group
// (pos >> 5) that both feed the checksum.
const inputCharset = "0123456789()[],'/*abcdefgh@:$%{}" +
	"IJKLMNOPQRSTUVWXYZ&+-.;<=>?!^_|~" +
	"ijklmnopqrstuvwxyzABCDEFGH`#\"\\ "

// checksumCharset is the alphabet the 8 checksum characters are drawn
// from (shared with bech32).
const checksumCharset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

// inputCharsetRev maps input characters to their charset position.
// -1 = not part of the descriptor alphabet.
var inputCharsetRev [128]int8

func init() {
	for i := range inputCharsetRev {
		inputCharsetRev[i] = -1
	}
	for i, c := range inputCharset {
		inputCharsetRev[c] = int8(i)
	}
}

// ErrInvalidCharacter is returned when a descriptor contains a
// character outside the BIP-380 input alphabet. Such characters must
// be rejected rather than skipped: skipping would produce a checksum
// that still looks valid.
var ErrInvalidCharacter = errors.New("descriptor: invalid character")

// polymod folds one 5-bit value into the 35-bit checksum residue.
// This is a GF(2) linear feedback step: the five generator constants
// are selected by the residue's top bits before shifting.
func polymod(c uint64, val uint64) uint64 {
	c0 := c >> 35
	c = (c&0x7ffffffff)<<5 ^ val
	if c0&1 != 0 {
		c ^= 0xf5dee51989
	}
	if c0&2 != 0 {
		c ^= 0xa9fdca3312
	}
	if c0&4 != 0 {
		c ^= 0x1bab10e32d
	}
	if c0&8 != 0 {
		c ^= 0x3706b1677a
	}
	if c0&16 != 0 {
		c ^= 0x644d626ffd
	}
	return c
}

// Checksum computes the 8-character BIP-380 checksum for a descriptor
// body (everything before the '#').
func Checksum(desc string) (string, error) {
	c := uint64(1)
	cls := uint64(0)
	clsCount := 0

	for i, ch := range desc {
		if ch > 127 || inputCharsetRev[ch] < 0 {
			return "", fmt.Errorf("%w: %q at position %d", ErrInvalidCharacter, ch, i)
		}
		pos := uint64(inputCharsetRev[ch])
		c = polymod(c, pos&31)
		cls = cls*3 + (pos >> 5)
		clsCount++
		if clsCount == 3 {
			c = polymod(c, cls)
			cls = 0
			clsCount = 0
		}
	}
	if clsCount > 0 {
		c = polymod(c, cls)
	}
	for i := 0; i < 8; i++ {
		c = polymod(c, 0)
	}
	c ^= 1

	var sb strings.Builder
	sb.Grow(8)
	for i := 0; i < 8; i++ {
		sb.WriteByte(checksumCharset[(c>>(5*(7-i)))&31])
	}
	return sb.String(), nil
}

// AddChecksum appends "#checksum" to a descriptor. Descriptors that
// already carry a '#' are returned unchanged.
func AddChecksum(desc string) (string, error) {
	if strings.ContainsRune(desc, '#') {
		return desc, nil
	}
	chk, err := Checksum(desc)
	if err != nil {
		return "", err
	}
	return desc + "#" + chk, nil
}

// VerifyChecksum reports whether a "body#checksum" descriptor carries
// the correct checksum for its body.
func VerifyChecksum(desc string) bool {
	body, chk, found := strings.Cut(desc, "#")
	if !found || len(chk) != 8 {
		return false
	}
	want, err := Checksum(body)
	if err != nil {
		return false
	}
	return chk == want
}
