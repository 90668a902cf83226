// Package hdkey implements BIP-32 hierarchical deterministic keys:
// master key construction from a seed, hardened and non-hardened child
// derivation, fingerprints, and the 78-byte extended-key serialization
// with its base58check string form.
//
// Elliptic-curve arithmetic is delegated to decred's secp256k1 library;
// this package owns only the byte layouts and derivation control flow.
package hdkey

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/bitcoin-pocx/pocx-wallet/pkg/crypto"
)

const (
	// HardenedKeyStart is the first hardened child index (2^31).
	HardenedKeyStart uint32 = 0x80000000

	// ChainCodeLen is the length of a chain code in bytes.
	ChainCodeLen = 32

	// keyMaterialLen is the length of the key material field: a
	// compressed public key, or a private key behind a zero pad byte.
	keyMaterialLen = 33

	// minSeedLen and maxSeedLen bound the master seed length (BIP-32
	// allows 128 to 512 bits; BIP-39 seeds are always 64 bytes).
	minSeedLen = 16
	maxSeedLen = 64
)

// masterHMACKey is the BIP-32 domain-separation constant for master
// key construction.
var masterHMACKey = []byte("Bitcoin seed")

var (
	// ErrInvalidSeed is returned when a seed has an invalid length or
	// produces a master key outside the valid secp256k1 scalar range.
	ErrInvalidSeed = errors.New("hdkey: invalid seed")

	// ErrDerivationInvalid is returned when a child derivation yields a
	// key outside the valid scalar range or the point at infinity.
	// Per BIP-32 the caller may retry with the next index; in practice
	// this path is unreachable for random seeds.
	ErrDerivationInvalid = errors.New("hdkey: derived key invalid")

	// ErrHardenedFromPublic is returned when hardened derivation is
	// attempted on a public-only key.
	ErrHardenedFromPublic = errors.New("hdkey: hardened derivation from public key")

	// ErrNotPrivate is returned when private key material is requested
	// from a public-only key.
	ErrNotPrivate = errors.New("hdkey: key is not private")
)

// ExtendedKey is a BIP-32 extended key: key material plus the chain
// code and derivation metadata needed to derive descendants. It is a
// value type; copies are independent and Zero wipes the key material.
type ExtendedKey struct {
	depth      uint8
	parentFP   [4]byte
	childIndex uint32
	chainCode  [ChainCodeLen]byte
	key        [keyMaterialLen]byte // 0x00 || priv, or compressed pub
	isPrivate  bool
}

// NewMaster derives the master extended key from a seed, normally the
// 64-byte output of BIP-39 seed stretching.
func NewMaster(seed []byte) (*ExtendedKey, error) {
	if len(seed) < minSeedLen || len(seed) > maxSeedLen {
		return nil, fmt.Errorf("%w: seed must be %d-%d bytes, got %d",
			ErrInvalidSeed, minSeedLen, maxSeedLen, len(seed))
	}

	mac := hmac.New(sha512.New, masterHMACKey)
	mac.Write(seed)
	sum := mac.Sum(nil)
	defer zeroBytes(sum)

	var s secp256k1.ModNScalar
	if overflow := s.SetByteSlice(sum[:32]); overflow || s.IsZero() {
		s.Zero()
		return nil, ErrInvalidSeed
	}
	s.Zero()

	k := &ExtendedKey{isPrivate: true}
	copy(k.key[1:], sum[:32])
	copy(k.chainCode[:], sum[32:])
	return k, nil
}

// Child derives the child key at the given index. Indices at or above
// HardenedKeyStart are hardened and require a private parent.
func (k *ExtendedKey) Child(index uint32) (*ExtendedKey, error) {
	hardened := index >= HardenedKeyStart
	if hardened && !k.isPrivate {
		return nil, ErrHardenedFromPublic
	}
	if k.depth == 0xff {
		return nil, fmt.Errorf("hdkey: derivation depth exhausted")
	}

	// Hardened: 0x00 || priv || ser32(index).
	// Normal:   compressedPub || ser32(index).
	data := make([]byte, 0, keyMaterialLen+4)
	if hardened {
		data = append(data, k.key[:]...)
	} else {
		data = append(data, k.publicKeyBytes()...)
	}
	data = binary.BigEndian.AppendUint32(data, index)
	defer zeroBytes(data)

	mac := hmac.New(sha512.New, k.chainCode[:])
	mac.Write(data)
	sum := mac.Sum(nil)
	defer zeroBytes(sum)

	child := &ExtendedKey{
		depth:      k.depth + 1,
		parentFP:   k.Fingerprint(),
		childIndex: index,
		isPrivate:  k.isPrivate,
	}
	copy(child.chainCode[:], sum[32:])

	var il secp256k1.ModNScalar
	if overflow := il.SetByteSlice(sum[:32]); overflow {
		return nil, ErrDerivationInvalid
	}
	defer il.Zero()

	if k.isPrivate {
		// childKey = IL + parentKey (mod N).
		var parent secp256k1.ModNScalar
		parent.SetByteSlice(k.key[1:])
		il.Add(&parent)
		parent.Zero()
		if il.IsZero() {
			return nil, ErrDerivationInvalid
		}
		raw := il.Bytes()
		copy(child.key[1:], raw[:])
		zeroBytes(raw[:])
		return child, nil
	}

	// childPoint = IL*G + parentPoint.
	parentPub, err := secp256k1.ParsePubKey(k.key[:])
	if err != nil {
		return nil, fmt.Errorf("hdkey: parse parent public key: %w", err)
	}
	var ilPoint, parentPoint, childPoint secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&il, &ilPoint)
	parentPub.AsJacobian(&parentPoint)
	secp256k1.AddNonConst(&ilPoint, &parentPoint, &childPoint)
	if childPoint.Z.IsZero() {
		return nil, ErrDerivationInvalid
	}
	childPoint.ToAffine()
	copy(child.key[:], secp256k1.NewPublicKey(&childPoint.X, &childPoint.Y).SerializeCompressed())
	return child, nil
}

// Derive applies Child along every element of the path in order.
func (k *ExtendedKey) Derive(path Path) (*ExtendedKey, error) {
	current := k
	for i, index := range path {
		child, err := current.Child(index)
		if err != nil {
			if current != k {
				current.Zero()
			}
			return nil, fmt.Errorf("derive %s (step %d): %w", path, i, err)
		}
		if current != k {
			current.Zero()
		}
		current = child
	}
	if current == k {
		// Empty path: return an independent copy so Zero on the result
		// cannot wipe the receiver.
		cp := *k
		current = &cp
	}
	return current, nil
}

// Neuter returns the public-only counterpart of this key. Neutering a
// public key returns a copy.
func (k *ExtendedKey) Neuter() *ExtendedKey {
	n := &ExtendedKey{
		depth:      k.depth,
		parentFP:   k.parentFP,
		childIndex: k.childIndex,
		isPrivate:  false,
	}
	copy(n.chainCode[:], k.chainCode[:])
	copy(n.key[:], k.publicKeyBytes())
	return n
}

// Fingerprint returns the first 4 bytes of HASH160 of the compressed
// public key.
func (k *ExtendedKey) Fingerprint() [4]byte {
	var fp [4]byte
	h := crypto.Hash160(k.publicKeyBytes())
	copy(fp[:], h[:4])
	return fp
}

// Depth returns the derivation depth, 0 for the master key.
func (k *ExtendedKey) Depth() uint8 { return k.depth }

// ParentFingerprint returns the fingerprint of the parent key, zero
// for the master key.
func (k *ExtendedKey) ParentFingerprint() [4]byte { return k.parentFP }

// ChildIndex returns the index this key was derived at.
func (k *ExtendedKey) ChildIndex() uint32 { return k.childIndex }

// IsPrivate reports whether the key carries private key material.
func (k *ExtendedKey) IsPrivate() bool { return k.isPrivate }

// PublicKey returns the compressed 33-byte public key.
func (k *ExtendedKey) PublicKey() []byte {
	return k.publicKeyBytes()
}

// PrivateKey returns the raw 32-byte private key, or ErrNotPrivate.
// The caller owns the returned slice and should wipe it after use.
func (k *ExtendedKey) PrivateKey() ([]byte, error) {
	if !k.isPrivate {
		return nil, ErrNotPrivate
	}
	out := make([]byte, 32)
	copy(out, k.key[1:])
	return out, nil
}

// Zero wipes the chain code and key material. The key must not be
// used afterwards.
func (k *ExtendedKey) Zero() {
	zeroBytes(k.chainCode[:])
	zeroBytes(k.key[:])
	k.isPrivate = false
}

// publicKeyBytes cannot fail: every constructor (NewMaster, Child, Parse)
// has already range-checked the scalar before the key exists.
func (k *ExtendedKey) publicKeyBytes() []byte {
	if !k.isPrivate {
		out := make([]byte, keyMaterialLen)
		copy(out, k.key[:])
		return out
	}
	priv := secp256k1.PrivKeyFromBytes(k.key[1:])
	pub := priv.PubKey().SerializeCompressed()
	priv.Zero()
	return pub
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
