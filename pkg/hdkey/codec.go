package hdkey

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/bitcoin-pocx/pocx-wallet/pkg/crypto"
)

// SerializedLen is the length of a serialized extended key before the
// base58check envelope is applied.
const SerializedLen = 78

// Network selects the extended-key version bytes.
type Network int

const (
	// MainNet uses the xprv/xpub version bytes.
	MainNet Network = iota
	// TestNet uses the tprv/tpub version bytes (shared by regtest).
	TestNet
)

// Extended-key version bytes. These are published cross-implementation
// constants and must match byte-for-byte.
var (
	mainNetPriv = [4]byte{0x04, 0x88, 0xad, 0xe4} // xprv
	mainNetPub  = [4]byte{0x04, 0x88, 0xb2, 0x1e} // xpub
	testNetPriv = [4]byte{0x04, 0x35, 0x83, 0x94} // tprv
	testNetPub  = [4]byte{0x04, 0x35, 0x87, 0xcf} // tpub
)

var (
	// ErrInvalidVersionByte is returned when a decoded extended key
	// carries unknown version bytes.
	ErrInvalidVersionByte = errors.New("hdkey: unknown version bytes")

	// ErrChecksumMismatch is returned when a base58check envelope fails
	// its checksum.
	ErrChecksumMismatch = errors.New("hdkey: checksum mismatch")
)

func versionBytes(network Network, private bool) [4]byte {
	switch {
	case network == MainNet && private:
		return mainNetPriv
	case network == MainNet:
		return mainNetPub
	case private:
		return testNetPriv
	default:
		return testNetPub
	}
}

// Serialize renders the key into the standard 78-byte layout:
// version(4) | depth(1) | parentFP(4) | childIndex(4) | chainCode(32)
// | keyMaterial(33), all multi-byte fields big-endian.
func (k *ExtendedKey) Serialize(network Network) [SerializedLen]byte {
	var out [SerializedLen]byte
	version := versionBytes(network, k.isPrivate)
	copy(out[0:4], version[:])
	out[4] = k.depth
	copy(out[5:9], k.parentFP[:])
	binary.BigEndian.PutUint32(out[9:13], k.childIndex)
	copy(out[13:45], k.chainCode[:])
	copy(out[45:78], k.key[:])
	return out
}

// String encodes the serialized key with the base58check envelope:
// base58(raw || first 4 bytes of SHA256d(raw)).
func (k *ExtendedKey) String(network Network) string {
	raw := k.Serialize(network)
	chk := crypto.Checksum4(raw[:])
	payload := make([]byte, 0, SerializedLen+4)
	payload = append(payload, raw[:]...)
	payload = append(payload, chk[:]...)
	s := base58.Encode(payload)
	zeroBytes(payload)
	zeroBytes(raw[:])
	return s
}

// Parse decodes a base58check extended-key string, verifying the
// checksum and version bytes, and returns the key with its network.
func Parse(s string) (*ExtendedKey, Network, error) {
	decoded := base58.Decode(s)
	if len(decoded) != SerializedLen+4 {
		return nil, 0, fmt.Errorf("hdkey: decoded length %d, want %d", len(decoded), SerializedLen+4)
	}
	defer zeroBytes(decoded)

	raw, chk := decoded[:SerializedLen], decoded[SerializedLen:]
	want := crypto.Checksum4(raw)
	if !bytes.Equal(chk, want[:]) {
		return nil, 0, ErrChecksumMismatch
	}

	var network Network
	var private bool
	var version [4]byte
	copy(version[:], raw[0:4])
	switch version {
	case mainNetPriv:
		network, private = MainNet, true
	case mainNetPub:
		network, private = MainNet, false
	case testNetPriv:
		network, private = TestNet, true
	case testNetPub:
		network, private = TestNet, false
	default:
		return nil, 0, fmt.Errorf("%w: %x", ErrInvalidVersionByte, version)
	}

	k := &ExtendedKey{
		depth:      raw[4],
		childIndex: binary.BigEndian.Uint32(raw[9:13]),
		isPrivate:  private,
	}
	copy(k.parentFP[:], raw[5:9])
	copy(k.chainCode[:], raw[13:45])
	copy(k.key[:], raw[45:78])

	if private && raw[45] != 0x00 {
		return nil, 0, fmt.Errorf("hdkey: private key material missing zero pad byte")
	}
	if !private {
		if _, err := secp256k1.ParsePubKey(k.key[:]); err != nil {
			return nil, 0, fmt.Errorf("hdkey: invalid public key material: %w", err)
		}
	}
	return k, network, nil
}
