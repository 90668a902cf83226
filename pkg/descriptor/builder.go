package descriptor

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"

	"github.com/bitcoin-pocx/pocx-wallet/pkg/hdkey"
)

// ScriptType identifies one of the supported output script templates.
type ScriptType string

const (
	// ScriptLegacy is pay-to-pubkey-hash (BIP-44).
	ScriptLegacy ScriptType = "pkh"
	// ScriptNestedSegwit is p2wpkh nested in p2sh (BIP-49).
	ScriptNestedSegwit ScriptType = "sh_wpkh"
	// ScriptNativeSegwit is native p2wpkh (BIP-84).
	ScriptNativeSegwit ScriptType = "wpkh"
	// ScriptTaproot is p2tr (BIP-86).
	ScriptTaproot ScriptType = "tr"
)

// Branch indices within an account.
const (
	BranchReceive uint32 = 0
	BranchChange  uint32 = 1
)

// allScriptTypes fixes the generation order so descriptor sets are
// byte-identical across calls.
var allScriptTypes = []ScriptType{ScriptLegacy, ScriptNestedSegwit, ScriptNativeSegwit, ScriptTaproot}

// Purpose returns the hardened BIP-43 purpose index for the script type.
func (s ScriptType) Purpose() (uint32, error) {
	switch s {
	case ScriptLegacy:
		return 44, nil
	case ScriptNestedSegwit:
		return 49, nil
	case ScriptNativeSegwit:
		return 84, nil
	case ScriptTaproot:
		return 86, nil
	default:
		return 0, fmt.Errorf("descriptor: unknown script type %q", string(s))
	}
}

// ErrInvalidMnemonic is returned by Generate before any key material is
// touched when the recovery phrase fails BIP-39 validation.
var ErrInvalidMnemonic = errors.New("descriptor: invalid mnemonic")

// Options configures descriptor generation. The zero value is not
// useful; start from DefaultOptions.
type Options struct {
	// Passphrase is the optional BIP-39 passphrase. Different
	// passphrases yield unrelated wallets from the same phrase.
	Passphrase string

	// Testnet selects testnet version bytes and coin type 1.
	Testnet bool

	// Account is the hardened account index.
	Account uint32

	// RangeStart and RangeEnd bound the address range the node is asked
	// to watch.
	RangeStart, RangeEnd uint32

	// Per-script-type switches.
	Legacy, NestedSegwit, NativeSegwit, Taproot bool

	// Rescan imports with timestamp 0 so the node rescans the whole
	// chain, instead of the "now" birth time used for fresh wallets.
	Rescan bool
}

// DefaultOptions returns the documented defaults: testnet, account 0,
// range 0-999, every script type enabled.
func DefaultOptions() Options {
	return Options{
		Testnet:      true,
		RangeEnd:     999,
		Legacy:       true,
		NestedSegwit: true,
		NativeSegwit: true,
		Taproot:      true,
	}
}

func (o Options) enabled(s ScriptType) bool {
	switch s {
	case ScriptLegacy:
		return o.Legacy
	case ScriptNestedSegwit:
		return o.NestedSegwit
	case ScriptNativeSegwit:
		return o.NativeSegwit
	case ScriptTaproot:
		return o.Taproot
	default:
		return false
	}
}

// Info is one checksummed descriptor, field-mapped to the node's
// importdescriptors request entries.
type Info struct {
	ScriptType ScriptType `json:"script_type"`
	Path       string     `json:"path"`
	Descriptor string     `json:"desc"`
	Active     bool       `json:"active"`
	Internal   bool       `json:"internal"`
	Range      [2]uint32  `json:"range"`
	// Timestamp is a unix time, or the literal string "now".
	Timestamp any `json:"timestamp"`
}

// WalletDescriptors is the full importable descriptor set for one
// wallet, tagged with the master key fingerprint.
type WalletDescriptors struct {
	Fingerprint string `json:"fingerprint"`
	Descriptors []Info `json:"descriptors"`
}

// NormalizeMnemonic lowercases a phrase and collapses all whitespace
// to single spaces, the canonical BIP-39 form.
func NormalizeMnemonic(mnemonic string) string {
	return strings.Join(strings.Fields(strings.ToLower(mnemonic)), " ")
}

// BuildTemplate renders the raw (un-checksummed) descriptor for one
// script type and branch: template(KEY) with
// KEY = [origin]extendedKey/branch/*.
func BuildTemplate(scriptType ScriptType, keyOrigin, extendedKey string, branch uint32) (string, error) {
	key := fmt.Sprintf("%s%s/%d/*", keyOrigin, extendedKey, branch)
	switch scriptType {
	case ScriptLegacy:
		return "pkh(" + key + ")", nil
	case ScriptNestedSegwit:
		return "sh(wpkh(" + key + "))", nil
	case ScriptNativeSegwit:
		return "wpkh(" + key + ")", nil
	case ScriptTaproot:
		return "tr(" + key + ")", nil
	default:
		return "", fmt.Errorf("descriptor: unknown script type %q", string(scriptType))
	}
}

// Generate derives the complete descriptor set for a recovery phrase:
// one receive and one change descriptor per enabled script type, each
// embedding the account-level private extended key and ending in its
// BIP-380 checksum.
//
// The result is deterministic: identical inputs produce byte-identical
// descriptor strings and the same fingerprint. On any failure nothing
// is returned; partial sets are never produced.
func Generate(mnemonic string, opts Options) (*WalletDescriptors, error) {
	mnemonic = NormalizeMnemonic(mnemonic)
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}

	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, opts.Passphrase)
	if err != nil {
		return nil, ErrInvalidMnemonic
	}
	defer zeroBytes(seed)

	master, err := hdkey.NewMaster(seed)
	if err != nil {
		return nil, fmt.Errorf("descriptor: master key: %w", err)
	}
	defer master.Zero()

	fp := master.Fingerprint()
	fingerprint := hex.EncodeToString(fp[:])

	network := hdkey.MainNet
	coinType := uint32(0)
	if opts.Testnet {
		network = hdkey.TestNet
		coinType = 1
	}

	var timestamp any = "now"
	if opts.Rescan {
		timestamp = uint32(0)
	}

	out := &WalletDescriptors{Fingerprint: fingerprint}
	for _, scriptType := range allScriptTypes {
		if !opts.enabled(scriptType) {
			continue
		}
		purpose, err := scriptType.Purpose()
		if err != nil {
			return nil, err
		}

		path := hdkey.Path{
			hdkey.HardenedKeyStart + purpose,
			hdkey.HardenedKeyStart + coinType,
			hdkey.HardenedKeyStart + opts.Account,
		}
		account, err := master.Derive(path)
		if err != nil {
			return nil, fmt.Errorf("descriptor: derive %s: %w", path, err)
		}
		keyStr := account.String(network)
		account.Zero()

		origin := "[" + fingerprint + "/" + path.Origin() + "]"
		for _, branch := range []uint32{BranchReceive, BranchChange} {
			body, err := BuildTemplate(scriptType, origin, keyStr, branch)
			if err != nil {
				return nil, err
			}
			desc, err := AddChecksum(body)
			if err != nil {
				return nil, err
			}
			out.Descriptors = append(out.Descriptors, Info{
				ScriptType: scriptType,
				Path:       path.String(),
				Descriptor: desc,
				Active:     true,
				Internal:   branch == BranchChange,
				Range:      [2]uint32{opts.RangeStart, opts.RangeEnd},
				Timestamp:  timestamp,
			})
		}
	}
	return out, nil
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
