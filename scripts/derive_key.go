// derive_key.go prints the master fingerprint and account extended keys
// for a mnemonic file. Development helper for cross-checking derivation
// against other wallet implementations.
// Usage: go run scripts/derive_key.go <mnemonic-file> [passphrase]
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/bitcoin-pocx/pocx-wallet/internal/wallet"
	"github.com/bitcoin-pocx/pocx-wallet/pkg/hdkey"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: derive_key <mnemonic-file> [passphrase]")
		os.Exit(1)
	}
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	passphrase := ""
	if len(os.Args) > 2 {
		passphrase = os.Args[2]
	}

	seed, err := wallet.SeedFromMnemonic(strings.TrimSpace(string(data)), passphrase)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer wallet.ZeroSeed(seed)

	master, err := hdkey.NewMaster(seed)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer master.Zero()

	fp := master.Fingerprint()
	fmt.Printf("fingerprint=%s\n", hex.EncodeToString(fp[:]))

	for _, purpose := range []uint32{44, 49, 84, 86} {
		pathStr := fmt.Sprintf("m/%d'/1'/0'", purpose)
		path, err := hdkey.ParsePath(pathStr)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		account, err := master.Derive(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		pub := account.Neuter()
		account.Zero()
		fmt.Printf("%s tpub=%s\n", pathStr, pub.String(hdkey.TestNet))
	}
}
