// pocx-wallet is a command-line descriptor wallet for Bitcoin-PoCX nodes.
//
// Wallets are derived locally from a mnemonic and handed to the node as
// private-key descriptors, so the node can sign. The mnemonic itself is
// sealed into the local keystore and never sent anywhere.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/bitcoin-pocx/pocx-wallet/config"
	"github.com/bitcoin-pocx/pocx-wallet/internal/log"
	"github.com/bitcoin-pocx/pocx-wallet/internal/rpcclient"
	"github.com/bitcoin-pocx/pocx-wallet/internal/wallet"
	"github.com/bitcoin-pocx/pocx-wallet/pkg/descriptor"
	"golang.org/x/term"
)

func main() {
	cfg, flags, err := config.Load()
	if err != nil {
		fatal("%v", err)
	}
	if err := log.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		fatal("init logging: %v", err)
	}

	if len(flags.Args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no command given (try --help)")
		os.Exit(1)
	}

	cmd := flags.Args[0]
	cmdArgs := flags.Args[1:]

	switch cmd {
	case "generate":
		cmdGenerate(cmdArgs)
	case "validate":
		cmdValidate()
	case "fingerprint":
		cmdFingerprint(cfg)
	case "descriptors":
		cmdDescriptors(cfg, cmdArgs)
	case "import":
		cmdImport(cfg, cmdArgs)
	case "wallet":
		cmdWalletInfo(cfg, cmdArgs)
	case "list":
		cmdList(cfg)
	case "status":
		cmdStatus(cfg)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s (try --help)\n", cmd)
		os.Exit(1)
	}
}

// optionsFromConfig maps the resolved config onto descriptor options.
func optionsFromConfig(cfg *config.Config, passphrase string) descriptor.Options {
	return descriptor.Options{
		Passphrase:   passphrase,
		Testnet:      cfg.Network != config.Mainnet,
		Account:      cfg.Wallet.Account,
		RangeStart:   cfg.Wallet.RangeStart,
		RangeEnd:     cfg.Wallet.RangeEnd,
		Legacy:       cfg.Wallet.Legacy,
		NestedSegwit: cfg.Wallet.NestedSegwit,
		NativeSegwit: cfg.Wallet.NativeSegwit,
		Taproot:      cfg.Wallet.Taproot,
		Rescan:       cfg.Wallet.Rescan,
	}
}

// ── generate ────────────────────────────────────────────────────────────

func cmdGenerate(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	words := fs.Int("words", 24, "Mnemonic length: 12 or 24 words")
	fs.Parse(args)

	strength := wallet.Entropy24Words
	switch *words {
	case 12:
		strength = wallet.Entropy12Words
	case 24:
	default:
		fatal("--words must be 12 or 24")
	}

	mnemonic, err := wallet.GenerateMnemonic(strength)
	if err != nil {
		fatal("generate mnemonic: %v", err)
	}

	fmt.Println(mnemonic)
	fmt.Fprintln(os.Stderr, "\nWrite these words down in order and store them offline.")
	fmt.Fprintln(os.Stderr, "Anyone holding the phrase can spend from this wallet.")
}

// ── validate ────────────────────────────────────────────────────────────

func cmdValidate() {
	mnemonic, err := readSecret("Enter mnemonic: ")
	if err != nil {
		fatal("read mnemonic: %v", err)
	}
	defer wallet.ZeroSeed(mnemonic)

	if !wallet.ValidateMnemonic(string(mnemonic)) {
		fatal("mnemonic is not a valid BIP-39 phrase (check word order and spelling)")
	}
	fmt.Println("Mnemonic is valid.")
}

// ── fingerprint ─────────────────────────────────────────────────────────

func cmdFingerprint(cfg *config.Config) {
	mnemonic, passphrase := promptPhrase()
	defer wallet.ZeroSeed(mnemonic)

	descs, err := descriptor.Generate(string(mnemonic), optionsFromConfig(cfg, string(passphrase)))
	if err != nil {
		fatal("%v", err)
	}
	fmt.Println(descs.Fingerprint)
}

// ── descriptors ─────────────────────────────────────────────────────────

func cmdDescriptors(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("descriptors", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "Output as JSON")
	fs.Parse(args)

	mnemonic, passphrase := promptPhrase()
	defer wallet.ZeroSeed(mnemonic)

	descs, err := descriptor.Generate(string(mnemonic), optionsFromConfig(cfg, string(passphrase)))
	if err != nil {
		fatal("%v", err)
	}

	if *asJSON {
		out, err := json.MarshalIndent(descs, "", "  ")
		if err != nil {
			fatal("encode descriptors: %v", err)
		}
		fmt.Println(string(out))
		return
	}

	fmt.Printf("Fingerprint: %s\n\n", descs.Fingerprint)
	for _, d := range descs.Descriptors {
		branch := "receive"
		if d.Internal {
			branch = "change"
		}
		fmt.Printf("%-8s %-7s %s\n", d.ScriptType, branch, d.Descriptor)
	}
}

// ── import ──────────────────────────────────────────────────────────────

func cmdImport(cfg *config.Config, args []string) {
	if len(args) < 1 {
		fatal("Usage: pocx-wallet import <name>")
	}
	name := args[0]

	mnemonic, passphrase := promptPhrase()
	defer wallet.ZeroSeed(mnemonic)

	password, err := readSecret("Keystore password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	confirm, err := readSecret("Confirm password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	if string(password) != string(confirm) {
		fatal("passwords do not match")
	}

	opts := optionsFromConfig(cfg, string(passphrase))
	descs, err := descriptor.Generate(string(mnemonic), opts)
	if err != nil {
		fatal("%v", err)
	}

	client, err := rpcclient.NewFromConfig(cfg.Node, cfg.Network)
	if err != nil {
		fatal("%v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := client.CreateWallet(ctx, name); err != nil {
		if !rpcclient.IsWalletExists(err) {
			fatal("createwallet: %v", err)
		}
		log.Wallet.Info().Str("wallet", name).Msg("wallet already exists on node, importing into it")
	}
	if err := client.ImportDescriptors(ctx, name, descs.Descriptors); err != nil {
		fatal("importdescriptors: %v", err)
	}

	// Store the sealed phrase locally so the wallet can be re-derived later.
	ks, err := wallet.NewKeystore(cfg.KeystoreDir())
	if err != nil {
		fatal("open keystore: %v", err)
	}
	scriptTypes := make([]string, 0, len(descs.Descriptors))
	seen := make(map[string]bool)
	for _, d := range descs.Descriptors {
		if !seen[string(d.ScriptType)] {
			seen[string(d.ScriptType)] = true
			scriptTypes = append(scriptTypes, string(d.ScriptType))
		}
	}
	meta := wallet.Metadata{
		Name:        name,
		CreatedAt:   time.Now().UTC(),
		Fingerprint: descs.Fingerprint,
		Network:     string(cfg.Network),
		Account:     cfg.Wallet.Account,
		ScriptTypes: scriptTypes,
		Imported:    true,
	}
	if err := ks.Create(name, mnemonic, password, meta, wallet.DefaultKDFParams()); err != nil {
		fatal("store wallet: %v", err)
	}

	fmt.Printf("Wallet %q imported.\n", name)
	fmt.Printf("  Fingerprint: %s\n", descs.Fingerprint)
	fmt.Printf("  Descriptors: %d\n", len(descs.Descriptors))
	if opts.Rescan {
		fmt.Println("  The node is rescanning the chain; balances appear when it finishes.")
	}
}

// ── wallet ──────────────────────────────────────────────────────────────

func cmdWalletInfo(cfg *config.Config, args []string) {
	if len(args) < 1 {
		fatal("Usage: pocx-wallet wallet <name>")
	}
	name := args[0]

	ks, err := wallet.NewKeystore(cfg.KeystoreDir())
	if err != nil {
		fatal("open keystore: %v", err)
	}
	meta, err := ks.Info(name)
	if err != nil {
		fatal("%v", err)
	}

	fmt.Printf("Name:         %s\n", meta.Name)
	fmt.Printf("Fingerprint:  %s\n", meta.Fingerprint)
	fmt.Printf("Network:      %s\n", meta.Network)
	fmt.Printf("Account:      %d\n", meta.Account)
	fmt.Printf("Script types: %v\n", meta.ScriptTypes)
	fmt.Printf("Created:      %s\n", meta.CreatedAt.Format("2006-01-02 15:04:05 UTC"))

	// Balances are best-effort: the node may be down.
	client, err := rpcclient.NewFromConfig(cfg.Node, cfg.Network)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	balances, err := client.GetBalances(ctx, name)
	if err != nil {
		log.Wallet.Debug().Err(err).Msg("balance lookup failed")
		return
	}
	fmt.Printf("Balance:      %.8f (pending %.8f, immature %.8f)\n",
		balances.Mine.Trusted, balances.Mine.UntrustedPending, balances.Mine.Immature)
}

// ── list ────────────────────────────────────────────────────────────────

func cmdList(cfg *config.Config) {
	ks, err := wallet.NewKeystore(cfg.KeystoreDir())
	if err != nil {
		fatal("open keystore: %v", err)
	}
	names, err := ks.List()
	if err != nil {
		fatal("list wallets: %v", err)
	}
	if len(names) == 0 {
		fmt.Println("No wallets stored. Use 'pocx-wallet import <name>' to add one.")
		return
	}
	for _, name := range names {
		fmt.Println(name)
	}
}

// ── status ──────────────────────────────────────────────────────────────

func cmdStatus(cfg *config.Config) {
	client, err := rpcclient.NewFromConfig(cfg.Node, cfg.Network)
	if err != nil {
		fatal("%v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	info, err := client.GetBlockchainInfo(ctx)
	if err != nil {
		fatal("getblockchaininfo: %v", err)
	}

	fmt.Printf("Node:     %s\n", cfg.Node.Endpoint())
	fmt.Printf("Chain:    %s\n", info.Chain)
	fmt.Printf("Blocks:   %d\n", info.Blocks)
	fmt.Printf("Headers:  %d\n", info.Headers)
	fmt.Printf("Tip:      %s\n", info.BestBlockHash)
	fmt.Printf("Progress: %.2f%%\n", info.VerificationProgress*100)
	if info.InitialBlockDownload {
		fmt.Println("Status:   initial block download")
	} else {
		fmt.Println("Status:   synced")
	}

	wallets, err := client.ListWallets(ctx)
	if err == nil {
		fmt.Printf("Wallets:  %d loaded\n", len(wallets))
	}
}

// ── helpers ─────────────────────────────────────────────────────────────

// promptPhrase reads the mnemonic and optional passphrase without echo.
func promptPhrase() (mnemonic, passphrase []byte) {
	mnemonic, err := readSecret("Enter mnemonic: ")
	if err != nil {
		fatal("read mnemonic: %v", err)
	}
	passphrase, err = readSecret("BIP-39 passphrase (empty for none): ")
	if err != nil {
		fatal("read passphrase: %v", err)
	}
	return mnemonic, passphrase
}

func readSecret(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return secret, nil
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
