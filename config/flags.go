package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// Flags holds parsed command-line flags.
type Flags struct {
	// Commands
	Help    bool
	Version bool

	// Core
	Network string
	DataDir string
	Config  string

	// Node RPC
	NodeAddr    string
	NodePort    int
	NodeUser    string
	NodePass    string
	NodeDataDir string

	// Wallet descriptor options
	Account      uint
	RangeStart   uint
	RangeEnd     uint
	Legacy       bool
	NestedSegwit bool
	NativeSegwit bool
	Taproot      bool
	Rescan       bool

	// Logging
	LogLevel string
	LogFile  string
	LogJSON  bool

	// Remaining args (subcommand and its arguments)
	Args []string

	// Explicitly-set bool flags (for true/false overrides).
	SetLegacy       bool
	SetNestedSegwit bool
	SetNativeSegwit bool
	SetTaproot      bool
	SetRescan       bool
	SetLogJSON      bool
}

// ParseFlags parses command-line flags.
func ParseFlags() *Flags {
	f := &Flags{}
	fs := flag.NewFlagSet("pocx-wallet", flag.ContinueOnError)

	// Commands
	fs.BoolVar(&f.Help, "help", false, "Show help message")
	fs.BoolVar(&f.Help, "h", false, "Show help message (shorthand)")
	fs.BoolVar(&f.Version, "version", false, "Show version information")
	fs.BoolVar(&f.Version, "v", false, "Show version (shorthand)")

	// Core
	fs.StringVar(&f.Network, "network", "", "Network type (mainnet, testnet, or regtest)")
	testnet := fs.Bool("testnet", false, "Use testnet (shorthand for --network=testnet)")
	regtest := fs.Bool("regtest", false, "Use regtest (shorthand for --network=regtest)")
	fs.StringVar(&f.DataDir, "datadir", "", "Data directory path")
	fs.StringVar(&f.Config, "config", "", "Config file path")
	fs.StringVar(&f.Config, "c", "", "Config file path (shorthand)")

	// Node RPC
	fs.StringVar(&f.NodeAddr, "node-addr", "", "Node RPC address")
	fs.IntVar(&f.NodePort, "node-port", 0, "Node RPC port")
	fs.StringVar(&f.NodeUser, "node-user", "", "Node RPC basic-auth user")
	fs.StringVar(&f.NodePass, "node-pass", "", "Node RPC basic-auth password")
	fs.StringVar(&f.NodeDataDir, "node-datadir", "", "Node data directory (for .cookie auth)")

	// Wallet descriptor options
	fs.UintVar(&f.Account, "account", 0, "BIP-44 account index")
	fs.UintVar(&f.RangeStart, "range-start", 0, "First address index to register")
	fs.UintVar(&f.RangeEnd, "range-end", 0, "Last address index to register")
	fs.BoolVar(&f.Legacy, "legacy", true, "Derive legacy (pkh) descriptors")
	fs.BoolVar(&f.NestedSegwit, "nested-segwit", true, "Derive nested segwit (sh(wpkh)) descriptors")
	fs.BoolVar(&f.NativeSegwit, "native-segwit", true, "Derive native segwit (wpkh) descriptors")
	fs.BoolVar(&f.Taproot, "taproot", true, "Derive taproot (tr) descriptors")
	fs.BoolVar(&f.Rescan, "rescan", false, "Rescan the chain from genesis when importing")

	// Logging
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFile, "log-file", "", "Log file path")
	fs.BoolVar(&f.LogJSON, "log-json", false, "Output logs as JSON")

	// Custom usage
	fs.Usage = func() {
		printUsage()
	}

	// Parse
	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Handle network shorthands
	if *testnet {
		f.Network = "testnet"
	}
	if *regtest {
		f.Network = "regtest"
	}
	f.SetLegacy = isFlagSet(fs, "legacy")
	f.SetNestedSegwit = isFlagSet(fs, "nested-segwit")
	f.SetNativeSegwit = isFlagSet(fs, "native-segwit")
	f.SetTaproot = isFlagSet(fs, "taproot")
	f.SetRescan = isFlagSet(fs, "rescan")
	f.SetLogJSON = isFlagSet(fs, "log-json")

	f.Args = fs.Args()

	return f
}

// ApplyFlags applies command-line flags to a Config struct.
func ApplyFlags(cfg *Config, f *Flags) {
	// Core
	if f.Network != "" {
		cfg.Network = NetworkType(f.Network)
	}
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}

	// Node RPC
	if f.NodeAddr != "" {
		cfg.Node.Addr = f.NodeAddr
	}
	if f.NodePort != 0 {
		cfg.Node.Port = f.NodePort
	}
	if f.NodeUser != "" {
		cfg.Node.User = f.NodeUser
	}
	if f.NodePass != "" {
		cfg.Node.Pass = f.NodePass
	}
	if f.NodeDataDir != "" {
		cfg.Node.DataDir = f.NodeDataDir
	}

	// Wallet descriptor options
	if f.Account != 0 {
		cfg.Wallet.Account = uint32(f.Account)
	}
	if f.RangeStart != 0 {
		cfg.Wallet.RangeStart = uint32(f.RangeStart)
	}
	if f.RangeEnd != 0 {
		cfg.Wallet.RangeEnd = uint32(f.RangeEnd)
	}
	if f.SetLegacy {
		cfg.Wallet.Legacy = f.Legacy
	}
	if f.SetNestedSegwit {
		cfg.Wallet.NestedSegwit = f.NestedSegwit
	}
	if f.SetNativeSegwit {
		cfg.Wallet.NativeSegwit = f.NativeSegwit
	}
	if f.SetTaproot {
		cfg.Wallet.Taproot = f.Taproot
	}
	if f.SetRescan {
		cfg.Wallet.Rescan = f.Rescan
	}

	// Logging
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.Log.File = f.LogFile
	}
	if f.SetLogJSON {
		cfg.Log.JSON = f.LogJSON
	}
}

// isFlagSet checks if a flag was explicitly set.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func printUsage() {
	usage := `PoCX Wallet - descriptor wallet for Bitcoin-PoCX nodes

Usage:
  pocx-wallet [options] <command> [args]
  pocx-wallet --help

Commands:
  generate          Generate a new BIP-39 mnemonic phrase
  validate          Validate a mnemonic phrase
  fingerprint       Show the master key fingerprint for a mnemonic
  descriptors       Derive the full descriptor set for a mnemonic
  import <name>     Create a descriptor wallet on the node from a mnemonic
  wallet <name>     Show stored wallet metadata
  list              List stored wallets
  status            Show node connection status

Core Options:
  --network       Network type: mainnet (default), testnet, or regtest
  --testnet       Shorthand for --network=testnet
  --regtest       Shorthand for --network=regtest
  --datadir       Data directory (default: ~/.pocx-wallet)
  --config, -c    Config file path (default: <datadir>/pocx-wallet.conf)

Node Options:
  --node-addr     Node RPC address (default: 127.0.0.1)
  --node-port     Node RPC port (mainnet: 8332, testnet: 18332, regtest: 18443)
  --node-user     RPC basic-auth user (default: cookie auth)
  --node-pass     RPC basic-auth password
  --node-datadir  Node data directory for .cookie lookup

Wallet Options:
  --account        BIP-44 account index (default: 0)
  --range-start    First address index to register (default: 0)
  --range-end      Last address index to register (default: 999)
  --legacy         Derive legacy (pkh) descriptors (default: true)
  --nested-segwit  Derive nested segwit descriptors (default: true)
  --native-segwit  Derive native segwit descriptors (default: true)
  --taproot        Derive taproot descriptors (default: true)
  --rescan         Rescan the chain from genesis when importing

Logging Options:
  --log-level     Log level: debug, info, warn, error (default: info)
  --log-file      Log file path (default: stdout)
  --log-json      Output logs as JSON

Examples:
  # Generate a fresh 24-word mnemonic
  pocx-wallet generate

  # Derive descriptors for a testnet wallet
  pocx-wallet --testnet descriptors

  # Import a wallet into a local regtest node
  pocx-wallet --regtest import mywallet
`
	fmt.Print(usage)
}

// Load loads configuration with the following precedence:
// 1. Default values
// 2. Auto-create data dirs + default config (idempotent)
// 3. Config file
// 4. Command-line flags
func Load() (*Config, *Flags, error) {
	flags := ParseFlags()

	// Handle help/version
	if flags.Help {
		printUsage()
		os.Exit(0)
	}
	if flags.Version {
		fmt.Println("pocx-wallet version 0.1.0")
		os.Exit(0)
	}

	// Determine network first (needed for defaults)
	network := Mainnet
	switch strings.ToLower(flags.Network) {
	case "testnet":
		network = Testnet
	case "regtest":
		network = Regtest
	}

	// Start with defaults
	cfg := Default(network)

	// Override datadir if specified
	if flags.DataDir != "" {
		cfg.DataDir = flags.DataDir
	}

	// Auto-create data directories and default config on first start.
	if err := EnsureDataDirs(cfg); err != nil {
		return nil, nil, fmt.Errorf("ensuring data dirs: %w", err)
	}

	// Determine config file path
	configPath := flags.Config
	if configPath == "" {
		configPath = cfg.ConfigFile()
	}

	// Load config file
	fileValues, err := LoadFile(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config file: %w", err)
	}

	// Apply file config
	if err := ApplyFileConfig(cfg, fileValues); err != nil {
		return nil, nil, fmt.Errorf("applying config file: %w", err)
	}

	// Apply flags (highest precedence)
	ApplyFlags(cfg, flags)
	if err := Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, flags, nil
}

// LoadFromFile loads config from defaults + conf file only (no CLI flags).
// Used by the desktop wallet which has no CLI flags.
func LoadFromFile(dataDir string, network NetworkType) (*Config, error) {
	cfg := Default(network)
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if err := EnsureDataDirs(cfg); err != nil {
		return nil, fmt.Errorf("ensuring data dirs: %w", err)
	}
	fileValues, err := LoadFile(cfg.ConfigFile())
	if err != nil {
		return nil, fmt.Errorf("loading config file: %w", err)
	}
	if err := ApplyFileConfig(cfg, fileValues); err != nil {
		return nil, fmt.Errorf("applying config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// EnsureDataDirs creates the data directory structure and a default config
// file if they don't already exist. This is idempotent and safe to call on
// every startup.
func EnsureDataDirs(cfg *Config) error {
	dirs := []string{
		cfg.DataDir,
		cfg.NetworkDataDir(),
		cfg.KeystoreDir(),
		cfg.LogsDir(),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	// Create default config if it doesn't exist.
	configPath := cfg.ConfigFile()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := WriteDefaultConfig(configPath, cfg.Network); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}
	}

	return nil
}
