// Package config handles application configuration.
//
// Configuration is split into two categories:
//   - Node settings: how to reach the Bitcoin-PoCX node's RPC interface
//   - Wallet settings: descriptor generation defaults, can vary per wallet
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

// NetworkType identifies which chain the wallet talks to.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
	Regtest NetworkType = "regtest"
)

// Config holds runtime configuration for the wallet.
type Config struct {
	// Core
	Network NetworkType `conf:"network"`
	DataDir string      `conf:"datadir"`

	// Node RPC connection
	Node NodeConfig

	// Descriptor generation defaults
	Wallet WalletConfig

	// Logging
	Log LogConfig
}

// NodeConfig holds settings for the node RPC connection.
type NodeConfig struct {
	Addr    string `conf:"node.addr"`
	Port    int    `conf:"node.port"`
	User    string `conf:"node.user"`    // RPC basic-auth user (empty = cookie auth)
	Pass    string `conf:"node.pass"`    // RPC basic-auth password
	DataDir string `conf:"node.datadir"` // Node data directory, for .cookie lookup
}

// Endpoint returns the node RPC base URL.
func (n NodeConfig) Endpoint() string {
	return "http://" + n.Addr + ":" + strconv.Itoa(n.Port)
}

// WalletConfig holds descriptor generation defaults.
type WalletConfig struct {
	Account      uint32 `conf:"wallet.account"`
	RangeStart   uint32 `conf:"wallet.range_start"`
	RangeEnd     uint32 `conf:"wallet.range_end"`
	Legacy       bool   `conf:"wallet.legacy"`
	NestedSegwit bool   `conf:"wallet.nested_segwit"`
	NativeSegwit bool   `conf:"wallet.native_segwit"`
	Taproot      bool   `conf:"wallet.taproot"`
	Rescan       bool   `conf:"wallet.rescan"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// =============================================================================
// Directory helpers
// =============================================================================

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.pocx-wallet
//	macOS:   ~/Library/Application Support/PocxWallet
//	Windows: %APPDATA%\PocxWallet
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pocx-wallet"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "PocxWallet")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "PocxWallet")
		}
		return filepath.Join(home, "AppData", "Roaming", "PocxWallet")
	default:
		return filepath.Join(home, ".pocx-wallet")
	}
}

// DefaultNodeDataDir returns the default data directory of the node itself,
// used to locate the RPC .cookie file.
//
//	Linux:   ~/.bitcoin-pocx
//	macOS:   ~/Library/Application Support/Bitcoin-PoCX
//	Windows: %APPDATA%\Bitcoin-PoCX
func DefaultNodeDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bitcoin-pocx"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Bitcoin-PoCX")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "Bitcoin-PoCX")
		}
		return filepath.Join(home, "AppData", "Roaming", "Bitcoin-PoCX")
	default:
		return filepath.Join(home, ".bitcoin-pocx")
	}
}

// NetworkDataDir returns the network-specific data directory.
func (c *Config) NetworkDataDir() string {
	return filepath.Join(c.DataDir, string(c.Network))
}

// KeystoreDir returns the keystore directory.
func (c *Config) KeystoreDir() string {
	return filepath.Join(c.NetworkDataDir(), "keystore")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "pocx-wallet.conf")
}
