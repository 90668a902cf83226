package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadFile loads configuration from a .conf file.
// Format: key = value (one per line, # for comments)
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse key = value
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		values[key] = value
	}

	return values, scanner.Err()
}

// ApplyFileConfig applies file configuration to a Config struct.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

// setConfigValue sets a config value by key.
func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	// Core
	case "network":
		cfg.Network = NetworkType(value)
	case "datadir":
		cfg.DataDir = value

	// Node RPC
	case "node.addr":
		cfg.Node.Addr = value
	case "node.port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Node.Port = port
	case "node.user":
		cfg.Node.User = value
	case "node.pass":
		cfg.Node.Pass = value
	case "node.datadir":
		cfg.Node.DataDir = value

	// Wallet descriptor defaults
	case "wallet.account":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return err
		}
		cfg.Wallet.Account = uint32(n)
	case "wallet.range_start":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return err
		}
		cfg.Wallet.RangeStart = uint32(n)
	case "wallet.range_end":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return err
		}
		cfg.Wallet.RangeEnd = uint32(n)
	case "wallet.legacy":
		cfg.Wallet.Legacy = parseBool(value)
	case "wallet.nested_segwit":
		cfg.Wallet.NestedSegwit = parseBool(value)
	case "wallet.native_segwit":
		cfg.Wallet.NativeSegwit = parseBool(value)
	case "wallet.taproot":
		cfg.Wallet.Taproot = parseBool(value)
	case "wallet.rescan":
		cfg.Wallet.Rescan = parseBool(value)

	// Logging
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)

	default:
		// Unknown keys are ignored
	}
	return nil
}

// parseBool parses a boolean value.
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// WriteDefaultConfig writes a default configuration file.
func WriteDefaultConfig(path string, network NetworkType) error {
	content := `# PoCX Wallet Configuration

# Network: mainnet, testnet, or regtest
network = ` + string(network) + `

# Data directory (default: ~/.pocx-wallet)
# datadir = ~/.pocx-wallet

# ============================================================================
# Node RPC Connection
# ============================================================================

node.addr = 127.0.0.1
node.port = ` + defaultNodePort(network) + `

# RPC authentication. When user/pass are empty the wallet reads the node's
# .cookie file from node.datadir instead.
# node.user =
# node.pass =
# node.datadir = ~/.bitcoin-pocx

# ============================================================================
# Wallet Descriptor Defaults
# ============================================================================

# BIP-44 account index
wallet.account = 0

# Address index range registered with the node
wallet.range_start = 0
wallet.range_end = 999

# Script types to derive
wallet.legacy = true
wallet.nested_segwit = true
wallet.native_segwit = true
wallet.taproot = true

# Rescan the chain from genesis when importing
wallet.rescan = false

# ============================================================================
# Logging
# ============================================================================

log.level = info
# log.file =
log.json = false
`
	return os.WriteFile(path, []byte(content), 0644)
}

func defaultNodePort(network NetworkType) string {
	switch network {
	case Testnet:
		return "18332"
	case Regtest:
		return "18443"
	default:
		return "8332"
	}
}
