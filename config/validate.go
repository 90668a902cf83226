package config

import (
	"fmt"
)

// Validate checks runtime config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	switch cfg.Network {
	case Mainnet, Testnet, Regtest:
	default:
		return fmt.Errorf("network must be %q, %q, or %q", Mainnet, Testnet, Regtest)
	}
	if cfg.Node.Port < 0 || cfg.Node.Port > 65535 {
		return fmt.Errorf("node.port must be in range [0, 65535]")
	}
	if (cfg.Node.User == "") != (cfg.Node.Pass == "") {
		return fmt.Errorf("node.user and node.pass must be set together")
	}
	if cfg.Wallet.RangeEnd < cfg.Wallet.RangeStart {
		return fmt.Errorf("wallet.range_end must be >= wallet.range_start")
	}
	if !cfg.Wallet.Legacy && !cfg.Wallet.NestedSegwit && !cfg.Wallet.NativeSegwit && !cfg.Wallet.Taproot {
		return fmt.Errorf("at least one script type must be enabled")
	}
	switch cfg.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn, or error")
	}
	return nil
}
