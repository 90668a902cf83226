package config

// DefaultMainnet returns the default configuration for mainnet.
func DefaultMainnet() *Config {
	return &Config{
		Network: Mainnet,
		DataDir: DefaultDataDir(),
		Node: NodeConfig{
			Addr:    "127.0.0.1",
			Port:    8332,
			DataDir: DefaultNodeDataDir(),
		},
		Wallet: WalletConfig{
			Account:      0,
			RangeStart:   0,
			RangeEnd:     999,
			Legacy:       true,
			NestedSegwit: true,
			NativeSegwit: true,
			Taproot:      true,
			Rescan:       false,
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}

// DefaultTestnet returns the default configuration for testnet.
func DefaultTestnet() *Config {
	cfg := DefaultMainnet()
	cfg.Network = Testnet
	cfg.Node.Port = 18332
	return cfg
}

// DefaultRegtest returns the default configuration for regtest.
func DefaultRegtest() *Config {
	cfg := DefaultMainnet()
	cfg.Network = Regtest
	cfg.Node.Port = 18443
	return cfg
}

// Default returns the default configuration for the given network.
func Default(network NetworkType) *Config {
	switch network {
	case Testnet:
		return DefaultTestnet()
	case Regtest:
		return DefaultRegtest()
	default:
		return DefaultMainnet()
	}
}
