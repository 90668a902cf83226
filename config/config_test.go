package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFile_ParsesKeyValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pocx-wallet.conf")
	content := `# comment
network = testnet

node.addr = "10.0.0.5"
node.port = 18332
wallet.taproot = false
wallet.range_end = 499
log.level = debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing conf: %v", err)
	}

	values, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	cfg := DefaultMainnet()
	if err := ApplyFileConfig(cfg, values); err != nil {
		t.Fatalf("ApplyFileConfig: %v", err)
	}

	if cfg.Network != Testnet {
		t.Errorf("network = %q, want testnet", cfg.Network)
	}
	if cfg.Node.Addr != "10.0.0.5" {
		t.Errorf("node.addr = %q, want 10.0.0.5 (quotes stripped)", cfg.Node.Addr)
	}
	if cfg.Node.Port != 18332 {
		t.Errorf("node.port = %d, want 18332", cfg.Node.Port)
	}
	if cfg.Wallet.Taproot {
		t.Error("wallet.taproot should be false")
	}
	if cfg.Wallet.RangeEnd != 499 {
		t.Errorf("wallet.range_end = %d, want 499", cfg.Wallet.RangeEnd)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoadFile_MissingFileReturnsEmpty(t *testing.T) {
	values, err := LoadFile(filepath.Join(t.TempDir(), "does-not-exist.conf"))
	if err != nil {
		t.Fatalf("LoadFile on missing file: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("expected empty map, got %d entries", len(values))
	}
}

func TestLoadFile_RejectsMalformedLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.conf")
	if err := os.WriteFile(path, []byte("just a bare line\n"), 0644); err != nil {
		t.Fatalf("writing conf: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for malformed line")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"regtest valid", func(c *Config) { c.Network = Regtest }, false},
		{"bad network", func(c *Config) { c.Network = "signet" }, true},
		{"port out of range", func(c *Config) { c.Node.Port = 70000 }, true},
		{"user without pass", func(c *Config) { c.Node.User = "alice" }, true},
		{"inverted range", func(c *Config) { c.Wallet.RangeStart = 10; c.Wallet.RangeEnd = 5 }, true},
		{"no script types", func(c *Config) {
			c.Wallet.Legacy = false
			c.Wallet.NestedSegwit = false
			c.Wallet.NativeSegwit = false
			c.Wallet.Taproot = false
		}, true},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultMainnet()
			tt.mutate(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefault_NetworkPorts(t *testing.T) {
	if got := Default(Mainnet).Node.Port; got != 8332 {
		t.Errorf("mainnet port = %d, want 8332", got)
	}
	if got := Default(Testnet).Node.Port; got != 18332 {
		t.Errorf("testnet port = %d, want 18332", got)
	}
	if got := Default(Regtest).Node.Port; got != 18443 {
		t.Errorf("regtest port = %d, want 18443", got)
	}
}

func TestNodeConfig_Endpoint(t *testing.T) {
	n := NodeConfig{Addr: "127.0.0.1", Port: 18443}
	if got := n.Endpoint(); got != "http://127.0.0.1:18443" {
		t.Errorf("Endpoint() = %q", got)
	}
}
