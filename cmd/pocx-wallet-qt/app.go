package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/bitcoin-pocx/pocx-wallet/config"
	"github.com/bitcoin-pocx/pocx-wallet/internal/rpcclient"
)

// qtSettings is the persistent configuration written to qt-settings.json.
type qtSettings struct {
	DataDir      string `json:"data_dir"`
	Network      string `json:"network"`
	NodeAddr     string `json:"node_addr"`
	NodePort     int    `json:"node_port"`
	NodeUser     string `json:"node_user"`
	NodePass     string `json:"node_pass"`
	NodeDataDir  string `json:"node_data_dir"`
	ActiveWallet string `json:"active_wallet"`
}

// App manages application lifecycle and settings.
type App struct {
	ctx          context.Context
	dataDir      string
	network      config.NetworkType
	node         *NodeService
	nodeCfg      config.NodeConfig
	activeWallet string

	wallet *WalletService
}

// NewApp creates the application with default settings.
func NewApp() *App {
	defaults := config.DefaultRegtest()
	app := &App{
		dataDir: config.DefaultDataDir(),
		network: defaults.Network,
		nodeCfg: defaults.Node,
	}
	app.wallet = &WalletService{app: app}
	app.node = &NodeService{app: app}
	app.loadSettings()
	return app
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

func (a *App) shutdown(_ context.Context) {}

// rpcClient returns a new RPC client for the configured node.
func (a *App) rpcClient() (*rpcclient.Client, error) {
	return rpcclient.NewFromConfig(a.nodeCfg, a.network)
}

// keystorePath returns the keystore directory path, matching the CLI's
// layout: <dataDir>/<network>/keystore.
func (a *App) keystorePath() string {
	return filepath.Join(a.dataDir, string(a.network), "keystore")
}

// settingsPath returns the path to qt-settings.json.
func (a *App) settingsPath() string {
	return filepath.Join(a.dataDir, "qt-settings.json")
}

// ── Settings persistence ─────────────────────────────────────────────

func (a *App) loadSettings() {
	data, err := os.ReadFile(a.settingsPath())
	if err != nil {
		return // first launch or missing file, use defaults
	}
	var s qtSettings
	if err := json.Unmarshal(data, &s); err != nil {
		return
	}
	if s.DataDir != "" {
		a.dataDir = s.DataDir
	}
	if s.Network != "" {
		a.network = config.NetworkType(s.Network)
	}
	if s.NodeAddr != "" {
		a.nodeCfg.Addr = s.NodeAddr
	}
	if s.NodePort != 0 {
		a.nodeCfg.Port = s.NodePort
	}
	a.nodeCfg.User = s.NodeUser
	a.nodeCfg.Pass = s.NodePass
	if s.NodeDataDir != "" {
		a.nodeCfg.DataDir = s.NodeDataDir
	}
	a.activeWallet = s.ActiveWallet
}

func (a *App) saveSettings() {
	s := qtSettings{
		DataDir:      a.dataDir,
		Network:      string(a.network),
		NodeAddr:     a.nodeCfg.Addr,
		NodePort:     a.nodeCfg.Port,
		NodeUser:     a.nodeCfg.User,
		NodePass:     a.nodeCfg.Pass,
		NodeDataDir:  a.nodeCfg.DataDir,
		ActiveWallet: a.activeWallet,
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return
	}
	// Ensure directory exists.
	_ = os.MkdirAll(filepath.Dir(a.settingsPath()), 0700)
	_ = os.WriteFile(a.settingsPath(), data, 0600)
}

// ── Getters / Setters (each setter persists) ─────────────────────────

// GetDataDir returns the current data directory.
func (a *App) GetDataDir() string {
	return a.dataDir
}

// SetDataDir updates the data directory.
func (a *App) SetDataDir(dir string) {
	a.dataDir = dir
	a.saveSettings()
}

// GetNetwork returns the current network name.
func (a *App) GetNetwork() string {
	return string(a.network)
}

// SetNetwork updates the network. The node port follows the network
// default unless the user overrode it.
func (a *App) SetNetwork(network string) {
	old := config.Default(a.network)
	a.network = config.NetworkType(network)
	if a.nodeCfg.Port == old.Node.Port {
		a.nodeCfg.Port = config.Default(a.network).Node.Port
	}
	a.saveSettings()
}

// GetNodeEndpoint returns the node RPC base URL.
func (a *App) GetNodeEndpoint() string {
	return a.nodeCfg.Endpoint()
}

// SetNodeConnection updates the node RPC connection settings. Empty
// user/pass means cookie auth from nodeDataDir.
func (a *App) SetNodeConnection(addr string, port int, user, pass, nodeDataDir string) {
	if addr != "" {
		a.nodeCfg.Addr = addr
	}
	if port != 0 {
		a.nodeCfg.Port = port
	}
	a.nodeCfg.User = user
	a.nodeCfg.Pass = pass
	if nodeDataDir != "" {
		a.nodeCfg.DataDir = nodeDataDir
	}
	a.saveSettings()
}

// GetActiveWallet returns the currently selected wallet name.
func (a *App) GetActiveWallet() string {
	return a.activeWallet
}

// SetActiveWallet updates the active wallet.
func (a *App) SetActiveWallet(name string) {
	a.activeWallet = name
	a.saveSettings()
}

// TestConnection checks if the node is reachable with the current settings.
func (a *App) TestConnection() (bool, error) {
	client, err := a.rpcClient()
	if err != nil {
		return false, err
	}
	if _, err := client.GetBlockchainInfo(a.ctx); err != nil {
		return false, err
	}
	return true, nil
}
