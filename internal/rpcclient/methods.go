package rpcclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bitcoin-pocx/pocx-wallet/internal/log"
	"github.com/bitcoin-pocx/pocx-wallet/pkg/descriptor"
)

// BlockchainInfo is the subset of getblockchaininfo the wallet cares about.
type BlockchainInfo struct {
	Chain                string  `json:"chain"`
	Blocks               int64   `json:"blocks"`
	Headers              int64   `json:"headers"`
	BestBlockHash        string  `json:"bestblockhash"`
	VerificationProgress float64 `json:"verificationprogress"`
	InitialBlockDownload bool    `json:"initialblockdownload"`
	Pruned               bool    `json:"pruned"`
}

// GetBlockchainInfo returns the node's chain state.
func (c *Client) GetBlockchainInfo(ctx context.Context) (*BlockchainInfo, error) {
	var info BlockchainInfo
	if err := c.Call(ctx, "getblockchaininfo", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Ping checks that the node is reachable and accepting RPC calls.
func (c *Client) Ping(ctx context.Context) error {
	return c.Call(ctx, "ping", nil, nil)
}

// WaitForReady polls the node until it responds to getblockchaininfo or the
// context is cancelled. Useful right after node startup, when the RPC server
// rejects calls while loading the block index.
func (c *Client) WaitForReady(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := c.GetBlockchainInfo(ctx); err == nil {
			return nil
		} else {
			log.RPC.Debug().Err(err).Msg("node not ready yet")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Stop asks the node to shut down. Returns the node's farewell message.
func (c *Client) Stop(ctx context.Context) (string, error) {
	var msg string
	if err := c.Call(ctx, "stop", nil, &msg); err != nil {
		return "", err
	}
	return msg, nil
}

// createWalletResult is the response of createwallet.
type createWalletResult struct {
	Name    string `json:"name"`
	Warning string `json:"warning"`
}

// CreateWallet creates a blank descriptor wallet on the node with private
// keys enabled. The descriptors imported into it carry the private account
// keys, since the node is the one that signs transactions.
func (c *Client) CreateWallet(ctx context.Context, name string) error {
	// createwallet params: wallet_name, disable_private_keys, blank,
	// passphrase, avoid_reuse, descriptors, load_on_startup
	params := []any{name, false, true, "", false, true, true}
	var res createWalletResult
	if err := c.Call(ctx, "createwallet", params, &res); err != nil {
		return err
	}
	if res.Warning != "" {
		log.RPC.Warn().Str("wallet", name).Str("warning", res.Warning).Msg("createwallet warning")
	}
	return nil
}

// LoadWallet loads an existing wallet on the node.
func (c *Client) LoadWallet(ctx context.Context, name string) error {
	var res createWalletResult
	return c.Call(ctx, "loadwallet", []any{name}, &res)
}

// ListWallets returns the names of the wallets currently loaded on the node.
func (c *Client) ListWallets(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.Call(ctx, "listwallets", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// importRequest is one entry of an importdescriptors call. Only the fields
// the node understands go on the wire; descriptor.Info carries extra
// metadata for local display.
type importRequest struct {
	Desc      string    `json:"desc"`
	Active    bool      `json:"active"`
	Internal  bool      `json:"internal"`
	Range     [2]uint32 `json:"range"`
	Timestamp any       `json:"timestamp"`
}

// ImportResult is the per-descriptor outcome of importdescriptors.
type ImportResult struct {
	Success  bool     `json:"success"`
	Warnings []string `json:"warnings"`
	Error    *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ImportDescriptors registers the descriptor set with the named wallet on
// the node. All descriptors must succeed; a partial import leaves the wallet
// unable to find some of its addresses, so any failure is returned as an
// error naming the failed descriptor.
func (c *Client) ImportDescriptors(ctx context.Context, wallet string, descs []descriptor.Info) error {
	if len(descs) == 0 {
		return errors.New("no descriptors to import")
	}
	reqs := make([]importRequest, len(descs))
	for i, d := range descs {
		reqs[i] = importRequest{
			Desc:      d.Descriptor,
			Active:    d.Active,
			Internal:  d.Internal,
			Range:     d.Range,
			Timestamp: d.Timestamp,
		}
	}
	var results []ImportResult
	err := c.ForWallet(wallet).Call(ctx, "importdescriptors", []any{reqs}, &results)
	if err != nil {
		return err
	}
	if len(results) != len(descs) {
		return fmt.Errorf("importdescriptors returned %d results for %d descriptors", len(results), len(descs))
	}
	for i, res := range results {
		if !res.Success {
			if res.Error != nil {
				return fmt.Errorf("descriptor %d rejected: rpc error %d: %s", i, res.Error.Code, res.Error.Message)
			}
			return fmt.Errorf("descriptor %d rejected", i)
		}
		for _, w := range res.Warnings {
			log.RPC.Warn().Str("wallet", wallet).Int("descriptor", i).Str("warning", w).Msg("import warning")
		}
	}
	return nil
}

// BalanceDetail breaks a balance down by confirmation status.
type BalanceDetail struct {
	Trusted          float64 `json:"trusted"`
	UntrustedPending float64 `json:"untrusted_pending"`
	Immature         float64 `json:"immature"`
}

// Balances is the response of getbalances.
type Balances struct {
	Mine BalanceDetail `json:"mine"`
}

// GetBalances returns the named wallet's balances.
func (c *Client) GetBalances(ctx context.Context, wallet string) (*Balances, error) {
	var b Balances
	if err := c.ForWallet(wallet).Call(ctx, "getbalances", nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// WalletInfo is the subset of getwalletinfo the wallet cares about.
type WalletInfo struct {
	WalletName  string `json:"walletname"`
	TxCount     int64  `json:"txcount"`
	KeyPoolSize int64  `json:"keypoolsize"`
	Descriptors bool   `json:"descriptors"`
	PrivateKeys bool   `json:"private_keys_enabled"`
}

// GetWalletInfo returns metadata about the named wallet on the node.
func (c *Client) GetWalletInfo(ctx context.Context, wallet string) (*WalletInfo, error) {
	var info WalletInfo
	if err := c.ForWallet(wallet).Call(ctx, "getwalletinfo", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// IsWalletNotFound reports whether err is the node saying the wallet is not
// loaded.
func IsWalletNotFound(err error) bool {
	var rpcErr *RPCError
	return errors.As(err, &rpcErr) && rpcErr.Code == ErrCodeWalletNotFound
}

// IsWalletExists reports whether err is the node saying a wallet with that
// name already exists.
func IsWalletExists(err error) bool {
	var rpcErr *RPCError
	return errors.As(err, &rpcErr) && rpcErr.Code == ErrCodeWalletExists
}
