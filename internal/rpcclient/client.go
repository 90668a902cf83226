// Package rpcclient provides a JSON-RPC client for Bitcoin-PoCX nodes.
//
// The node speaks the Bitcoin Core RPC dialect: JSON-RPC 1.0 bodies,
// positional params, HTTP basic auth with either explicit credentials or
// the node's .cookie file, and per-wallet endpoints under /wallet/<name>.
package rpcclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bitcoin-pocx/pocx-wallet/config"
)

// Client is a JSON-RPC HTTP client for a Bitcoin-PoCX node.
type Client struct {
	endpoint string
	auth     string // Authorization header value, "" when the node needs none
	http     *http.Client
}

// New creates a new RPC client targeting the given endpoint URL with
// explicit basic-auth credentials.
func New(endpoint, user, pass string) *Client {
	return NewWithTimeout(endpoint, user, pass, 30*time.Second)
}

// NewWithTimeout creates a new RPC client with a custom HTTP timeout.
func NewWithTimeout(endpoint, user, pass string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		http: &http.Client{
			Timeout: timeout,
		},
	}
	if user != "" || pass != "" {
		c.auth = basicAuth(user, pass)
	}
	return c
}

// NewFromConfig builds a client from node settings. When no explicit
// user/pass is configured it falls back to the node's .cookie file.
func NewFromConfig(node config.NodeConfig, network config.NetworkType) (*Client, error) {
	user, pass := node.User, node.Pass
	if user == "" {
		var err error
		user, pass, err = ReadCookie(node.DataDir, network)
		if err != nil {
			return nil, fmt.Errorf("rpc auth: no credentials configured and %w", err)
		}
	}
	return New(node.Endpoint(), user, pass), nil
}

// ForWallet returns a client whose calls are routed to the named wallet's
// endpoint (/wallet/<name>). Wallet-scoped methods like getbalances require
// this when more than one wallet is loaded.
func (c *Client) ForWallet(name string) *Client {
	base := c.endpoint
	if i := strings.Index(base, "/wallet/"); i >= 0 {
		base = base[:i]
	}
	return &Client{
		endpoint: base + "/wallet/" + url.PathEscape(name),
		auth:     c.auth,
		http:     c.http,
	}
}

// CookiePath returns the path of the node's RPC cookie file for the given
// network. Testnet and regtest nodes keep their cookie in a network
// subdirectory of the data dir.
func CookiePath(nodeDataDir string, network config.NetworkType) string {
	switch network {
	case config.Testnet:
		return filepath.Join(nodeDataDir, "testnet3", ".cookie")
	case config.Regtest:
		return filepath.Join(nodeDataDir, "regtest", ".cookie")
	default:
		return filepath.Join(nodeDataDir, ".cookie")
	}
}

// ReadCookie reads the node's RPC cookie file and returns its user and
// password halves. The file holds a single "user:password" line written by
// the node on startup.
func ReadCookie(nodeDataDir string, network config.NetworkType) (user, pass string, err error) {
	path := CookiePath(nodeDataDir, network)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("reading cookie file %s: %w", path, err)
	}
	line := strings.TrimSpace(string(data))
	user, pass, ok := strings.Cut(line, ":")
	if !ok {
		return "", "", fmt.Errorf("cookie file %s: malformed contents", path)
	}
	return user, pass, nil
}

func basicAuth(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

// request is a JSON-RPC 1.0 request in the Bitcoin Core dialect.
type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

// response is a JSON-RPC response.
type response struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
	ID     string          `json:"id"`
}

// rpcError is the error object inside a JSON-RPC response.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RPCError is returned when the node responds with an error.
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Node error codes the wallet reacts to.
const (
	ErrCodeWalletNotFound = -18 // requested wallet is not loaded
	ErrCodeWalletExists   = -4  // wallet with that name already exists
)

// Call invokes a JSON-RPC method with positional params and unmarshals the
// result into the provided pointer. If result is nil, the response result
// is discarded.
func (c *Client) Call(ctx context.Context, method string, params []any, result any) error {
	if params == nil {
		params = []any{}
	}
	req := request{
		JSONRPC: "1.0",
		ID:      "pocx-wallet",
		Method:  method,
		Params:  params,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.auth != "" {
		httpReq.Header.Set("Authorization", c.auth)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("rpc authentication failed (check credentials or cookie file)")
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var rpcResp response
	if err := json.Unmarshal(data, &rpcResp); err != nil {
		return fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}

	if rpcResp.Error != nil {
		return &RPCError{
			Code:    rpcResp.Error.Code,
			Message: rpcResp.Error.Message,
		}
	}

	if result != nil && rpcResp.Result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("decode result: %w", err)
		}
	}

	return nil
}
