package main

import (
	"context"
	"time"
)

// NodeService exposes node status queries to the frontend.
type NodeService struct {
	app *App
}

// NodeStatus describes the node's chain state for the status bar.
type NodeStatus struct {
	Chain         string  `json:"chain"`
	Blocks        int64   `json:"blocks"`
	Headers       int64   `json:"headers"`
	BestBlockHash string  `json:"best_block_hash"`
	Progress      float64 `json:"progress"`
	Syncing       bool    `json:"syncing"`
	Wallets       int     `json:"wallets"`
}

// GetStatus returns the node's chain state and loaded wallet count.
func (n *NodeService) GetStatus() (*NodeStatus, error) {
	client, err := n.app.rpcClient()
	if err != nil {
		return nil, err
	}
	info, err := client.GetBlockchainInfo(n.app.ctx)
	if err != nil {
		return nil, err
	}
	status := &NodeStatus{
		Chain:         info.Chain,
		Blocks:        info.Blocks,
		Headers:       info.Headers,
		BestBlockHash: info.BestBlockHash,
		Progress:      info.VerificationProgress,
		Syncing:       info.InitialBlockDownload,
	}
	if wallets, err := client.ListWallets(n.app.ctx); err == nil {
		status.Wallets = len(wallets)
	}
	return status, nil
}

// WaitForNode blocks until the node answers RPC calls or the timeout
// elapses. Called right after the user starts a local node.
func (n *NodeService) WaitForNode(timeoutSeconds int) error {
	client, err := n.app.rpcClient()
	if err != nil {
		return err
	}
	if timeoutSeconds <= 0 {
		timeoutSeconds = 60
	}
	ctx, cancel := context.WithTimeout(n.app.ctx, time.Duration(timeoutSeconds)*time.Second)
	defer cancel()
	return client.WaitForReady(ctx, time.Second)
}

// StopNode asks the node to shut down.
func (n *NodeService) StopNode() (string, error) {
	client, err := n.app.rpcClient()
	if err != nil {
		return "", err
	}
	return client.Stop(n.app.ctx)
}
