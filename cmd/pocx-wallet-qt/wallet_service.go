package main

import (
	"fmt"
	"time"

	"github.com/bitcoin-pocx/pocx-wallet/config"
	"github.com/bitcoin-pocx/pocx-wallet/internal/wallet"
	"github.com/bitcoin-pocx/pocx-wallet/pkg/descriptor"
)

// WalletService exposes wallet operations to the frontend. Keys are
// derived locally from the mnemonic; the node receives the private-key
// descriptors it needs to track and sign, the mnemonic stays in the
// local keystore.
type WalletService struct {
	app *App
}

// WalletSummary is returned after wallet creation or import.
type WalletSummary struct {
	Name        string   `json:"name"`
	Fingerprint string   `json:"fingerprint"`
	Network     string   `json:"network"`
	ScriptTypes []string `json:"script_types"`
	Descriptors int      `json:"descriptors"`
}

// BalanceInfo is the wallet balance broken down by confirmation status.
// Display is the trusted balance pre-formatted for the UI header.
type BalanceInfo struct {
	Trusted          float64 `json:"trusted"`
	UntrustedPending float64 `json:"untrusted_pending"`
	Immature         float64 `json:"immature"`
	Display          string  `json:"display"`
}

// DescriptorEntry is one descriptor for display in the UI.
type DescriptorEntry struct {
	ScriptType string `json:"script_type"`
	Path       string `json:"path"`
	Internal   bool   `json:"internal"`
	Descriptor string `json:"descriptor"`
}

// DescriptorPreview is the derivation result shown before import.
type DescriptorPreview struct {
	Fingerprint string            `json:"fingerprint"`
	Descriptors []DescriptorEntry `json:"descriptors"`
}

// ── Local-only helpers (no node, no keystore) ────────────────────────

// GenerateMnemonic creates a new BIP-39 mnemonic of 12 or 24 words.
func (w *WalletService) GenerateMnemonic(words int) (string, error) {
	strength := wallet.Entropy24Words
	if words == 12 {
		strength = wallet.Entropy12Words
	}
	return wallet.GenerateMnemonic(strength)
}

// ValidateMnemonic checks if a mnemonic phrase is valid.
func (w *WalletService) ValidateMnemonic(mnemonic string) bool {
	return wallet.ValidateMnemonic(mnemonic)
}

// PreviewDescriptors derives the descriptor set for a mnemonic without
// touching the node or the keystore. Used by the create-wallet review step.
func (w *WalletService) PreviewDescriptors(mnemonic, passphrase string) (*DescriptorPreview, error) {
	descs, err := descriptor.Generate(mnemonic, w.options(passphrase, false))
	if err != nil {
		return nil, err
	}
	entries := make([]DescriptorEntry, len(descs.Descriptors))
	for i, d := range descs.Descriptors {
		entries[i] = DescriptorEntry{
			ScriptType: string(d.ScriptType),
			Path:       d.Path,
			Internal:   d.Internal,
			Descriptor: d.Descriptor,
		}
	}
	return &DescriptorPreview{Fingerprint: descs.Fingerprint, Descriptors: entries}, nil
}

// ── Wallet management ────────────────────────────────────────────────

// CreateWallet registers a freshly generated mnemonic with the node and
// stores the sealed phrase locally. The wallet starts watching from now,
// no rescan.
func (w *WalletService) CreateWallet(name, password, mnemonic, passphrase string) (*WalletSummary, error) {
	return w.importWallet(name, password, mnemonic, passphrase, false)
}

// ImportWallet registers an existing mnemonic with the node, rescanning
// the whole chain so prior history is found.
func (w *WalletService) ImportWallet(name, password, mnemonic, passphrase string) (*WalletSummary, error) {
	return w.importWallet(name, password, mnemonic, passphrase, true)
}

func (w *WalletService) importWallet(name, password, mnemonic, passphrase string, rescan bool) (*WalletSummary, error) {
	descs, err := descriptor.Generate(mnemonic, w.options(passphrase, rescan))
	if err != nil {
		return nil, err
	}

	client, err := w.app.rpcClient()
	if err != nil {
		return nil, err
	}
	if err := client.CreateWallet(w.app.ctx, name); err != nil {
		return nil, fmt.Errorf("createwallet: %w", err)
	}
	if err := client.ImportDescriptors(w.app.ctx, name, descs.Descriptors); err != nil {
		return nil, fmt.Errorf("importdescriptors: %w", err)
	}

	ks, err := wallet.NewKeystore(w.app.keystorePath())
	if err != nil {
		return nil, fmt.Errorf("open keystore: %w", err)
	}
	scriptTypes := scriptTypesOf(descs.Descriptors)
	meta := wallet.Metadata{
		Name:        name,
		CreatedAt:   time.Now().UTC(),
		Fingerprint: descs.Fingerprint,
		Network:     string(w.app.network),
		ScriptTypes: scriptTypes,
		Imported:    rescan,
	}
	if err := ks.Create(name, []byte(mnemonic), []byte(password), meta, wallet.DefaultKDFParams()); err != nil {
		return nil, fmt.Errorf("store wallet: %w", err)
	}

	w.app.SetActiveWallet(name)
	if rescan {
		sendOSNotification("Wallet imported", fmt.Sprintf("%s is rescanning the chain", name))
	} else {
		sendOSNotification("Wallet created", fmt.Sprintf("%s is ready", name))
	}
	return &WalletSummary{
		Name:        name,
		Fingerprint: descs.Fingerprint,
		Network:     string(w.app.network),
		ScriptTypes: scriptTypes,
		Descriptors: len(descs.Descriptors),
	}, nil
}

// ListWallets returns the names of locally stored wallets.
func (w *WalletService) ListWallets() ([]string, error) {
	ks, err := wallet.NewKeystore(w.app.keystorePath())
	if err != nil {
		return nil, err
	}
	return ks.List()
}

// GetWalletInfo returns the stored metadata for a wallet. No password
// needed; metadata is public.
func (w *WalletService) GetWalletInfo(name string) (*wallet.Metadata, error) {
	ks, err := wallet.NewKeystore(w.app.keystorePath())
	if err != nil {
		return nil, err
	}
	return ks.Info(name)
}

// GetBalance returns the wallet's balance from the node.
func (w *WalletService) GetBalance(name string) (*BalanceInfo, error) {
	client, err := w.app.rpcClient()
	if err != nil {
		return nil, err
	}
	balances, err := client.GetBalances(w.app.ctx, name)
	if err != nil {
		return nil, err
	}
	return &BalanceInfo{
		Trusted:          balances.Mine.Trusted,
		UntrustedPending: balances.Mine.UntrustedPending,
		Immature:         balances.Mine.Immature,
		Display:          formatBalance(balances.Mine.Trusted),
	}, nil
}

// RevealMnemonic decrypts and returns the stored phrase. The frontend
// shows it once for backup and must not retain it.
func (w *WalletService) RevealMnemonic(name, password string) (string, error) {
	ks, err := wallet.NewKeystore(w.app.keystorePath())
	if err != nil {
		return "", err
	}
	phrase, err := ks.Open(name, []byte(password))
	if err != nil {
		return "", err
	}
	mnemonic := string(phrase)
	wallet.ZeroSeed(phrase)
	return mnemonic, nil
}

// DeleteWallet removes a wallet file from the local keystore. The node's
// wallet is left alone; unloading or deleting it is a node-side decision.
func (w *WalletService) DeleteWallet(name string) error {
	ks, err := wallet.NewKeystore(w.app.keystorePath())
	if err != nil {
		return fmt.Errorf("open keystore: %w", err)
	}
	if err := ks.Delete(name); err != nil {
		return err
	}
	if w.app.activeWallet == name {
		w.app.SetActiveWallet("")
	}
	return nil
}

// options maps the app settings onto descriptor options.
func (w *WalletService) options(passphrase string, rescan bool) descriptor.Options {
	opts := descriptor.DefaultOptions()
	opts.Passphrase = passphrase
	opts.Testnet = w.app.network != config.Mainnet
	opts.Rescan = rescan
	return opts
}
