package wallet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// walletFile is the on-disk JSON format. Only the recovery phrase is
// secret; everything else is public metadata the frontends may show
// without asking for the password.
type walletFile struct {
	Version      int       `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	Fingerprint  string    `json:"fingerprint"`
	Network      string    `json:"network"`
	Account      uint32    `json:"account"`
	ScriptTypes  []string  `json:"script_types"`
	Imported     bool      `json:"imported"` // true = restored from an existing phrase
	SealedPhrase []byte    `json:"sealed_phrase"`
}

// Metadata is the public description of a stored wallet.
type Metadata struct {
	Name        string
	CreatedAt   time.Time
	Fingerprint string
	Network     string
	Account     uint32
	ScriptTypes []string
	Imported    bool
}

// Keystore manages encrypted wallet files in a directory.
type Keystore struct {
	dir string
}

// NewKeystore opens (creating if needed) a keystore directory.
func NewKeystore(dir string) (*Keystore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create keystore dir: %w", err)
	}
	return &Keystore{dir: dir}, nil
}

func (ks *Keystore) walletPath(name string) string {
	return filepath.Join(ks.dir, name+".wallet")
}

// validName rejects names that would escape the keystore directory.
func validName(name string) error {
	if name == "" {
		return fmt.Errorf("empty wallet name")
	}
	if strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return fmt.Errorf("invalid wallet name %q", name)
	}
	return nil
}

// Create seals a recovery phrase under the password and writes a new
// wallet file. The metadata fields describe how the wallet's
// descriptors were generated, so the exact set can be re-imported
// later.
func (ks *Keystore) Create(name string, phrase, password []byte, meta Metadata, params KDFParams) error {
	if err := validName(name); err != nil {
		return err
	}
	path := ks.walletPath(name)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("wallet %q already exists", name)
	}

	sealed, err := SealPhrase(phrase, password, params)
	if err != nil {
		return fmt.Errorf("seal phrase: %w", err)
	}

	wf := walletFile{
		Version:      1,
		CreatedAt:    time.Now().UTC(),
		Fingerprint:  meta.Fingerprint,
		Network:      meta.Network,
		Account:      meta.Account,
		ScriptTypes:  meta.ScriptTypes,
		Imported:     meta.Imported,
		SealedPhrase: sealed,
	}
	return ks.writeFile(path, &wf)
}

// Open decrypts a wallet and returns the recovery phrase. The caller
// owns the returned bytes and should wipe them after use.
func (ks *Keystore) Open(name string, password []byte) ([]byte, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	wf, err := ks.readFile(ks.walletPath(name))
	if err != nil {
		return nil, err
	}
	phrase, err := OpenPhrase(wf.SealedPhrase, password)
	if err != nil {
		return nil, fmt.Errorf("unlock wallet %q: %w", name, err)
	}
	return phrase, nil
}

// Info returns the public metadata of a wallet without unlocking it.
func (ks *Keystore) Info(name string) (*Metadata, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	wf, err := ks.readFile(ks.walletPath(name))
	if err != nil {
		return nil, err
	}
	return &Metadata{
		Name:        name,
		CreatedAt:   wf.CreatedAt,
		Fingerprint: wf.Fingerprint,
		Network:     wf.Network,
		Account:     wf.Account,
		ScriptTypes: wf.ScriptTypes,
		Imported:    wf.Imported,
	}, nil
}

// List returns the names of all wallet files in the keystore.
func (ks *Keystore) List() ([]string, error) {
	entries, err := os.ReadDir(ks.dir)
	if err != nil {
		return nil, fmt.Errorf("read keystore dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if ext := filepath.Ext(name); ext == ".wallet" {
			names = append(names, name[:len(name)-len(ext)])
		}
	}
	return names, nil
}

// Delete removes a wallet file. The node keeps its own imported copy
// of the descriptors; this only forgets the local phrase backup.
func (ks *Keystore) Delete(name string) error {
	if err := validName(name); err != nil {
		return err
	}
	path := ks.walletPath(name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("wallet %q not found", name)
	}
	return os.Remove(path)
}

func (ks *Keystore) writeFile(path string, wf *walletFile) error {
	data, err := json.MarshalIndent(wf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal wallet: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write wallet: %w", err)
	}
	return nil
}

func (ks *Keystore) readFile(path string) (*walletFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wallet: %w", err)
	}
	var wf walletFile
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("parse wallet: %w", err)
	}
	if wf.Version != 1 {
		return nil, fmt.Errorf("unsupported wallet version: %d", wf.Version)
	}
	return &wf, nil
}
