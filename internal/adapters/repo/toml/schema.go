package toml

import "fmt"

const schemaVersion = 1

type fileSchema struct {
	Version int           `toml:"version"`
	Wallet  *walletSchema `toml:"wallet,omitempty"`
}

type walletSchema struct {
	Identity       string `toml:"identity"`
	LocalChainID   string `toml:"local_chain_id"`
	SecretMaterial string `toml:"secret_material"`
	Balance        string `toml:"balance"`
	CreatedAt      string `toml:"created_at"`
}

func (f *fileSchema) applyDefaults() {
	if f.Version == 0 {
		f.Version = schemaVersion
	}
}

func (f fileSchema) validateVersion() error {
	if f.Version != 0 && f.Version != schemaVersion {
		return fmt.Errorf("unsupported wallet file version %d", f.Version)
	}
	return nil
}
