package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/domain"
	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	configName       = "config"
	configType       = "toml"
	walletPathKey    = "wallet.path"
	walletFileMode   = 0o600
	walletDirMode    = 0o700
	walletConfigDir  = ".stakesteal"
	walletConfigFile = "wallet.toml"
	tempFilePattern  = ".wallet-*.toml.tmp"
)

// Repository holds the single LocalCredentialRecord for this device profile.
// Secret material never leaves this file, so it gets the same 0600 treatment
// as a secret store.
type Repository struct {
	walletPath string
	mu         *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.WalletRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultPath := filepath.Join(homeDir, walletConfigDir, walletConfigFile)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, walletConfigDir))
	cfg.SetDefault(walletPathKey, defaultPath)

	err = cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	walletPath := cfg.GetString(walletPathKey)
	if walletPath == "" {
		return nil, errors.New("wallet path is empty")
	}
	walletPath, err = normalizeWalletPath(walletPath)
	if err != nil {
		return nil, err
	}

	return NewRepositoryAt(walletPath), nil
}

// NewRepositoryAt bypasses config resolution; used by tests and wire-time
// overrides.
func NewRepositoryAt(walletPath string) *Repository {
	walletPath = filepath.Clean(walletPath)
	return &Repository{walletPath: walletPath, mu: lockForPath(walletPath)}
}

func (r *Repository) Get(ctx context.Context) (domain.LocalCredentialRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.LocalCredentialRecord{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.LocalCredentialRecord{}, err
	}

	if file.Wallet == nil || file.Wallet.Identity == "" {
		return domain.LocalCredentialRecord{}, domain.ErrWalletRecordNotFound
	}

	return fromSchema(*file.Wallet), nil
}

func (r *Repository) Save(ctx context.Context, record domain.LocalCredentialRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}
	file.applyDefaults()

	encoded := toSchema(record)
	file.Wallet = &encoded

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

// Update re-reads the record, applies fn, and writes the result back while
// holding the write lock for the whole read-modify-write.
func (r *Repository) Update(ctx context.Context, fn func(domain.LocalCredentialRecord) (domain.LocalCredentialRecord, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	if file.Wallet == nil || file.Wallet.Identity == "" {
		return domain.ErrWalletRecordNotFound
	}

	updated, err := fn(fromSchema(*file.Wallet))
	if err != nil {
		return err
	}

	file.applyDefaults()
	encoded := toSchema(updated)
	file.Wallet = &encoded

	return r.writeSchema(file)
}

func (r *Repository) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}
	if file.Wallet == nil {
		return nil
	}

	file.applyDefaults()
	file.Wallet = nil

	return r.writeSchema(file)
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.walletPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read wallet file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode wallet file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.walletPath), walletDirMode); err != nil {
		return fmt.Errorf("create wallet directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode wallet file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.walletPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp wallet file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp wallet file: %w", err)
	}

	if err := tempFile.Chmod(walletFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp wallet file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp wallet file: %w", err)
	}

	if err := os.Rename(tempName, r.walletPath); err != nil {
		return fmt.Errorf("replace wallet file: %w", err)
	}

	cleanup = false

	if err := os.Chmod(r.walletPath, walletFileMode); err != nil {
		return fmt.Errorf("chmod wallet file: %w", err)
	}

	return nil
}

func normalizeWalletPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve wallet path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func toSchema(record domain.LocalCredentialRecord) walletSchema {
	return walletSchema{
		Identity:       record.Identity,
		LocalChainID:   record.LocalChainID,
		SecretMaterial: record.SecretMaterial,
		Balance:        record.Balance,
		CreatedAt:      formatTime(record.CreatedAt),
	}
}

func fromSchema(record walletSchema) domain.LocalCredentialRecord {
	return domain.LocalCredentialRecord{
		Identity:       record.Identity,
		LocalChainID:   record.LocalChainID,
		SecretMaterial: record.SecretMaterial,
		Balance:        record.Balance,
		CreatedAt:      parseTime(record.CreatedAt),
	}
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.Format(time.RFC3339)
}
