package toml

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryGetReturnsNotFoundWhenFileAbsent(t *testing.T) {
	t.Parallel()

	repo := NewRepositoryAt(filepath.Join(t.TempDir(), "wallet.toml"))

	_, err := repo.Get(context.Background())
	require.ErrorIs(t, err, domain.ErrWalletRecordNotFound)
}

func TestRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo := NewRepositoryAt(filepath.Join(t.TempDir(), "wallet.toml"))

	record := domain.LocalCredentialRecord{
		Identity:       "User:" + repeatHex("ab", 32),
		LocalChainID:   repeatHex("cd", 32),
		SecretMaterial: repeatHex("ef", 32),
		Balance:        "10000",
		CreatedAt:      time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	}

	require.NoError(t, repo.Save(context.Background(), record))

	got, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, record, got)
}

func TestRepositorySaveOverwritesExistingRecord(t *testing.T) {
	t.Parallel()

	repo := NewRepositoryAt(filepath.Join(t.TempDir(), "wallet.toml"))

	record := domain.LocalCredentialRecord{
		Identity: "User:" + repeatHex("ab", 32),
		Balance:  "10000",
	}
	require.NoError(t, repo.Save(context.Background(), record))

	record.Balance = "9500"
	require.NoError(t, repo.Save(context.Background(), record))

	got, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "9500", got.Balance)
}

func TestRepositoryUpdateRewritesRecord(t *testing.T) {
	t.Parallel()

	repo := NewRepositoryAt(filepath.Join(t.TempDir(), "wallet.toml"))

	require.NoError(t, repo.Save(context.Background(), domain.LocalCredentialRecord{
		Identity: "User:" + repeatHex("ab", 32),
		Balance:  "10000",
	}))

	require.NoError(t, repo.Update(context.Background(), func(record domain.LocalCredentialRecord) (domain.LocalCredentialRecord, error) {
		record.Balance = "9000"
		return record, nil
	}))

	got, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "9000", got.Balance)
}

func TestRepositoryUpdateWithoutRecordFails(t *testing.T) {
	t.Parallel()

	repo := NewRepositoryAt(filepath.Join(t.TempDir(), "wallet.toml"))

	err := repo.Update(context.Background(), func(record domain.LocalCredentialRecord) (domain.LocalCredentialRecord, error) {
		t.Fatal("update fn must not run without a record")
		return record, nil
	})
	require.ErrorIs(t, err, domain.ErrWalletRecordNotFound)
}

func TestRepositoryUpdateErrorLeavesRecordUntouched(t *testing.T) {
	t.Parallel()

	repo := NewRepositoryAt(filepath.Join(t.TempDir(), "wallet.toml"))

	require.NoError(t, repo.Save(context.Background(), domain.LocalCredentialRecord{
		Identity: "User:" + repeatHex("ab", 32),
		Balance:  "10000",
	}))

	boom := errors.New("nope")
	err := repo.Update(context.Background(), func(record domain.LocalCredentialRecord) (domain.LocalCredentialRecord, error) {
		return domain.LocalCredentialRecord{}, boom
	})
	require.ErrorIs(t, err, boom)

	got, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "10000", got.Balance)
}

func TestRepositoryUpdateSerializesConcurrentMutations(t *testing.T) {
	t.Parallel()

	repo := NewRepositoryAt(filepath.Join(t.TempDir(), "wallet.toml"))

	require.NoError(t, repo.Save(context.Background(), domain.LocalCredentialRecord{
		Identity: "User:" + repeatHex("ab", 32),
		Balance:  "0",
	}))

	const workers, perWorker = 4, 10

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				_ = repo.Update(context.Background(), func(record domain.LocalCredentialRecord) (domain.LocalCredentialRecord, error) {
					balance, err := domain.AddBalance(record.Balance, "1")
					if err != nil {
						return record, err
					}
					record.Balance = balance
					return record, nil
				})
			}
		}()
	}
	wg.Wait()

	got, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "40", got.Balance)
}

func TestRepositoryClearDestroysRecord(t *testing.T) {
	t.Parallel()

	walletPath := filepath.Join(t.TempDir(), "wallet.toml")
	repo := NewRepositoryAt(walletPath)

	record := domain.LocalCredentialRecord{
		Identity: "User:" + repeatHex("ab", 32),
		Balance:  "10000",
	}
	require.NoError(t, repo.Save(context.Background(), record))
	require.NoError(t, repo.Clear(context.Background()))

	_, err := repo.Get(context.Background())
	require.ErrorIs(t, err, domain.ErrWalletRecordNotFound)

	// Clear on an already-empty repository is a no-op.
	require.NoError(t, repo.Clear(context.Background()))
}

func TestRepositoryWritesRestrictiveFileMode(t *testing.T) {
	t.Parallel()

	walletPath := filepath.Join(t.TempDir(), "wallet.toml")
	repo := NewRepositoryAt(walletPath)

	require.NoError(t, repo.Save(context.Background(), domain.LocalCredentialRecord{
		Identity: "User:" + repeatHex("ab", 32),
		Balance:  "10000",
	}))

	info, err := os.Stat(walletPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestNewRepositoryUsesConfiguredPath(t *testing.T) {
	t.Parallel()

	walletPath := filepath.Join(t.TempDir(), "wallet.toml")
	config := viper.New()
	config.Set("wallet.path", walletPath)

	repo, err := NewRepository(config)
	require.NoError(t, err)

	require.NoError(t, repo.Save(context.Background(), domain.LocalCredentialRecord{
		Identity: "User:" + repeatHex("ab", 32),
		Balance:  "10000",
	}))

	_, err = os.Stat(walletPath)
	require.NoError(t, err)
}

func repeatHex(pair string, n int) string {
	out := make([]byte, 0, len(pair)*n)
	for i := 0; i < n; i++ {
		out = append(out, pair...)
	}
	return string(out)
}
