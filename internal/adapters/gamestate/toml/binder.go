// Package toml persists identity-scoped game state. Each identity that has
// ever been bound on this device keeps a discovery record other sessions can
// find, so switching identities never loses unflushed progress.
package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	stateFileMode   = 0o600
	stateDirMode    = 0o700
	tempFilePattern = ".gamestate-*.toml.tmp"
)

var ErrPlayerNotFound = errors.New("player state not found")

// PlayerState is the durable per-identity record. Balance mirrors the
// ledger's decimal-string convention; the counters echo what the remote
// stats query reports and are advisory on this side.
type PlayerState struct {
	Identity         string `toml:"identity"`
	Balance          string `toml:"balance"`
	SuccessfulSteals uint32 `toml:"successful_steals"`
	TimesRaided      uint32 `toml:"times_raided"`
	UpdatedAt        string `toml:"updated_at"`
}

type fileSchema struct {
	Active  string        `toml:"active"`
	Players []PlayerState `toml:"players"`
}

type Binder struct {
	statePath string
	clock     ports.Clock
	mu        sync.Mutex
}

var _ ports.StateBinder = (*Binder)(nil)

func NewBinder(statePath string, clock ports.Clock) *Binder {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Binder{statePath: filepath.Clean(statePath), clock: clock}
}

// MigrateOut flushes the identity's record and releases the active slot.
// Flushing an identity that was never bound is a no-op: there is nothing to
// lose.
func (b *Binder) MigrateOut(ctx context.Context, identity string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	file, err := b.readSchema()
	if err != nil {
		return err
	}

	for i := range file.Players {
		if file.Players[i].Identity == identity {
			file.Players[i].UpdatedAt = b.clock.Now().Format(time.RFC3339)
			break
		}
	}
	if file.Active == identity {
		file.Active = ""
	}

	return b.writeSchema(file)
}

// BindIn loads the identity's record, creating one seeded with
// seedBalance when this identity has never been seen, and marks it active.
func (b *Binder) BindIn(ctx context.Context, identity string, seedBalance string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	file, err := b.readSchema()
	if err != nil {
		return err
	}

	found := false
	for i := range file.Players {
		if file.Players[i].Identity == identity {
			file.Players[i].UpdatedAt = b.clock.Now().Format(time.RFC3339)
			found = true
			break
		}
	}
	if !found {
		file.Players = append(file.Players, PlayerState{
			Identity:  identity,
			Balance:   seedBalance,
			UpdatedAt: b.clock.Now().Format(time.RFC3339),
		})
	}

	file.Active = identity

	return b.writeSchema(file)
}

// Active returns the identity currently bound in, or empty.
func (b *Binder) Active(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	file, err := b.readSchema()
	if err != nil {
		return "", err
	}
	return file.Active, nil
}

// Player returns the discovery record for an identity.
func (b *Binder) Player(ctx context.Context, identity string) (PlayerState, error) {
	if err := ctx.Err(); err != nil {
		return PlayerState{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	file, err := b.readSchema()
	if err != nil {
		return PlayerState{}, err
	}

	for _, player := range file.Players {
		if player.Identity == identity {
			return player, nil
		}
	}

	return PlayerState{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, identity)
}

func (b *Binder) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(b.statePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read game state file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode game state file: %w", err)
	}

	return file, nil
}

func (b *Binder) writeSchema(file fileSchema) error {
	if err := os.MkdirAll(filepath.Dir(b.statePath), stateDirMode); err != nil {
		return fmt.Errorf("create game state directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode game state file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(b.statePath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp game state file: %w", err)
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
		return fmt.Errorf("write temp game state file: %w", err)
	}

	if err := tempFile.Chmod(stateFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp game state file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp game state file: %w", err)
	}

	if err := os.Rename(tempName, b.statePath); err != nil {
		return fmt.Errorf("replace game state file: %w", err)
	}

	cleanup = false

	return nil
}
