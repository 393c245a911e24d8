package toml

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func newTestBinder(t *testing.T) *Binder {
	t.Helper()
	return NewBinder(
		filepath.Join(t.TempDir(), "gamestate.toml"),
		fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
	)
}

func TestBindInSeedsUnseenIdentity(t *testing.T) {
	t.Parallel()

	binder := newTestBinder(t)

	require.NoError(t, binder.BindIn(context.Background(), "User:aa", "10000"))

	player, err := binder.Player(context.Background(), "User:aa")
	require.NoError(t, err)
	assert.Equal(t, "10000", player.Balance)

	active, err := binder.Active(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "User:aa", active)
}

func TestBindInKeepsExistingBalance(t *testing.T) {
	t.Parallel()

	binder := newTestBinder(t)

	require.NoError(t, binder.BindIn(context.Background(), "User:aa", "10000"))
	require.NoError(t, binder.MigrateOut(context.Background(), "User:aa"))

	// Rebinding with a different seed must not reset already-seen state.
	require.NoError(t, binder.BindIn(context.Background(), "User:aa", "500"))

	player, err := binder.Player(context.Background(), "User:aa")
	require.NoError(t, err)
	assert.Equal(t, "10000", player.Balance)
}

func TestMigrateOutReleasesActiveSlot(t *testing.T) {
	t.Parallel()

	binder := newTestBinder(t)

	require.NoError(t, binder.BindIn(context.Background(), "User:aa", "10000"))
	require.NoError(t, binder.MigrateOut(context.Background(), "User:aa"))

	active, err := binder.Active(context.Background())
	require.NoError(t, err)
	assert.Empty(t, active)

	_, err = binder.Player(context.Background(), "User:aa")
	require.NoError(t, err)
}

func TestIdentitySwitchPreservesBothRecords(t *testing.T) {
	t.Parallel()

	binder := newTestBinder(t)

	require.NoError(t, binder.BindIn(context.Background(), "User:aa", "10000"))
	require.NoError(t, binder.MigrateOut(context.Background(), "User:aa"))
	require.NoError(t, binder.BindIn(context.Background(), "User:bb", "10000"))

	for _, identity := range []string{"User:aa", "User:bb"} {
		_, err := binder.Player(context.Background(), identity)
		require.NoError(t, err, identity)
	}

	active, err := binder.Active(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "User:bb", active)
}

func TestMigrateOutUnknownIdentityIsNoOp(t *testing.T) {
	t.Parallel()

	binder := newTestBinder(t)

	require.NoError(t, binder.MigrateOut(context.Background(), "User:never-seen"))
}

func TestPlayerNotFound(t *testing.T) {
	t.Parallel()

	binder := newTestBinder(t)

	_, err := binder.Player(context.Background(), "User:missing")
	require.ErrorIs(t, err, ErrPlayerNotFound)
}
