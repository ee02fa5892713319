package vault_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clearnetwork/clearnet/core"
	"github.com/clearnetwork/clearnet/vault"
)

func TestConfigStore_Initialize(t *testing.T) {
	req := require.New(t)

	db, err := vault.OpenSlotDB(filepath.Join(t.TempDir(), "slots"))
	req.NoError(err)
	defer db.Close()

	store := vault.NewConfigStore(db)

	t.Run("not_initialized", func(t *testing.T) {
		_, err := store.Config()
		require.ErrorIs(t, err, core.ErrNotInitialized)
	})

	t.Run("empty_admin", func(t *testing.T) {
		_, err := store.Initialize("")
		require.Error(t, err)
	})

	config, err := store.Initialize("admin_authority")
	req.NoError(err)
	req.Equal("admin_authority", config.Admin)
	req.Equal(vault.DefaultChallengePeriod, config.ChallengePeriod)
	req.Equal(vault.DefaultRequestBond, config.RequestBond)

	t.Run("already_initialized", func(t *testing.T) {
		_, err := store.Initialize("other_admin")
		require.ErrorIs(t, err, core.ErrAlreadyInitialized)
	})

	loaded, err := store.Config()
	req.NoError(err)
	req.Equal(config, loaded)

	admin, err := store.Admin()
	req.NoError(err)
	req.Equal("admin_authority", admin)
}
