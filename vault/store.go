package vault

import (
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
)

// Slot keys. Every logical entity lives under a deterministic key derived
// from a fixed tag plus the relevant identity or asset, one canonical slot
// per entity, no collisions across entity classes.
const (
	configKey        = "config"
	requestKeyPrefix = "request"
	vaultKeyPrefix   = "vault"
)

// OpenSlotDB opens the shared slot store that backs the config, registry,
// ledger and request slots.
func OpenSlotDB(path string) (*leveldb.DB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open slot store: %w", err)
	}
	return db, nil
}

func requestKey(wallet string) []byte {
	return []byte(fmt.Sprintf("%s_%s", requestKeyPrefix, wallet))
}

func vaultKey(asset string) []byte {
	return []byte(fmt.Sprintf("%s_%s", vaultKeyPrefix, asset))
}
