package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/clearnetwork/clearnet/core"
)

const nodeKeyPrefix = "node"

// NodeEntry is one participant's registry slot, keyed by its authority.
// Deactivation flips the flag; entries are never deleted.
type NodeEntry struct {
	Authority string `json:"authority"`
	IsActive  bool   `json:"is_active"`
}

// AdminSource tells the registry who the configured administrator is.
type AdminSource interface {
	Admin() (string, error)
}

type NodeRegistry interface {
	SetStatus(caller, authority string, active bool) error
	IsActive(authority string) (bool, error)
	ActiveParticipants() ([]string, error)
}

// LevelDBNodeRegistry keeps one slot per authority under the key
// "node_<authority>", giving every participant a canonical, collision-free
// address in the shared slot store.
type LevelDBNodeRegistry struct {
	sync.Mutex
	db    *leveldb.DB
	admin AdminSource
}

func NewLevelDBNodeRegistry(db *leveldb.DB, admin AdminSource) *LevelDBNodeRegistry {
	return &LevelDBNodeRegistry{
		db:    db,
		admin: admin,
	}
}

func nodeKey(authority string) []byte {
	return []byte(fmt.Sprintf("%s_%s", nodeKeyPrefix, authority))
}

// SetStatus creates the entry for authority if absent, otherwise updates its
// active flag. Only the configured admin may call it.
func (r *LevelDBNodeRegistry) SetStatus(caller, authority string, active bool) error {
	if authority == "" {
		return errors.New("authority cannot be empty")
	}

	admin, err := r.admin.Admin()
	if err != nil {
		return fmt.Errorf("failed to read admin: %w", err)
	}

	if caller != admin {
		return core.ErrNotAdmin
	}

	r.Lock()
	defer r.Unlock()

	entry := NodeEntry{
		Authority: authority,
		IsActive:  active,
	}
	bz, err := json.Marshal(&entry)
	if err != nil {
		return fmt.Errorf("failed to marshal node entry: %w", err)
	}

	if err := r.db.Put(nodeKey(authority), bz, nil); err != nil {
		return fmt.Errorf("failed to save node entry for %s: %w", authority, err)
	}

	return nil
}

func (r *LevelDBNodeRegistry) IsActive(authority string) (bool, error) {
	r.Lock()
	defer r.Unlock()

	bz, err := r.db.Get(nodeKey(authority), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read node entry for %s: %w", authority, err)
	}

	var entry NodeEntry
	if err := json.Unmarshal(bz, &entry); err != nil {
		return false, fmt.Errorf("failed to unmarshal node entry for %s: %w", authority, err)
	}

	return entry.IsActive, nil
}

// ActiveParticipants returns the authorities whose active flag is set; this
// is the set the quorum verifier checks signers against.
func (r *LevelDBNodeRegistry) ActiveParticipants() ([]string, error) {
	r.Lock()
	defer r.Unlock()

	var participants []string

	iter := r.db.NewIterator(util.BytesPrefix([]byte(nodeKeyPrefix+"_")), nil)
	defer iter.Release()

	for iter.Next() {
		var entry NodeEntry
		if err := json.Unmarshal(iter.Value(), &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal node entry %s: %w", string(iter.Key()), err)
		}
		if entry.IsActive {
			participants = append(participants, entry.Authority)
		}
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to iterate node entries: %w", err)
	}

	return participants, nil
}
