package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/clearnetwork/clearnet/core"
)

const (
	// DefaultChallengePeriod is how long a withdrawal claim must stay open
	// and undisputed before it can be finalized, in seconds.
	DefaultChallengePeriod int64 = 600

	// DefaultRequestBond is the bookkeeping reserve posted with every
	// withdrawal request; it pays the successful challenger of a stale
	// claim.
	DefaultRequestBond uint64 = 10
)

type Config struct {
	Admin           string `json:"admin"`
	ChallengePeriod int64  `json:"challenge_period"`
	RequestBond     uint64 `json:"request_bond"`
}

// ConfigStore holds the singleton protocol config under the "config" slot.
// Initialize may succeed exactly once; the config is immutable afterwards.
type ConfigStore struct {
	sync.Mutex
	db *leveldb.DB
}

func NewConfigStore(db *leveldb.DB) *ConfigStore {
	return &ConfigStore{db: db}
}

func (s *ConfigStore) Initialize(admin string) (*Config, error) {
	if admin == "" {
		return nil, errors.New("admin cannot be empty")
	}

	s.Lock()
	defer s.Unlock()

	if _, err := s.db.Get([]byte(configKey), nil); err == nil {
		return nil, core.ErrAlreadyInitialized
	} else if !errors.Is(err, leveldb.ErrNotFound) {
		return nil, fmt.Errorf("failed to read config slot: %w", err)
	}

	config := &Config{
		Admin:           admin,
		ChallengePeriod: DefaultChallengePeriod,
		RequestBond:     DefaultRequestBond,
	}

	bz, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := s.db.Put([]byte(configKey), bz, nil); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	return config, nil
}

func (s *ConfigStore) Config() (*Config, error) {
	s.Lock()
	defer s.Unlock()

	bz, err := s.db.Get([]byte(configKey), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, core.ErrNotInitialized
		}
		return nil, fmt.Errorf("failed to read config slot: %w", err)
	}

	var config Config
	if err := json.Unmarshal(bz, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// Admin satisfies registry.AdminSource.
func (s *ConfigStore) Admin() (string, error) {
	config, err := s.Config()
	if err != nil {
		return "", err
	}
	return config.Admin, nil
}
