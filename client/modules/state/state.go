package state

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/clearnetwork/clearnet/core"
)

const (
	offsetKey            = "offset"
	latestStateKeyPrefix = "latest_state"
)

// State is the node's local view of the stream: the consumer offset and the
// freshest attested state seen per wallet. The latest states are what the
// watchtower compares pending claims against.
type State interface {
	SaveOffset(uint64) error
	LoadOffset() (uint64, error)

	SaveLatestState(wallet string, state *core.State) error
	LoadLatestState(wallet string) (*core.State, bool, error)
}

type LevelDBState struct {
	sync.Mutex
	stateDb *leveldb.DB
}

func NewLevelDBState(stateDbPath string) (State, error) {
	db, err := leveldb.OpenFile(stateDbPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open stateDB: %w", err)
	}

	state := &LevelDBState{
		stateDb: db,
	}

	// Init state key for offset bytes.
	if _, err := state.stateDb.Get([]byte(offsetKey), nil); err != nil {
		bz := make([]byte, 8)
		binary.LittleEndian.PutUint64(bz, 0)
		if err := db.Put([]byte(offsetKey), bz, nil); err != nil {
			return nil, fmt.Errorf("failed to init %s storage: %w", offsetKey, err)
		}
	}

	return state, nil
}

func (s *LevelDBState) SaveOffset(offset uint64) error {
	bz := make([]byte, 8)
	binary.LittleEndian.PutUint64(bz, offset)

	if err := s.stateDb.Put([]byte(offsetKey), bz, nil); err != nil {
		return fmt.Errorf("failed to set offset: %w", err)
	}

	return nil
}

func (s *LevelDBState) LoadOffset() (uint64, error) {
	bz, err := s.stateDb.Get([]byte(offsetKey), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to read offset: %w", err)
	}

	offset := binary.LittleEndian.Uint64(bz)

	return offset, nil
}

func makeLatestStateKey(wallet string) []byte {
	return []byte(fmt.Sprintf("%s_%s", latestStateKeyPrefix, wallet))
}

// SaveLatestState records state as the freshest attested state for its
// wallet. Stale heights are ignored so replayed messages cannot rewind the
// local view.
func (s *LevelDBState) SaveLatestState(wallet string, state *core.State) error {
	if state == nil {
		return errors.New("state cannot be nil")
	}

	s.Lock()
	defer s.Unlock()

	current, ok, err := s.loadLatestState(wallet)
	if err != nil {
		return fmt.Errorf("failed to loadLatestState: %w", err)
	}

	if ok && state.Height <= current.Height {
		return nil
	}

	stateBz, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := s.stateDb.Put(makeLatestStateKey(wallet), stateBz, nil); err != nil {
		return fmt.Errorf("failed to save latest state: %w", err)
	}

	return nil
}

func (s *LevelDBState) LoadLatestState(wallet string) (*core.State, bool, error) {
	s.Lock()
	defer s.Unlock()

	return s.loadLatestState(wallet)
}

func (s *LevelDBState) loadLatestState(wallet string) (*core.State, bool, error) {
	bz, err := s.stateDb.Get(makeLatestStateKey(wallet), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get latest state for wallet %s: %w", wallet, err)
	}

	var state core.State
	if err := json.Unmarshal(bz, &state); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal latest state: %w", err)
	}

	return &state, true, nil
}
