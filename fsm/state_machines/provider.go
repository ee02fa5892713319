package state_machines

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/clearnetwork/clearnet/core"
	"github.com/clearnetwork/clearnet/fsm/fsm"
	"github.com/clearnetwork/clearnet/fsm/state_machines/internal"
	"github.com/clearnetwork/clearnet/fsm/state_machines/withdrawal_fsm"
)

// WithdrawalDump is the serialized per-wallet machine: its current state plus
// the request slot payload. One dump per wallet lives in the slot store while
// a request is pending; it is deleted when the machine reaches a fin state.
type WithdrawalDump struct {
	Wallet  string                          `json:"wallet"`
	State   fsm.State                       `json:"state"`
	Payload internal.WithdrawalStatePayload `json:"payload"`
}

func (d *WithdrawalDump) Marshal() ([]byte, error) {
	return json.Marshal(d)
}

func (d *WithdrawalDump) Unmarshal(data []byte) error {
	return json.Unmarshal(data, d)
}

// WithdrawalInstance pairs a live machine with its dump.
type WithdrawalInstance struct {
	machine *withdrawal_fsm.WithdrawalFSM
	dump    *WithdrawalDump
}

// Create makes a fresh machine for a wallet with a free slot.
func Create(wallet string) (*WithdrawalInstance, error) {
	if wallet == "" {
		return nil, errors.New("wallet cannot be empty")
	}

	return &WithdrawalInstance{
		machine: withdrawal_fsm.New(),
		dump: &WithdrawalDump{
			Wallet: wallet,
			State:  fsm.StateGlobalIdle,
		},
	}, nil
}

// FromDump restores a machine persisted by a previous operation.
func FromDump(data []byte) (*WithdrawalInstance, error) {
	if len(data) == 0 {
		return nil, errors.New("cannot restore machine from empty dump")
	}

	i := &WithdrawalInstance{
		machine: withdrawal_fsm.New(),
		dump:    &WithdrawalDump{},
	}
	if err := i.dump.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("cannot read machine dump: %w", err)
	}

	i.machine.SetState(i.dump.State)
	return i, nil
}

// Do feeds an event to the machine with the dump payload as the first
// callback argument and returns the response together with the refreshed
// dump. On error the dump is returned unchanged.
func (i *WithdrawalInstance) Do(event fsm.Event, args ...interface{}) (*fsm.Response, []byte, error) {
	result, err := i.machine.Do(event, append([]interface{}{&i.dump.Payload}, args...)...)
	if result != nil {
		i.dump.State = result.State
	}

	dump, dumpErr := i.dump.Marshal()
	if dumpErr != nil {
		return result, nil, fmt.Errorf("cannot marshal machine dump: %w", dumpErr)
	}

	return result, dump, err
}

func (i *WithdrawalInstance) State() fsm.State {
	return i.dump.State
}

func (i *WithdrawalInstance) Wallet() string {
	return i.dump.Wallet
}

// Request returns the current request slot value.
func (i *WithdrawalInstance) Request() core.WithdrawalRequest {
	return i.dump.Payload.Request
}

// Bond returns the bookkeeping reserve posted when the slot was opened.
func (i *WithdrawalInstance) Bond() uint64 {
	return i.dump.Payload.Bond
}

// Closed reports whether the machine reached a terminal state and its slot
// must be released.
func (i *WithdrawalInstance) Closed() bool {
	return i.machine.IsFinState(i.dump.State)
}
