package withdrawal_fsm

import (
	"github.com/clearnetwork/clearnet/fsm/fsm"
)

const (
	FsmName = "withdrawal_fsm"

	// A wallet's machine starts in fsm.StateGlobalIdle (slot free) and holds
	// at most one pending request at a time.
	StateWithdrawalPending = fsm.State("state_withdrawal_pending")

	// Terminal states. Reaching either one frees the slot: the dump is
	// deleted and the next request starts a fresh machine.
	StateWithdrawalRejected = fsm.State("state_withdrawal_rejected")
	StateWithdrawalPaid     = fsm.State("state_withdrawal_paid")

	EventWithdrawalOpen      = fsm.Event("event_withdrawal_open")
	EventWithdrawalChallenge = fsm.Event("event_withdrawal_challenge")
	EventWithdrawalFinalize  = fsm.Event("event_withdrawal_finalize")
)

type WithdrawalFSM struct {
	*fsm.FSM
}

func New() *WithdrawalFSM {
	machine := &WithdrawalFSM{}

	machine.FSM = fsm.MustNewFSM(
		FsmName,
		fsm.StateGlobalIdle,
		[]fsm.EventDesc{
			// Open a pending request.
			{Name: EventWithdrawalOpen, SrcState: []fsm.State{fsm.StateGlobalIdle}, DstState: StateWithdrawalPending},

			// A pending request is closed by exactly one of the two exit
			// events; the slot is no longer pending afterwards.
			{Name: EventWithdrawalChallenge, SrcState: []fsm.State{StateWithdrawalPending}, DstState: StateWithdrawalRejected},
			{Name: EventWithdrawalFinalize, SrcState: []fsm.State{StateWithdrawalPending}, DstState: StateWithdrawalPaid},
		},
		fsm.Callbacks{
			EventWithdrawalOpen:      machine.actionWithdrawalOpen,
			EventWithdrawalChallenge: machine.actionWithdrawalChallenge,
			EventWithdrawalFinalize:  machine.actionWithdrawalFinalize,
		},
	)
	return machine
}
