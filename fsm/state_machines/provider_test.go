package state_machines

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clearnetwork/clearnet/core"
	"github.com/clearnetwork/clearnet/fsm/fsm"
	"github.com/clearnetwork/clearnet/fsm/state_machines/withdrawal_fsm"
	"github.com/clearnetwork/clearnet/fsm/types/requests"
)

const (
	testWallet = "d8a928b2043db77e340b523547bf16cb4aa483f0645fe0a290ed1f20aab76257"
	testAsset  = "usd"
)

func testState(height, balance uint64) *core.State {
	return &core.State{
		Wallet:       testWallet,
		Asset:        testAsset,
		Height:       height,
		Balance:      balance,
		Participants: []string{"node1", "node2", "node3"},
	}
}

func testOpenRequest(amount uint64) requests.WithdrawalOpenRequest {
	return requests.WithdrawalOpenRequest{
		State:           testState(10, 500),
		Amount:          amount,
		Bond:            10,
		RequestedAt:     1700000000,
		ChallengePeriod: 600,
	}
}

func TestCreate_Positive(t *testing.T) {
	req := require.New(t)

	instance, err := Create(testWallet)
	req.NoError(err)
	req.Equal(fsm.StateGlobalIdle, instance.State())
	req.Equal(testWallet, instance.Wallet())
	req.False(instance.Closed())
}

func TestCreate_EmptyWallet_Negative(t *testing.T) {
	_, err := Create("")
	require.Error(t, err)
}

func TestInstance_Open(t *testing.T) {
	req := require.New(t)

	instance, err := Create(testWallet)
	req.NoError(err)

	response, dump, err := instance.Do(withdrawal_fsm.EventWithdrawalOpen, testOpenRequest(400))
	req.NoError(err)
	req.Equal(withdrawal_fsm.StateWithdrawalPending, response.State)
	req.NotEmpty(dump)

	request := instance.Request()
	req.Equal(testWallet, request.Wallet)
	req.Equal(testAsset, request.Asset)
	req.EqualValues(400, request.Amount)
	req.EqualValues(10, request.Height)
	req.EqualValues(1700000600, request.Expiration)
	req.EqualValues(10, instance.Bond())
	req.False(instance.Closed())
}

func TestInstance_Open_AmountExceedsBalance_Negative(t *testing.T) {
	req := require.New(t)

	instance, err := Create(testWallet)
	req.NoError(err)

	_, _, err = instance.Do(withdrawal_fsm.EventWithdrawalOpen, testOpenRequest(600))
	req.ErrorIs(err, core.ErrInsufficientAttestedBalance)

	// A failed open leaves the machine idle.
	req.Equal(fsm.StateGlobalIdle, instance.State())
}

func TestInstance_ChallengeAfterRestore(t *testing.T) {
	req := require.New(t)

	instance, err := Create(testWallet)
	req.NoError(err)

	_, dump, err := instance.Do(withdrawal_fsm.EventWithdrawalOpen, testOpenRequest(400))
	req.NoError(err)

	restored, err := FromDump(dump)
	req.NoError(err)
	req.Equal(withdrawal_fsm.StateWithdrawalPending, restored.State())
	req.Equal(instance.Request(), restored.Request())

	t.Run("not_newer_candidate", func(t *testing.T) {
		_, _, err := restored.Do(withdrawal_fsm.EventWithdrawalChallenge, requests.WithdrawalChallengeRequest{
			Candidate: testState(10, 200),
		})
		require.ErrorIs(t, err, core.ErrCandidateNotNewer)
		require.Equal(t, withdrawal_fsm.StateWithdrawalPending, restored.State())
	})

	t.Run("wrong_wallet", func(t *testing.T) {
		candidate := testState(11, 200)
		candidate.Wallet = "other_wallet"
		_, _, err := restored.Do(withdrawal_fsm.EventWithdrawalChallenge, requests.WithdrawalChallengeRequest{
			Candidate: candidate,
		})
		require.ErrorIs(t, err, core.ErrStateMismatch)
	})

	t.Run("success", func(t *testing.T) {
		response, _, err := restored.Do(withdrawal_fsm.EventWithdrawalChallenge, requests.WithdrawalChallengeRequest{
			Candidate: testState(11, 200),
		})
		require.NoError(t, err)
		require.Equal(t, withdrawal_fsm.StateWithdrawalRejected, response.State)
		require.True(t, restored.Closed())
	})
}

func TestInstance_Finalize(t *testing.T) {
	req := require.New(t)

	instance, err := Create(testWallet)
	req.NoError(err)

	_, _, err = instance.Do(withdrawal_fsm.EventWithdrawalOpen, testOpenRequest(400))
	req.NoError(err)

	t.Run("premature", func(t *testing.T) {
		_, _, err := instance.Do(withdrawal_fsm.EventWithdrawalFinalize, requests.WithdrawalFinalizeRequest{
			Finalize:    testState(10, 500),
			FinalizedAt: 1700000599,
		})
		require.ErrorIs(t, err, core.ErrChallengePeriodNotExpired)
		require.Equal(t, withdrawal_fsm.StateWithdrawalPending, instance.State())
	})

	t.Run("height_mismatch", func(t *testing.T) {
		_, _, err := instance.Do(withdrawal_fsm.EventWithdrawalFinalize, requests.WithdrawalFinalizeRequest{
			Finalize:    testState(11, 500),
			FinalizedAt: 1700000600,
		})
		require.ErrorIs(t, err, core.ErrStateMismatch)
	})

	t.Run("success", func(t *testing.T) {
		response, _, err := instance.Do(withdrawal_fsm.EventWithdrawalFinalize, requests.WithdrawalFinalizeRequest{
			Finalize:    testState(10, 500),
			FinalizedAt: 1700000600,
		})
		require.NoError(t, err)
		require.Equal(t, withdrawal_fsm.StateWithdrawalPaid, response.State)
		require.True(t, instance.Closed())
	})
}

func TestInstance_NoEventsFromFinState(t *testing.T) {
	req := require.New(t)

	instance, err := Create(testWallet)
	req.NoError(err)

	_, _, err = instance.Do(withdrawal_fsm.EventWithdrawalOpen, testOpenRequest(400))
	req.NoError(err)

	_, _, err = instance.Do(withdrawal_fsm.EventWithdrawalChallenge, requests.WithdrawalChallengeRequest{
		Candidate: testState(11, 200),
	})
	req.NoError(err)

	_, _, err = instance.Do(withdrawal_fsm.EventWithdrawalFinalize, requests.WithdrawalFinalizeRequest{
		Finalize:    testState(10, 500),
		FinalizedAt: 1700000600,
	})
	req.Error(err)
}

func TestFromDump_Empty_Negative(t *testing.T) {
	_, err := FromDump(nil)
	require.Error(t, err)
}
