package quorum_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clearnetwork/clearnet/client/modules/keystore"
	"github.com/clearnetwork/clearnet/core"
	"github.com/clearnetwork/clearnet/quorum"
)

func signedState(t *testing.T, parts []*keystore.KeyPair) *core.State {
	t.Helper()

	participants := make([]string, len(parts))
	for i, part := range parts {
		participants[i] = part.GetAddr()
	}

	state := &core.State{
		Wallet:       "alice",
		Asset:        "usd",
		Height:       10,
		Balance:      500,
		Participants: participants,
	}

	digest := state.SigningDigest()
	state.Signatures = make([][]byte, len(parts))
	for i, part := range parts {
		signature, err := part.Sign(digest)
		require.NoError(t, err)
		state.Signatures[i] = signature
	}

	return state
}

func testKeyPairs(n int) []*keystore.KeyPair {
	parts := make([]*keystore.KeyPair, n)
	for i := range parts {
		parts[i] = keystore.NewKeyPair()
	}
	return parts
}

func activeSet(parts []*keystore.KeyPair) []string {
	active := make([]string, len(parts))
	for i, part := range parts {
		active[i] = part.GetAddr()
	}
	return active
}

func TestEd25519Verifier_Verify(t *testing.T) {
	verifier := quorum.NewEd25519Verifier(quorum.DefaultPolicy)
	parts := testKeyPairs(3)

	t.Run("all_signed", func(t *testing.T) {
		state := signedState(t, parts)
		require.NoError(t, verifier.Verify(state, activeSet(parts)))
	})

	t.Run("abstention_above_threshold", func(t *testing.T) {
		state := signedState(t, parts)
		state.Signatures[2] = nil
		require.NoError(t, verifier.Verify(state, activeSet(parts)))
	})

	t.Run("abstentions_below_threshold", func(t *testing.T) {
		state := signedState(t, parts)
		state.Signatures[1] = nil
		state.Signatures[2] = nil
		err := verifier.Verify(state, activeSet(parts))
		require.ErrorIs(t, err, quorum.ErrBelowThreshold)
	})

	t.Run("arity_mismatch", func(t *testing.T) {
		state := signedState(t, parts)
		state.Signatures = state.Signatures[:2]
		err := verifier.Verify(state, activeSet(parts))
		require.ErrorIs(t, err, quorum.ErrSignatureArityMismatch)
	})

	t.Run("unknown_signer", func(t *testing.T) {
		state := signedState(t, parts)
		err := verifier.Verify(state, activeSet(parts[:2]))
		require.ErrorIs(t, err, quorum.ErrUnknownSigner)
	})

	t.Run("invalid_signature", func(t *testing.T) {
		state := signedState(t, parts)
		state.Signatures[0][0] ^= 0xff
		err := verifier.Verify(state, activeSet(parts))
		require.ErrorIs(t, err, quorum.ErrInvalidSignature)
	})

	t.Run("tampered_state", func(t *testing.T) {
		state := signedState(t, parts)
		state.Balance++
		err := verifier.Verify(state, activeSet(parts))
		require.ErrorIs(t, err, quorum.ErrInvalidSignature)
	})

	t.Run("duplicate_participants_count_once", func(t *testing.T) {
		state := signedState(t, []*keystore.KeyPair{parts[0], parts[0], parts[0]})
		err := verifier.Verify(state, activeSet(parts))
		require.ErrorIs(t, err, quorum.ErrBelowThreshold)
	})

	t.Run("nil_state", func(t *testing.T) {
		require.Error(t, verifier.Verify(nil, activeSet(parts)))
	})
}

func TestPolicy_RequiredSignatures(t *testing.T) {
	req := require.New(t)

	req.Equal(2, quorum.DefaultPolicy.RequiredSignatures(3))
	req.Equal(3, quorum.DefaultPolicy.RequiredSignatures(4))
	req.Equal(1, quorum.DefaultPolicy.RequiredSignatures(1))
	req.Equal(1, quorum.DefaultPolicy.RequiredSignatures(0))

	unanimous := quorum.Policy{Numerator: 1, Denominator: 1}
	req.Equal(5, unanimous.RequiredSignatures(5))
}
