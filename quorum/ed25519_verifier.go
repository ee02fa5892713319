package quorum

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/clearnetwork/clearnet/core"
)

var (
	ErrSignatureArityMismatch = errors.New("signatures do not pair with participants")
	ErrUnknownSigner          = errors.New("signer is not an active participant")
	ErrInvalidSignature       = errors.New("signature does not validate against the state digest")
	ErrBelowThreshold         = errors.New("valid signatures below quorum threshold")
)

// Ed25519Verifier checks state attestations signed with ed25519. A
// participant identity is the hex encoding of its public key; Signatures[i]
// belongs to Participants[i], with a nil entry meaning the participant did
// not sign.
type Ed25519Verifier struct {
	policy Policy
}

func NewEd25519Verifier(policy Policy) *Ed25519Verifier {
	return &Ed25519Verifier{policy: policy}
}

func (v *Ed25519Verifier) Verify(state *core.State, activeParticipants []string) error {
	if state == nil {
		return errors.New("state cannot be nil")
	}

	if len(state.Participants) == 0 {
		return fmt.Errorf("%w: empty participant set", ErrBelowThreshold)
	}

	if len(state.Signatures) != len(state.Participants) {
		return fmt.Errorf("%w: %d signatures for %d participants",
			ErrSignatureArityMismatch, len(state.Signatures), len(state.Participants))
	}

	active := make(map[string]bool, len(activeParticipants))
	for _, participant := range activeParticipants {
		active[participant] = true
	}

	digest := state.SigningDigest()

	var validSignatures int
	seen := make(map[string]bool, len(state.Participants))
	for i, participant := range state.Participants {
		if !active[participant] {
			return fmt.Errorf("%w: %s", ErrUnknownSigner, participant)
		}

		signature := state.Signatures[i]
		if signature == nil {
			continue
		}

		pubKey, err := hex.DecodeString(participant)
		if err != nil || len(pubKey) != ed25519.PublicKeySize {
			return fmt.Errorf("%w: %s is not an ed25519 public key", ErrUnknownSigner, participant)
		}

		if !ed25519.Verify(pubKey, digest, signature) {
			return fmt.Errorf("%w: signer %s", ErrInvalidSignature, participant)
		}

		// Duplicate participant entries count once.
		if !seen[participant] {
			seen[participant] = true
			validSignatures++
		}
	}

	required := v.policy.RequiredSignatures(len(activeParticipants))
	if validSignatures < required {
		return fmt.Errorf("%w: got %d, want at least %d of %d",
			ErrBelowThreshold, validSignatures, required, len(activeParticipants))
	}

	return nil
}
