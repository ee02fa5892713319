package quorum

import (
	"github.com/clearnetwork/clearnet/core"
)

// Verifier decides whether a state attestation is validly authorized by the
// active participant set. Implementations must reject unknown signers,
// invalid signatures and signature sets below the quorum threshold.
type Verifier interface {
	Verify(state *core.State, activeParticipants []string) error
}

// Policy is the quorum threshold expressed as a fraction of the active
// participant set. Unanimity is {1, 1}; the default is a 2/3 majority.
type Policy struct {
	Numerator   int
	Denominator int
}

var DefaultPolicy = Policy{Numerator: 2, Denominator: 3}

// RequiredSignatures returns the minimum number of valid signatures for a
// participant set of the given size (rounded up, never zero).
func (p Policy) RequiredSignatures(participants int) int {
	if participants <= 0 {
		return 1
	}

	required := (participants*p.Numerator + p.Denominator - 1) / p.Denominator
	if required < 1 {
		required = 1
	}
	return required
}
