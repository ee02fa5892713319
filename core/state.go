package core

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// State is a co-signed snapshot of a wallet's balance for a single asset.
// It is produced off the critical path by the participant set and never
// mutated after creation; newer snapshots carry a strictly higher Height.
type State struct {
	Wallet       string   `json:"wallet"`
	Asset        string   `json:"asset"`
	Height       uint64   `json:"height"`
	Balance      uint64   `json:"balance"`
	Participants []string `json:"participants"`
	Signatures   [][]byte `json:"signatures"`
}

// SigningDigest returns the canonical digest participants sign. Signatures
// are excluded; participant order is preserved as part of the encoding.
func (s *State) SigningDigest() []byte {
	raw := fmt.Sprintf("%s:%s:%d:%d:%s",
		s.Wallet,
		s.Asset,
		s.Height,
		s.Balance,
		strings.Join(s.Participants, ","),
	)
	digest := sha256.Sum256([]byte(raw))
	return digest[:]
}

func (s *State) Clone() *State {
	participants := make([]string, len(s.Participants))
	copy(participants, s.Participants)

	signatures := make([][]byte, len(s.Signatures))
	for i, sig := range s.Signatures {
		if sig == nil {
			continue
		}
		signatures[i] = make([]byte, len(sig))
		copy(signatures[i], sig)
	}

	return &State{
		Wallet:       s.Wallet,
		Asset:        s.Asset,
		Height:       s.Height,
		Balance:      s.Balance,
		Participants: participants,
		Signatures:   signatures,
	}
}
