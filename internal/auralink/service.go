// Package auralink is the on-chain points bridge. The chain integration is
// not live yet; the service answers deterministically so the points flow
// never depends on it.
package auralink

import (
	"context"
	"log"
	"strings"
)

// BurnResult reports the outcome of a burn request.
type BurnResult struct {
	Accepted bool   `json:"accepted"`
	TxHash   string `json:"tx_hash,omitempty"`
	Message  string `json:"message"`
}

type Service struct {
	contractAddress string
}

func NewService(contractAddress string) *Service {
	return &Service{contractAddress: strings.TrimSpace(contractAddress)}
}

// Enabled reports whether a bridge contract is configured.
func (s *Service) Enabled() bool {
	return s.contractAddress != ""
}

// BurnPoints would exchange points for on-chain tokens. Until the bridge
// ships it only logs and declines.
func (s *Service) BurnPoints(_ context.Context, walletAddress string, amount int) BurnResult {
	if !s.Enabled() {
		return BurnResult{Accepted: false, Message: "token bridge not enabled"}
	}
	log.Printf("auralink burn requested wallet=%s amount=%d contract=%s (bridge pending)", walletAddress, amount, s.contractAddress)
	return BurnResult{Accepted: false, Message: "token bridge not yet available"}
}
