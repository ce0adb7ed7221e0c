package staking

import (
	"github.com/krazyTry/reward-pool-go/ledger"
)

// RewardPoolClient groups high-level services.
type RewardPoolClient struct {
	Pool     *PoolService
	Position *PositionService
	State    *StateService
	Program  *RewardPoolProgram
}

// NewRewardPoolClient builds every service over one shared program.
func NewRewardPoolClient(store ledger.AccountStore, tokens ledger.TokenLedger, opts ...Option) *RewardPoolClient {
	program := NewRewardPoolProgram(store, tokens, opts...)
	return &RewardPoolClient{
		Pool:     NewPoolService(program),
		Position: NewPositionService(program),
		State:    NewStateService(program),
		Program:  program,
	}
}

// NewMemoryClient is a client over a fresh in-memory store and token ledger.
func NewMemoryClient(opts ...Option) (*RewardPoolClient, *ledger.MemoryTokenLedger) {
	tokens := ledger.NewMemoryTokenLedger()
	return NewRewardPoolClient(ledger.NewMemoryStore(), tokens, opts...), tokens
}
