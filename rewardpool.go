package rewardpool

import (
	"github.com/krazyTry/reward-pool-go/ledger"
	"github.com/krazyTry/reward-pool-go/staking"
)

// NewClient creates a reward pool client over an account store and a token ledger.
//
// Example:
//
// client := NewClient(ledger.NewMemoryStore(), tokens, staking.WithLogger(logger))
//
// client.Pool.InitializePool(ctx, staking.InitializePoolParams{...})
//
// client.Position.Stake(ctx, wallet, pool, amount)
//
// client.State.GetUserPositions(ctx, wallet, pools)
var NewClient = staking.NewRewardPoolClient

// NewMemoryClient creates a client over a fresh in-memory ledger and returns the token ledger to seed it.
var NewMemoryClient = staking.NewMemoryClient

// NewLevelDBStore opens a persistent account store.
var NewLevelDBStore = ledger.OpenLevelDB

var (
	NewMemoryStore  = ledger.NewMemoryStore
	NewMemoryLedger = ledger.NewMemoryTokenLedger
)
