package staking

import (
	solanago "github.com/gagliardetto/solana-go"

	rp "github.com/krazyTry/reward-pool-go/reward_pool"
)

type InitializePoolParams struct {
	// Funder must hold the authority mint. It pays both reward amounts.
	Funder        solanago.PublicKey
	Pool          solanago.PublicKey
	StakingMint   solanago.PublicKey
	RewardAMint   solanago.PublicKey
	RewardBMint   solanago.PublicKey
	RewardAmountA uint64
	RewardAmountB uint64
	// Duration in seconds.
	Duration uint64
}

type FundParams struct {
	Funder   solanago.PublicKey
	Pool     solanago.PublicKey
	AmountA  uint64
	AmountB  uint64
	Duration uint64
}

type HarvestResult struct {
	AmountA uint64
	AmountB uint64
	// NothingToClaim is set when both owed amounts were zero. No tokens moved.
	NothingToClaim bool
}

// UserPosition is one resolved position of a wallet.
type UserPosition struct {
	Address       solanago.PublicKey
	Pool          solanago.PublicKey
	BalanceStaked uint64
	State         *rp.User
}

type PendingRewards struct {
	AmountA uint64
	AmountB uint64
}

// PoolAccount pairs a pool with its address.
type PoolAccount struct {
	Address solanago.PublicKey
	Pool    *rp.Pool
}
