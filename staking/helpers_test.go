package staking

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/krazyTry/reward-pool-go/ledger"
)

const (
	testStart      = int64(1_700_000_000)
	funderSupply   = uint64(1_000_000_000_000)
	stakerSupply   = uint64(1_000_000)
	authorityUnits = uint64(1)
)

type testEnv struct {
	t      *testing.T
	ctx    context.Context
	client *RewardPoolClient
	store  *countingStore
	tokens *ledger.MemoryTokenLedger
	clock  *ManualClock

	authorityMint solanago.PublicKey
	stakingMint   solanago.PublicKey
	rewardAMint   solanago.PublicKey
	rewardBMint   solanago.PublicKey
	funder        solanago.PublicKey
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	e := &testEnv{
		t:             t,
		ctx:           context.Background(),
		store:         &countingStore{AccountStore: ledger.NewMemoryStore()},
		tokens:        ledger.NewMemoryTokenLedger(),
		clock:         NewManualClock(testStart),
		authorityMint: newKey(),
		stakingMint:   newKey(),
		rewardAMint:   newKey(),
		rewardBMint:   newKey(),
		funder:        newKey(),
	}
	e.client = NewRewardPoolClient(e.store, e.tokens, append([]Option{WithClock(e.clock)}, opts...)...)

	require.NoError(t, e.tokens.CreateMint(e.ctx, e.authorityMint, 0))
	require.NoError(t, e.tokens.CreateMint(e.ctx, e.stakingMint, 9))
	require.NoError(t, e.tokens.CreateMint(e.ctx, e.rewardAMint, 9))
	require.NoError(t, e.tokens.CreateMint(e.ctx, e.rewardBMint, 6))
	require.NoError(t, e.tokens.MintTo(e.ctx, e.authorityMint, e.funder, authorityUnits))
	require.NoError(t, e.tokens.MintTo(e.ctx, e.rewardAMint, e.funder, funderSupply))
	require.NoError(t, e.tokens.MintTo(e.ctx, e.rewardBMint, e.funder, funderSupply))

	_, err := e.client.Pool.InitializeProgram(e.ctx, e.funder, e.authorityMint)
	require.NoError(t, err)
	return e
}

func newKey() solanago.PublicKey {
	return solanago.NewWallet().PublicKey()
}

func (e *testEnv) poolParams(amountA, amountB, duration uint64) InitializePoolParams {
	return InitializePoolParams{
		Funder:        e.funder,
		Pool:          newKey(),
		StakingMint:   e.stakingMint,
		RewardAMint:   e.rewardAMint,
		RewardBMint:   e.rewardBMint,
		RewardAmountA: amountA,
		RewardAmountB: amountB,
		Duration:      duration,
	}
}

func (e *testEnv) newPool(amountA, amountB, duration uint64) solanago.PublicKey {
	e.t.Helper()
	params := e.poolParams(amountA, amountB, duration)
	_, err := e.client.Pool.InitializePool(e.ctx, params)
	require.NoError(e.t, err)
	return params.Pool
}

// newStaker returns a wallet holding stakerSupply of the staking mint.
func (e *testEnv) newStaker() solanago.PublicKey {
	e.t.Helper()
	wallet := newKey()
	require.NoError(e.t, e.tokens.MintTo(e.ctx, e.stakingMint, wallet, stakerSupply))
	return wallet
}

func (e *testEnv) join(wallet, pool solanago.PublicKey, amount uint64) {
	e.t.Helper()
	_, err := e.client.Position.CreateUserStakingAccount(e.ctx, wallet, pool)
	require.NoError(e.t, err)
	_, err = e.client.Position.Stake(e.ctx, wallet, pool, amount)
	require.NoError(e.t, err)
}

func (e *testEnv) balance(mint, owner solanago.PublicKey) uint64 {
	e.t.Helper()
	b, err := e.tokens.Balance(e.ctx, mint, owner)
	require.NoError(e.t, err)
	return b
}

// countingStore counts reads and can be told to fail commits.
type countingStore struct {
	ledger.AccountStore
	gets       atomic.Int64
	multiGets  atomic.Int64
	failCommit atomic.Bool
}

var errCommitFailed = errors.New("commit failed")

func (s *countingStore) GetAccount(ctx context.Context, address solanago.PublicKey) ([]byte, error) {
	s.gets.Add(1)
	return s.AccountStore.GetAccount(ctx, address)
}

func (s *countingStore) GetMultipleAccounts(ctx context.Context, addresses []solanago.PublicKey) ([][]byte, error) {
	s.multiGets.Add(1)
	return s.AccountStore.GetMultipleAccounts(ctx, addresses)
}

func (s *countingStore) Commit(ctx context.Context, writes ...ledger.Write) error {
	if s.failCommit.Load() {
		return errCommitFailed
	}
	return s.AccountStore.Commit(ctx, writes...)
}

func (s *countingStore) resetCounts() {
	s.gets.Store(0)
	s.multiGets.Store(0)
}
