package staking

import (
	"context"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	rp "github.com/krazyTry/reward-pool-go/reward_pool"
	"github.com/krazyTry/reward-pool-go/reward_pool/math"
)

// StateService reads program accounts. It takes no locks.
type StateService struct {
	*RewardPoolProgram
}

func NewStateService(program *RewardPoolProgram) *StateService {
	return &StateService{RewardPoolProgram: program}
}

func (s *StateService) GetProgramConfig(ctx context.Context) (*rp.ProgramConfig, error) {
	return s.loadProgramConfig(ctx)
}

func (s *StateService) GetPool(ctx context.Context, pool solanago.PublicKey) (*rp.Pool, error) {
	return s.loadPool(ctx, pool)
}

// GetPools reads many pools in one batched read. Missing pools are skipped.
func (s *StateService) GetPools(ctx context.Context, pools []solanago.PublicKey) ([]PoolAccount, error) {
	datas, err := s.Store.GetMultipleAccounts(ctx, pools)
	if err != nil {
		return nil, err
	}
	out := make([]PoolAccount, 0, len(pools))
	for i, data := range datas {
		if data == nil {
			continue
		}
		pool, err := rp.ParseAccount_Pool(data)
		if err != nil {
			return nil, errors.Wrapf(err, "pool %s", pools[i])
		}
		out = append(out, PoolAccount{Address: pools[i], Pool: pool})
	}
	return out, nil
}

func (s *StateService) GetUserPosition(ctx context.Context, wallet, pool solanago.PublicKey) (*rp.User, error) {
	_, user, err := s.loadPosition(ctx, wallet, pool)
	return user, err
}

// GetUserPositions resolves the positions of wallet across pools with one batched read.
// Pools where the wallet has no position are skipped; the rest keep input order.
func (s *StateService) GetUserPositions(ctx context.Context, wallet solanago.PublicKey, pools []solanago.PublicKey) ([]UserPosition, error) {
	addrs, err := rp.DeriveUserAddresses(s.ProgramID, wallet, pools)
	if err != nil {
		return nil, err
	}
	datas, err := s.Store.GetMultipleAccounts(ctx, addrs)
	if err != nil {
		return nil, err
	}
	if len(datas) != len(addrs) {
		return nil, errors.Errorf("store returned %d accounts for %d addresses", len(datas), len(addrs))
	}

	out := make([]UserPosition, 0, len(addrs))
	for i, data := range datas {
		if data == nil {
			continue
		}
		user, err := rp.ParseAccount_User(data)
		if err != nil {
			return nil, errors.Wrapf(err, "position %s", addrs[i])
		}
		out = append(out, UserPosition{
			Address:       addrs[i],
			Pool:          pools[i],
			BalanceStaked: user.BalanceStaked,
			State:         user,
		})
	}
	return out, nil
}

// GetPendingRewards reports what Harvest would pay at the program clock.
func (s *StateService) GetPendingRewards(ctx context.Context, wallet, pool solanago.PublicKey) (*PendingRewards, error) {
	state, err := s.loadPool(ctx, pool)
	if err != nil {
		return nil, err
	}
	_, user, err := s.loadPosition(ctx, wallet, pool)
	if err != nil {
		return nil, err
	}
	a, b, err := math.Pending(state, user, s.Clock.Now())
	if err != nil {
		return nil, err
	}
	return &PendingRewards{AmountA: a, AmountB: b}, nil
}

// GetVaultBalances returns the staking, reward A and reward B vault balances of pool.
func (s *StateService) GetVaultBalances(ctx context.Context, pool solanago.PublicKey) (staking, rewardA, rewardB uint64, err error) {
	state, err := s.loadPool(ctx, pool)
	if err != nil {
		return
	}
	if staking, err = s.Tokens.Balance(ctx, state.StakingMint, state.PoolSigner); err != nil {
		return
	}
	if rewardA, err = s.Tokens.Balance(ctx, state.RewardAMint, state.PoolSigner); err != nil {
		return
	}
	rewardB, err = s.Tokens.Balance(ctx, state.RewardBMint, state.PoolSigner)
	return
}
