package staking

import (
	"context"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/krazyTry/reward-pool-go/ledger"
	rp "github.com/krazyTry/reward-pool-go/reward_pool"
	"github.com/krazyTry/reward-pool-go/reward_pool/math"
)

type PositionService struct {
	*RewardPoolProgram
}

func NewPositionService(program *RewardPoolProgram) *PositionService {
	return &PositionService{RewardPoolProgram: program}
}

func positionFields(wallet, pool solanago.PublicKey) []zap.Field {
	return []zap.Field{zap.String("pool", pool.String()), zap.String("wallet", wallet.String())}
}

// CreateUserStakingAccount opens the position of wallet in pool at its derived address.
func (s *PositionService) CreateUserStakingAccount(ctx context.Context, wallet, pool solanago.PublicKey) (solanago.PublicKey, error) {
	addr, nonce, err := rp.DeriveUserAddress(s.ProgramID, wallet, pool)
	if err != nil {
		return solanago.PublicKey{}, err
	}
	err = s.run(ctx, "create_user", positionFields(wallet, pool), func() error {
		unlock := s.locks.lock(pool, addr)
		defer unlock()

		state, err := s.loadPool(ctx, pool)
		if err != nil {
			return err
		}
		if _, err := s.Store.GetAccount(ctx, addr); err == nil {
			return errors.Wrapf(rp.ErrAlreadyExists, "position %s", addr)
		} else if !errors.Is(err, rp.ErrAccountNotFound) {
			return err
		}

		if err := math.Checkpoint(state, nil, s.Clock.Now(), s.Policy); err != nil {
			return err
		}
		user := &rp.User{
			Pool:                pool,
			Owner:               wallet,
			RewardPerTokenPaidA: state.RewardPerTokenStoredA,
			RewardPerTokenPaidB: state.RewardPerTokenStoredB,
			Nonce:               nonce,
		}
		state.UserStakeCount++

		pw, err := poolWrite(pool, state, false)
		if err != nil {
			return err
		}
		uw, err := userWrite(addr, user, true)
		if err != nil {
			return err
		}
		return s.settle(ctx, nil, pw, uw)
	})
	return addr, err
}

// Stake moves amount of the staking mint from wallet into the pool vault.
func (s *PositionService) Stake(ctx context.Context, wallet, pool solanago.PublicKey, amount uint64) (*rp.User, error) {
	var out *rp.User
	err := s.run(ctx, "stake", append(positionFields(wallet, pool), zap.Uint64("amount", amount)), func() error {
		if amount == 0 {
			return errors.Wrap(rp.ErrInvalidAmount, "stake")
		}
		return s.mutate(ctx, wallet, pool, func(state *rp.Pool, user *rp.User) ([]ledger.Transfer, error) {
			balance, err := math.CheckedAddU64(user.BalanceStaked, amount)
			if err != nil {
				return nil, err
			}
			total, err := math.CheckedAddU64(state.TotalStaked, amount)
			if err != nil {
				return nil, err
			}
			user.BalanceStaked, state.TotalStaked = balance, total
			out = user
			return []ledger.Transfer{{Mint: state.StakingMint, From: wallet, To: state.PoolSigner, Amount: amount}}, nil
		})
	})
	return out, err
}

// Unstake returns amount of the staking mint from the pool vault to wallet.
func (s *PositionService) Unstake(ctx context.Context, wallet, pool solanago.PublicKey, amount uint64) (*rp.User, error) {
	var out *rp.User
	err := s.run(ctx, "unstake", append(positionFields(wallet, pool), zap.Uint64("amount", amount)), func() error {
		if amount == 0 {
			return errors.Wrap(rp.ErrInvalidAmount, "unstake")
		}
		return s.mutate(ctx, wallet, pool, func(state *rp.Pool, user *rp.User) ([]ledger.Transfer, error) {
			if amount > user.BalanceStaked {
				return nil, errors.Wrapf(rp.ErrInsufficientBalance, "unstake %d of %d", amount, user.BalanceStaked)
			}
			total, err := math.CheckedSubU64(state.TotalStaked, amount)
			if err != nil {
				return nil, err
			}
			user.BalanceStaked -= amount
			state.TotalStaked = total
			out = user
			return []ledger.Transfer{{Mint: state.StakingMint, From: state.PoolSigner, To: wallet, Amount: amount}}, nil
		})
	})
	return out, err
}

// Harvest pays out everything owed to the position. With nothing owed it reports
// NothingToClaim and changes nothing.
func (s *PositionService) Harvest(ctx context.Context, wallet, pool solanago.PublicKey) (*HarvestResult, error) {
	result := &HarvestResult{}
	err := s.run(ctx, "harvest", positionFields(wallet, pool), func() error {
		return s.mutate(ctx, wallet, pool, func(state *rp.Pool, user *rp.User) ([]ledger.Transfer, error) {
			if user.RewardsOwedA == 0 && user.RewardsOwedB == 0 {
				result.NothingToClaim = true
				return nil, errNoChange
			}
			result.AmountA, result.AmountB = user.RewardsOwedA, user.RewardsOwedB
			user.RewardsOwedA, user.RewardsOwedB = 0, 0
			return []ledger.Transfer{
				{Mint: state.RewardAMint, From: state.PoolSigner, To: wallet, Amount: result.AmountA},
				{Mint: state.RewardBMint, From: state.PoolSigner, To: wallet, Amount: result.AmountB},
			}, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

var errNoChange = errors.New("no change")

// mutate checkpoints pool and position at now, applies fn to the decoded copies and
// settles the resulting transfers together with both records.
func (s *PositionService) mutate(ctx context.Context, wallet, pool solanago.PublicKey, fn func(*rp.Pool, *rp.User) ([]ledger.Transfer, error)) error {
	userAddr, _, err := rp.DeriveUserAddress(s.ProgramID, wallet, pool)
	if err != nil {
		return err
	}
	unlock := s.locks.lock(pool, userAddr)
	defer unlock()

	state, err := s.loadPool(ctx, pool)
	if err != nil {
		return err
	}
	_, user, err := s.loadPosition(ctx, wallet, pool)
	if err != nil {
		return err
	}
	if err := math.Checkpoint(state, user, s.Clock.Now(), s.Policy); err != nil {
		return err
	}
	transfers, err := fn(state, user)
	if errors.Is(err, errNoChange) {
		return nil
	}
	if err != nil {
		return err
	}

	pw, err := poolWrite(pool, state, false)
	if err != nil {
		return err
	}
	uw, err := userWrite(userAddr, user, false)
	if err != nil {
		return err
	}
	return s.settle(ctx, transfers, pw, uw)
}
