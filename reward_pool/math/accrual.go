package math

import (
	"math/big"

	bin "github.com/gagliardetto/binary"
	"github.com/pkg/errors"

	rp "github.com/krazyTry/reward-pool-go/reward_pool"
	"github.com/krazyTry/reward-pool-go/u128"
)

type u128Value = bin.Uint128

// IdlePolicy decides what happens to emission while nothing is staked.
type IdlePolicy uint8

const (
	// IdlePolicyForfeit moves LastUpdateTime forward while TotalStaked is zero,
	// so rewards of idle intervals are never paid out.
	IdlePolicyForfeit IdlePolicy = iota
	// IdlePolicyRollover holds LastUpdateTime while TotalStaked is zero, so the
	// idle emission is streamed to whoever is staked at the next checkpoint.
	IdlePolicyRollover
)

func (p IdlePolicy) String() string {
	switch p {
	case IdlePolicyForfeit:
		return "forfeit"
	case IdlePolicyRollover:
		return "rollover"
	default:
		return "unknown"
	}
}

func ParseIdlePolicy(s string) (IdlePolicy, error) {
	switch s {
	case "", "forfeit":
		return IdlePolicyForfeit, nil
	case "rollover":
		return IdlePolicyRollover, nil
	default:
		return 0, errors.Errorf("unknown idle policy %q", s)
	}
}

// RewardPair holds one value per reward mint.
type RewardPair struct {
	A *big.Int
	B *big.Int
}

func LastTimeRewardApplicable(pool *rp.Pool, now int64) int64 {
	if now < pool.PeriodFinish {
		return now
	}
	return pool.PeriodFinish
}

func elapsedSince(pool *rp.Pool, now int64) int64 {
	elapsed := LastTimeRewardApplicable(pool, now) - pool.LastUpdateTime
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// RewardPerToken returns the accumulators the pool would hold at now, without mutating it.
func RewardPerToken(pool *rp.Pool, now int64) (RewardPair, error) {
	storedA := u128.ToBig(pool.RewardPerTokenStoredA)
	storedB := u128.ToBig(pool.RewardPerTokenStoredB)
	if pool.TotalStaked == 0 {
		return RewardPair{A: storedA, B: storedB}, nil
	}

	elapsed := big.NewInt(elapsedSince(pool, now))
	totalStaked := u64Big(pool.TotalStaked)

	incA, err := MulDiv(Mul(elapsed, u64Big(pool.RewardRateA)), rp.Precision, totalStaked)
	if err != nil {
		return RewardPair{}, err
	}
	incB, err := MulDiv(Mul(elapsed, u64Big(pool.RewardRateB)), rp.Precision, totalStaked)
	if err != nil {
		return RewardPair{}, err
	}
	return RewardPair{A: Add(storedA, incA), B: Add(storedB, incB)}, nil
}

// Earned is balance*(stored-paid)/Precision plus what is already owed.
func Earned(balance uint64, stored *big.Int, paid u128Value, owed uint64) (*big.Int, error) {
	delta, err := Sub(stored, u128.ToBig(paid))
	if err != nil {
		return nil, errors.Wrap(err, "reward per token went backwards")
	}
	accrued, err := MulDiv(u64Big(balance), delta, rp.Precision)
	if err != nil {
		return nil, err
	}
	return Add(accrued, u64Big(owed)), nil
}

// Checkpoint advances the pool accumulators to now and, when user is not nil,
// settles the user's accrued rewards into RewardsOwed. Every balance changing
// operation must call it before reading or writing stake balances.
func Checkpoint(pool *rp.Pool, user *rp.User, now int64, policy IdlePolicy) error {
	rpt, err := RewardPerToken(pool, now)
	if err != nil {
		return err
	}
	storedA, err := toU128(rpt.A)
	if err != nil {
		return err
	}
	storedB, err := toU128(rpt.B)
	if err != nil {
		return err
	}

	var owedA, owedB uint64
	if user != nil {
		earnedA, err := Earned(user.BalanceStaked, rpt.A, user.RewardPerTokenPaidA, user.RewardsOwedA)
		if err != nil {
			return err
		}
		earnedB, err := Earned(user.BalanceStaked, rpt.B, user.RewardPerTokenPaidB, user.RewardsOwedB)
		if err != nil {
			return err
		}
		if owedA, err = ToU64(earnedA); err != nil {
			return err
		}
		if owedB, err = ToU64(earnedB); err != nil {
			return err
		}
	}

	pool.RewardPerTokenStoredA = storedA
	pool.RewardPerTokenStoredB = storedB
	if pool.TotalStaked > 0 || policy == IdlePolicyForfeit {
		if last := LastTimeRewardApplicable(pool, now); last > pool.LastUpdateTime {
			pool.LastUpdateTime = last
		}
	}

	if user != nil {
		user.RewardsOwedA = owedA
		user.RewardsOwedB = owedB
		user.RewardPerTokenPaidA = storedA
		user.RewardPerTokenPaidB = storedB
	}
	return nil
}

// Fund adds addedA/addedB to the pool emission and restarts the period at now.
// Emission still pending from the running period is folded into the new rate.
// The vault deposits themselves are the caller's job.
func Fund(pool *rp.Pool, addedA, addedB, duration uint64, now int64, policy IdlePolicy) error {
	if duration == 0 || duration > uint64(maxI64-now) {
		return errors.Wrapf(rp.ErrInvalidDuration, "duration %d", duration)
	}
	if err := Checkpoint(pool, nil, now, policy); err != nil {
		return err
	}

	amountA, err := streamable(pool, pool.RewardRateA, addedA, now, policy)
	if err != nil {
		return err
	}
	amountB, err := streamable(pool, pool.RewardRateB, addedB, now, policy)
	if err != nil {
		return err
	}
	fundedA, err := CheckedAddU64(pool.TotalFundedA, addedA)
	if err != nil {
		return err
	}
	fundedB, err := CheckedAddU64(pool.TotalFundedB, addedB)
	if err != nil {
		return err
	}

	pool.RewardAmountA = amountA
	pool.RewardAmountB = amountB
	pool.RewardDuration = duration
	pool.RewardRateA = amountA / duration
	pool.RewardRateB = amountB / duration
	pool.LastUpdateTime = now
	pool.PeriodFinish = now + int64(duration)
	pool.TotalFundedA = fundedA
	pool.TotalFundedB = fundedB
	return nil
}

// streamable is added plus whatever the running period has not yet streamed.
func streamable(pool *rp.Pool, rate, added uint64, now int64, policy IdlePolicy) (uint64, error) {
	total := u64Big(added)
	if now < pool.PeriodFinish {
		leftover := Mul(big.NewInt(pool.PeriodFinish-now), u64Big(rate))
		total = Add(total, leftover)
	}
	if policy == IdlePolicyRollover && pool.TotalStaked == 0 {
		idle := Mul(big.NewInt(elapsedSince(pool, now)), u64Big(rate))
		total = Add(total, idle)
	}
	return ToU64(total)
}

// Pending returns what the user could harvest at now without touching either record.
func Pending(pool *rp.Pool, user *rp.User, now int64) (uint64, uint64, error) {
	rpt, err := RewardPerToken(pool, now)
	if err != nil {
		return 0, 0, err
	}
	earnedA, err := Earned(user.BalanceStaked, rpt.A, user.RewardPerTokenPaidA, user.RewardsOwedA)
	if err != nil {
		return 0, 0, err
	}
	earnedB, err := Earned(user.BalanceStaked, rpt.B, user.RewardPerTokenPaidB, user.RewardsOwedB)
	if err != nil {
		return 0, 0, err
	}
	a, err := ToU64(earnedA)
	if err != nil {
		return 0, 0, err
	}
	b, err := ToU64(earnedB)
	return a, b, err
}
