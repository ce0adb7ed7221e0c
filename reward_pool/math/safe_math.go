package math

import (
	"math/big"

	"github.com/pkg/errors"

	rp "github.com/krazyTry/reward-pool-go/reward_pool"
	"github.com/krazyTry/reward-pool-go/u128"
)

var maxU64 = new(big.Int).SetUint64(^uint64(0))

const maxI64 = int64(^uint64(0) >> 1)

func Add(a, b *big.Int) *big.Int {
	return new(big.Int).Add(a, b)
}

func Sub(a, b *big.Int) (*big.Int, error) {
	if b.Cmp(a) > 0 {
		return nil, errors.Wrap(rp.ErrMathOverflow, "SafeMath: subtraction overflow")
	}
	return new(big.Int).Sub(a, b), nil
}

func Mul(a, b *big.Int) *big.Int {
	return new(big.Int).Mul(a, b)
}

func Div(a, b *big.Int) (*big.Int, error) {
	if b.Sign() == 0 {
		return nil, errors.Wrap(rp.ErrMathOverflow, "SafeMath: division by zero")
	}
	return new(big.Int).Quo(a, b), nil
}

// MulDiv computes a*b/c rounding down.
func MulDiv(a, b, c *big.Int) (*big.Int, error) {
	return Div(Mul(a, b), c)
}

func ToU64(v *big.Int) (uint64, error) {
	if v.Sign() < 0 || v.Cmp(maxU64) > 0 {
		return 0, errors.Wrapf(rp.ErrMathOverflow, "SafeMath: %s does not fit in u64", v)
	}
	return v.Uint64(), nil
}

// CheckedAddU64 adds two u64 values, failing instead of wrapping.
func CheckedAddU64(a, b uint64) (uint64, error) {
	return ToU64(Add(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b)))
}

func CheckedMulU64(a, b uint64) (uint64, error) {
	return ToU64(Mul(u64Big(a), u64Big(b)))
}

func CheckedSubU64(a, b uint64) (uint64, error) {
	if b > a {
		return 0, errors.Wrap(rp.ErrMathOverflow, "SafeMath: subtraction overflow")
	}
	return a - b, nil
}

func toU128(v *big.Int) (u128Value, error) {
	out, err := u128.FromBig(v)
	if err != nil {
		return out, errors.Wrap(rp.ErrMathOverflow, err.Error())
	}
	return out, nil
}

func u64Big(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}
