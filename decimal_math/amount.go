package decimal_math

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var maxU64 = decimal.NewFromBigInt(new(big.Int).SetUint64(^uint64(0)), 0)

func Pow10(n int32) decimal.Decimal {
	return decimal.New(1, n)
}

// ToUIAmount converts a raw token amount into whole token units.
func ToUIAmount(raw uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(raw), -int32(decimals))
}

// FromUIAmount converts whole token units into a raw amount, dropping digits below one raw unit.
func FromUIAmount(ui decimal.Decimal, decimals uint8) (uint64, error) {
	if ui.IsNegative() {
		return 0, errors.Errorf("negative amount %s", ui)
	}
	raw := ui.Mul(Pow10(int32(decimals))).Floor()
	if raw.GreaterThan(maxU64) {
		return 0, errors.Errorf("amount %s overflows u64 at %d decimals", ui, decimals)
	}
	return raw.BigInt().Uint64(), nil
}

// ParseUIAmount parses a decimal string such as "12.5" into a raw amount.
func ParseUIAmount(s string, decimals uint8) (uint64, error) {
	ui, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errors.Wrapf(err, "parse amount %q", s)
	}
	return FromUIAmount(ui, decimals)
}

// RatePerSecond formats a raw per-second emission rate in whole tokens.
func RatePerSecond(rate uint64, decimals uint8) string {
	return ToUIAmount(rate, decimals).String()
}
