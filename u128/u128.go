package u128

import (
	"errors"
	"fmt"
	"math/big"

	binary "github.com/gagliardetto/binary"
)

// Max is the largest value representable in 128 bits.
var Max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

var ErrOverflow = errors.New("value overflows Uint128")

type Uint128 binary.Uint128

func (u *Uint128) Scan(s fmt.ScanState, ch rune) error {
	i := new(big.Int)
	if err := i.Scan(s, ch); err != nil {
		return err
	}
	v, err := FromBig(i)
	if err != nil {
		return err
	}
	u.Lo, u.Hi, u.Endianness = v.Lo, v.Hi, v.Endianness
	return nil
}

// Zero returns a little endian zero value, the layout used by account records.
func Zero() binary.Uint128 {
	return *binary.NewUint128LittleEndian()
}

// FromBig converts a non-negative big.Int that fits in 128 bits.
func FromBig(i *big.Int) (binary.Uint128, error) {
	if i == nil {
		return Zero(), nil
	}
	if i.Sign() < 0 {
		return binary.Uint128{}, errors.New("value cannot be negative")
	}
	if i.Cmp(Max) > 0 {
		return binary.Uint128{}, ErrOverflow
	}
	out := binary.NewUint128LittleEndian()
	mask := new(big.Int).SetUint64(^uint64(0))
	out.Lo = new(big.Int).And(i, mask).Uint64()
	out.Hi = new(big.Int).Rsh(i, 64).Uint64()
	return *out, nil
}

// ToBig returns the value as a new big.Int.
func ToBig(u binary.Uint128) *big.Int {
	hi := new(big.Int).Lsh(new(big.Int).SetUint64(u.Hi), 64)
	return hi.Or(hi, new(big.Int).SetUint64(u.Lo))
}

func GenUint128FromString(num string) binary.Uint128 {
	u128 := binary.NewUint128LittleEndian()
	if _, err := fmt.Sscan(num, (*Uint128)(u128)); err != nil {
		panic(err)
	}
	return *u128
}
