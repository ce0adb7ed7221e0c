package reward_pool

import (
	"bytes"
	"encoding/binary"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github.com/krazyTry/reward-pool-go/u128"
)

// ProgramConfig is the singleton gating pool creation.
type ProgramConfig struct {
	AuthorityMint solana.PublicKey
	Bump          uint8
}

// Pool is one staking campaign streaming two reward mints.
type Pool struct {
	Authority   solana.PublicKey
	PoolSigner  solana.PublicKey
	Nonce       uint8
	StakingMint solana.PublicKey
	RewardAMint solana.PublicKey
	RewardBMint solana.PublicKey

	RewardAmountA  uint64
	RewardAmountB  uint64
	RewardDuration uint64
	RewardRateA    uint64
	RewardRateB    uint64

	LastUpdateTime int64
	PeriodFinish   int64

	RewardPerTokenStoredA bin.Uint128
	RewardPerTokenStoredB bin.Uint128

	TotalStaked    uint64
	TotalFundedA   uint64
	TotalFundedB   uint64
	UserStakeCount uint32
}

// User is a wallet's position in one pool.
type User struct {
	Pool                solana.PublicKey
	Owner               solana.PublicKey
	BalanceStaked       uint64
	RewardPerTokenPaidA bin.Uint128
	RewardPerTokenPaidB bin.Uint128
	RewardsOwedA        uint64
	RewardsOwedB        uint64
	Nonce               uint8
}

// recordWriter accumulates the first error so field writes stay linear.
type recordWriter struct {
	enc *bin.Encoder
	err error
}

func (w *recordWriter) key(k solana.PublicKey) {
	if w.err == nil {
		w.err = w.enc.WriteBytes(k[:], false)
	}
}

func (w *recordWriter) u8(v uint8) {
	if w.err == nil {
		w.err = w.enc.WriteUint8(v)
	}
}

func (w *recordWriter) u32(v uint32) {
	if w.err == nil {
		w.err = w.enc.WriteUint32(v, binary.LittleEndian)
	}
}

func (w *recordWriter) u64(v uint64) {
	if w.err == nil {
		w.err = w.enc.WriteUint64(v, binary.LittleEndian)
	}
}

func (w *recordWriter) i64(v int64) {
	if w.err == nil {
		w.err = w.enc.WriteInt64(v, binary.LittleEndian)
	}
}

func (w *recordWriter) u128(v bin.Uint128) {
	if w.err == nil {
		w.err = w.enc.WriteUint128(v, binary.LittleEndian)
	}
}

type recordReader struct {
	dec *bin.Decoder
	err error
}

func (r *recordReader) key() (out solana.PublicKey) {
	if r.err != nil {
		return
	}
	var b []byte
	if b, r.err = r.dec.ReadNBytes(32); r.err == nil {
		out = solana.PublicKeyFromBytes(b)
	}
	return
}

func (r *recordReader) u8() (out uint8) {
	if r.err == nil {
		out, r.err = r.dec.ReadUint8()
	}
	return
}

func (r *recordReader) u32() (out uint32) {
	if r.err == nil {
		out, r.err = r.dec.ReadUint32(binary.LittleEndian)
	}
	return
}

func (r *recordReader) u64() (out uint64) {
	if r.err == nil {
		out, r.err = r.dec.ReadUint64(binary.LittleEndian)
	}
	return
}

func (r *recordReader) i64() (out int64) {
	if r.err == nil {
		out, r.err = r.dec.ReadInt64(binary.LittleEndian)
	}
	return
}

func (r *recordReader) u128() bin.Uint128 {
	out := u128.Zero()
	if r.err == nil {
		var v bin.Uint128
		if v, r.err = r.dec.ReadUint128(binary.LittleEndian); r.err == nil {
			out.Lo, out.Hi = v.Lo, v.Hi
		}
	}
	return out
}

func encodeRecord(disc [8]byte, size int, body func(w *recordWriter)) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, size))
	w := &recordWriter{enc: bin.NewBorshEncoder(buf)}
	if _, err := buf.Write(disc[:]); err != nil {
		return nil, err
	}
	body(w)
	if w.err != nil {
		return nil, w.err
	}
	return buf.Bytes(), nil
}

func checkDiscriminator(data []byte, disc [8]byte, name string) error {
	if len(data) < DiscriminatorSize || !bytes.Equal(data[:DiscriminatorSize], disc[:]) {
		return errors.Wrapf(ErrInvalidAccount, "not a %s account", name)
	}
	return nil
}

func (c *ProgramConfig) Marshal() ([]byte, error) {
	return encodeRecord(ProgramConfigDiscriminator, ProgramConfigSize, func(w *recordWriter) {
		w.key(c.AuthorityMint)
		w.u8(c.Bump)
	})
}

func (c *ProgramConfig) Unmarshal(data []byte) error {
	if err := checkDiscriminator(data, ProgramConfigDiscriminator, AccountKeyProgramConfig); err != nil {
		return err
	}
	r := &recordReader{dec: bin.NewBorshDecoder(data[DiscriminatorSize:])}
	c.AuthorityMint = r.key()
	c.Bump = r.u8()
	return errors.Wrap(r.err, "decode ProgramConfig")
}

func (p *Pool) Marshal() ([]byte, error) {
	return encodeRecord(PoolDiscriminator, PoolSize, func(w *recordWriter) {
		w.key(p.Authority)
		w.key(p.PoolSigner)
		w.u8(p.Nonce)
		w.key(p.StakingMint)
		w.key(p.RewardAMint)
		w.key(p.RewardBMint)
		w.u64(p.RewardAmountA)
		w.u64(p.RewardAmountB)
		w.u64(p.RewardDuration)
		w.u64(p.RewardRateA)
		w.u64(p.RewardRateB)
		w.i64(p.LastUpdateTime)
		w.i64(p.PeriodFinish)
		w.u128(p.RewardPerTokenStoredA)
		w.u128(p.RewardPerTokenStoredB)
		w.u64(p.TotalStaked)
		w.u64(p.TotalFundedA)
		w.u64(p.TotalFundedB)
		w.u32(p.UserStakeCount)
	})
}

func (p *Pool) Unmarshal(data []byte) error {
	if err := checkDiscriminator(data, PoolDiscriminator, AccountKeyPool); err != nil {
		return err
	}
	r := &recordReader{dec: bin.NewBorshDecoder(data[DiscriminatorSize:])}
	p.Authority = r.key()
	p.PoolSigner = r.key()
	p.Nonce = r.u8()
	p.StakingMint = r.key()
	p.RewardAMint = r.key()
	p.RewardBMint = r.key()
	p.RewardAmountA = r.u64()
	p.RewardAmountB = r.u64()
	p.RewardDuration = r.u64()
	p.RewardRateA = r.u64()
	p.RewardRateB = r.u64()
	p.LastUpdateTime = r.i64()
	p.PeriodFinish = r.i64()
	p.RewardPerTokenStoredA = r.u128()
	p.RewardPerTokenStoredB = r.u128()
	p.TotalStaked = r.u64()
	p.TotalFundedA = r.u64()
	p.TotalFundedB = r.u64()
	p.UserStakeCount = r.u32()
	return errors.Wrap(r.err, "decode Pool")
}

func (u *User) Marshal() ([]byte, error) {
	return encodeRecord(UserDiscriminator, UserSize, func(w *recordWriter) {
		w.key(u.Pool)
		w.key(u.Owner)
		w.u64(u.BalanceStaked)
		w.u128(u.RewardPerTokenPaidA)
		w.u128(u.RewardPerTokenPaidB)
		w.u64(u.RewardsOwedA)
		w.u64(u.RewardsOwedB)
		w.u8(u.Nonce)
	})
}

func (u *User) Unmarshal(data []byte) error {
	if err := checkDiscriminator(data, UserDiscriminator, AccountKeyUser); err != nil {
		return err
	}
	r := &recordReader{dec: bin.NewBorshDecoder(data[DiscriminatorSize:])}
	u.Pool = r.key()
	u.Owner = r.key()
	u.BalanceStaked = r.u64()
	u.RewardPerTokenPaidA = r.u128()
	u.RewardPerTokenPaidB = r.u128()
	u.RewardsOwedA = r.u64()
	u.RewardsOwedB = r.u64()
	u.Nonce = r.u8()
	return errors.Wrap(r.err, "decode User")
}

func ParseAccount_ProgramConfig(data []byte) (*ProgramConfig, error) {
	out := new(ProgramConfig)
	if err := out.Unmarshal(data); err != nil {
		return nil, err
	}
	return out, nil
}

func ParseAccount_Pool(data []byte) (*Pool, error) {
	out := new(Pool)
	if err := out.Unmarshal(data); err != nil {
		return nil, err
	}
	return out, nil
}

func ParseAccount_User(data []byte) (*User, error) {
	out := new(User)
	if err := out.Unmarshal(data); err != nil {
		return nil, err
	}
	return out, nil
}

// ParseAnyAccount demultiplexes raw account data by its discriminator.
func ParseAnyAccount(data []byte) (any, error) {
	if len(data) < DiscriminatorSize {
		return nil, errors.Wrap(ErrInvalidAccount, "account data shorter than discriminator")
	}
	var disc [8]byte
	copy(disc[:], data[:DiscriminatorSize])
	switch disc {
	case ProgramConfigDiscriminator:
		return ParseAccount_ProgramConfig(data)
	case PoolDiscriminator:
		return ParseAccount_Pool(data)
	case UserDiscriminator:
		return ParseAccount_User(data)
	default:
		return nil, errors.Wrapf(ErrInvalidAccount, "unknown discriminator %x", disc)
	}
}
