package staking

import (
	"context"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/krazyTry/reward-pool-go/ledger"
	rp "github.com/krazyTry/reward-pool-go/reward_pool"
	"github.com/krazyTry/reward-pool-go/reward_pool/math"
	"github.com/krazyTry/reward-pool-go/u128"
)

type PoolService struct {
	*RewardPoolProgram
}

func NewPoolService(program *RewardPoolProgram) *PoolService {
	return &PoolService{RewardPoolProgram: program}
}

// InitializeProgram records the mint whose holders may create and fund pools. It runs once.
func (s *PoolService) InitializeProgram(ctx context.Context, payer, authorityMint solanago.PublicKey) (solanago.PublicKey, error) {
	addr, bump, err := rp.DeriveProgramConfigAddress(s.ProgramID)
	if err != nil {
		return solanago.PublicKey{}, err
	}
	err = s.run(ctx, "initialize_program", []zap.Field{
		zap.String("payer", payer.String()),
		zap.String("authority_mint", authorityMint.String()),
	}, func() error {
		if _, err := s.Tokens.Decimals(ctx, authorityMint); err != nil {
			return err
		}
		cfg := &rp.ProgramConfig{AuthorityMint: authorityMint, Bump: bump}
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		err = s.Store.Commit(ctx, ledger.Write{Address: addr, Data: data, Create: true})
		if errors.Is(err, rp.ErrAlreadyExists) {
			return errors.Wrapf(rp.ErrAlreadyInitialized, "program config %s", addr)
		}
		return err
	})
	return addr, err
}

// DerivePoolSigner returns the address owning the vaults of pool.
func (s *PoolService) DerivePoolSigner(pool solanago.PublicKey) (solanago.PublicKey, uint8, error) {
	return rp.DerivePoolSigner(s.ProgramID, pool)
}

// InitializePool creates a pool and deposits both reward amounts from the funder into its vaults.
// Nothing is written and no tokens move when any check fails.
func (s *PoolService) InitializePool(ctx context.Context, params InitializePoolParams) (*rp.Pool, error) {
	var created *rp.Pool
	err := s.run(ctx, "initialize_pool", []zap.Field{
		zap.String("pool", params.Pool.String()),
		zap.String("funder", params.Funder.String()),
		zap.Uint64("duration", params.Duration),
	}, func() error {
		if params.Duration == 0 {
			return errors.Wrap(rp.ErrInvalidDuration, "initialize pool")
		}
		unlock := s.locks.lock(params.Pool)
		defer unlock()

		if err := s.requireAuthority(ctx, params.Funder); err != nil {
			return err
		}
		if _, err := s.Store.GetAccount(ctx, params.Pool); err == nil {
			return errors.Wrapf(rp.ErrAlreadyExists, "pool %s", params.Pool)
		} else if !errors.Is(err, rp.ErrAccountNotFound) {
			return err
		}
		for _, mint := range []solanago.PublicKey{params.StakingMint, params.RewardAMint, params.RewardBMint} {
			if _, err := s.Tokens.Decimals(ctx, mint); err != nil {
				return err
			}
		}

		signer, nonce, err := rp.DerivePoolSigner(s.ProgramID, params.Pool)
		if err != nil {
			return err
		}
		pool := &rp.Pool{
			Authority:             params.Funder,
			PoolSigner:            signer,
			Nonce:                 nonce,
			StakingMint:           params.StakingMint,
			RewardAMint:           params.RewardAMint,
			RewardBMint:           params.RewardBMint,
			RewardPerTokenStoredA: u128.Zero(),
			RewardPerTokenStoredB: u128.Zero(),
		}
		if err := math.Fund(pool, params.RewardAmountA, params.RewardAmountB, params.Duration, s.Clock.Now(), s.Policy); err != nil {
			return err
		}
		w, err := poolWrite(params.Pool, pool, true)
		if err != nil {
			return err
		}
		transfers := []ledger.Transfer{
			{Mint: pool.RewardAMint, From: params.Funder, To: signer, Amount: params.RewardAmountA},
			{Mint: pool.RewardBMint, From: params.Funder, To: signer, Amount: params.RewardAmountB},
		}
		if err := s.settle(ctx, transfers, w); err != nil {
			return err
		}
		created = pool
		return nil
	})
	return created, err
}

// Fund tops up a pool and restarts its reward period at now with duration.
// Emission left over from the running period is folded into the new rate.
func (s *PoolService) Fund(ctx context.Context, params FundParams) (*rp.Pool, error) {
	var funded *rp.Pool
	err := s.run(ctx, "fund", []zap.Field{
		zap.String("pool", params.Pool.String()),
		zap.String("funder", params.Funder.String()),
		zap.Uint64("amount_a", params.AmountA),
		zap.Uint64("amount_b", params.AmountB),
	}, func() error {
		if params.Duration == 0 {
			return errors.Wrap(rp.ErrInvalidDuration, "fund")
		}
		if params.AmountA == 0 && params.AmountB == 0 {
			return errors.Wrap(rp.ErrInvalidAmount, "fund")
		}
		unlock := s.locks.lock(params.Pool)
		defer unlock()

		if err := s.requireAuthority(ctx, params.Funder); err != nil {
			return err
		}
		pool, err := s.loadPool(ctx, params.Pool)
		if err != nil {
			return err
		}
		if err := math.Fund(pool, params.AmountA, params.AmountB, params.Duration, s.Clock.Now(), s.Policy); err != nil {
			return err
		}
		w, err := poolWrite(params.Pool, pool, false)
		if err != nil {
			return err
		}
		transfers := []ledger.Transfer{
			{Mint: pool.RewardAMint, From: params.Funder, To: pool.PoolSigner, Amount: params.AmountA},
			{Mint: pool.RewardBMint, From: params.Funder, To: pool.PoolSigner, Amount: params.AmountB},
		}
		if err := s.settle(ctx, transfers, w); err != nil {
			return err
		}
		funded = pool
		return nil
	})
	return funded, err
}
