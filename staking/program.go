package staking

import (
	"context"
	"time"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/krazyTry/reward-pool-go/internal/metrics"
	"github.com/krazyTry/reward-pool-go/ledger"
	rp "github.com/krazyTry/reward-pool-go/reward_pool"
	"github.com/krazyTry/reward-pool-go/reward_pool/math"
)

// RewardPoolProgram executes reward pool operations against an account store and a token ledger.
// Services share one instance so they share its account locks.
type RewardPoolProgram struct {
	Store  ledger.AccountStore
	Tokens ledger.TokenLedger
	Clock  Clock
	Policy math.IdlePolicy

	// ProgramID is the deployment every account address is derived for.
	ProgramID solanago.PublicKey

	logger  *zap.Logger
	metrics *metrics.Metrics
	locks   *lockTable
}

type Option func(*RewardPoolProgram)

func WithLogger(l *zap.Logger) Option {
	return func(p *RewardPoolProgram) {
		if l != nil {
			p.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *RewardPoolProgram) { p.metrics = m }
}

func WithClock(c Clock) Option {
	return func(p *RewardPoolProgram) {
		if c != nil {
			p.Clock = c
		}
	}
}

func WithProgramID(id solanago.PublicKey) Option {
	return func(p *RewardPoolProgram) {
		if !id.IsZero() {
			p.ProgramID = id
		}
	}
}

func WithIdlePolicy(policy math.IdlePolicy) Option {
	return func(p *RewardPoolProgram) { p.Policy = policy }
}

func NewRewardPoolProgram(store ledger.AccountStore, tokens ledger.TokenLedger, opts ...Option) *RewardPoolProgram {
	p := &RewardPoolProgram{
		Store:     store,
		Tokens:    tokens,
		Clock:     SystemClock{},
		Policy:    math.IdlePolicyForfeit,
		ProgramID: rp.ProgramID,
		logger:    zap.NewNop(),
		locks:     &lockTable{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// run wraps one operation with logging and metrics. ctx is only checked before fn starts.
func (p *RewardPoolProgram) run(ctx context.Context, op string, fields []zap.Field, fn func() error) error {
	started := time.Now()
	err := ctx.Err()
	if err == nil {
		err = fn()
	}
	p.metrics.Observe(op, started, err)
	if err != nil {
		p.logger.Warn(op+" failed", append(fields, zap.Error(err))...)
		return err
	}
	p.logger.Info(op, fields...)
	return nil
}

// settle moves tokens then commits records. If the commit fails the transfers are reversed.
func (p *RewardPoolProgram) settle(ctx context.Context, transfers []ledger.Transfer, writes ...ledger.Write) error {
	if len(transfers) > 0 {
		if err := p.Tokens.TransferBatch(ctx, transfers...); err != nil {
			return err
		}
	}
	if err := p.Store.Commit(ctx, writes...); err != nil {
		if len(transfers) > 0 {
			if rerr := p.Tokens.TransferBatch(context.WithoutCancel(ctx), ledger.Reverse(transfers)...); rerr != nil {
				p.logger.Error("reverse transfers after failed commit", zap.Error(rerr))
			}
		}
		return err
	}
	return nil
}

func (p *RewardPoolProgram) loadProgramConfig(ctx context.Context) (*rp.ProgramConfig, error) {
	addr, _, err := rp.DeriveProgramConfigAddress(p.ProgramID)
	if err != nil {
		return nil, err
	}
	data, err := p.Store.GetAccount(ctx, addr)
	if err != nil {
		return nil, errors.Wrap(err, "program config")
	}
	return rp.ParseAccount_ProgramConfig(data)
}

func (p *RewardPoolProgram) loadPool(ctx context.Context, pool solanago.PublicKey) (*rp.Pool, error) {
	data, err := p.Store.GetAccount(ctx, pool)
	if err != nil {
		return nil, errors.Wrapf(err, "pool %s", pool)
	}
	return rp.ParseAccount_Pool(data)
}

// loadPosition loads the position of wallet in pool and checks it belongs to both.
func (p *RewardPoolProgram) loadPosition(ctx context.Context, wallet, pool solanago.PublicKey) (solanago.PublicKey, *rp.User, error) {
	addr, _, err := rp.DeriveUserAddress(p.ProgramID, wallet, pool)
	if err != nil {
		return solanago.PublicKey{}, nil, err
	}
	data, err := p.Store.GetAccount(ctx, addr)
	if err != nil {
		return addr, nil, errors.Wrapf(err, "position %s", addr)
	}
	user, err := rp.ParseAccount_User(data)
	if err != nil {
		return addr, nil, err
	}
	if !user.Owner.Equals(wallet) || !user.Pool.Equals(pool) {
		return addr, nil, errors.Wrapf(rp.ErrInvalidAccount, "position %s is not owned by %s in pool %s", addr, wallet, pool)
	}
	return addr, user, nil
}

// requireAuthority fails with ErrUnauthorized unless funder holds the authority mint.
func (p *RewardPoolProgram) requireAuthority(ctx context.Context, funder solanago.PublicKey) error {
	cfg, err := p.loadProgramConfig(ctx)
	if err != nil {
		return err
	}
	balance, err := p.Tokens.Balance(ctx, cfg.AuthorityMint, funder)
	if err != nil {
		return errors.Wrap(err, "authority balance")
	}
	if balance == 0 {
		return errors.Wrapf(rp.ErrUnauthorized, "%s holds no %s", funder, cfg.AuthorityMint)
	}
	return nil
}

func poolWrite(addr solanago.PublicKey, pool *rp.Pool, create bool) (ledger.Write, error) {
	data, err := pool.Marshal()
	if err != nil {
		return ledger.Write{}, err
	}
	return ledger.Write{Address: addr, Data: data, Create: create}, nil
}

func userWrite(addr solanago.PublicKey, user *rp.User, create bool) (ledger.Write, error) {
	data, err := user.Marshal()
	if err != nil {
		return ledger.Write{}, err
	}
	return ledger.Write{Address: addr, Data: data, Create: create}, nil
}
