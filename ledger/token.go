package ledger

import (
	"context"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	rp "github.com/krazyTry/reward-pool-go/reward_pool"
)

type holding struct {
	mint  solana.PublicKey
	owner solana.PublicKey
}

// MemoryTokenLedger is an in-process token ledger. Supply only changes through MintTo.
type MemoryTokenLedger struct {
	mu       sync.Mutex
	decimals map[solana.PublicKey]uint8
	supply   map[solana.PublicKey]uint64
	balances map[holding]uint64
}

func NewMemoryTokenLedger() *MemoryTokenLedger {
	return &MemoryTokenLedger{
		decimals: make(map[solana.PublicKey]uint8),
		supply:   make(map[solana.PublicKey]uint64),
		balances: make(map[holding]uint64),
	}
}

func (l *MemoryTokenLedger) CreateMint(ctx context.Context, mint solana.PublicKey, decimals uint8) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.decimals[mint]; ok {
		return errors.Wrapf(rp.ErrAlreadyExists, "mint %s", mint)
	}
	l.decimals[mint] = decimals
	return nil
}

func (l *MemoryTokenLedger) MintTo(ctx context.Context, mint, owner solana.PublicKey, amount uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.decimals[mint]; !ok {
		return errors.Wrapf(rp.ErrInvalidMint, "mint %s", mint)
	}
	supply := l.supply[mint] + amount
	if supply < amount {
		return errors.Wrapf(rp.ErrMathOverflow, "supply of %s", mint)
	}
	l.supply[mint] = supply
	l.balances[holding{mint, owner}] += amount
	return nil
}

func (l *MemoryTokenLedger) Balance(ctx context.Context, mint, owner solana.PublicKey) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.decimals[mint]; !ok {
		return 0, errors.Wrapf(rp.ErrInvalidMint, "mint %s", mint)
	}
	return l.balances[holding{mint, owner}], nil
}

func (l *MemoryTokenLedger) Decimals(ctx context.Context, mint solana.PublicKey) (uint8, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	d, ok := l.decimals[mint]
	if !ok {
		return 0, errors.Wrapf(rp.ErrInvalidMint, "mint %s", mint)
	}
	return d, nil
}

// Supply returns the total minted amount of mint.
func (l *MemoryTokenLedger) Supply(mint solana.PublicKey) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.supply[mint]
}

func (l *MemoryTokenLedger) TransferBatch(ctx context.Context, transfers ...Transfer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	// stage on a copy of the touched holdings so a failing transfer leaves nothing applied
	staged := make(map[holding]uint64)
	get := func(h holding) uint64 {
		if v, ok := staged[h]; ok {
			return v
		}
		return l.balances[h]
	}
	for _, t := range transfers {
		if _, ok := l.decimals[t.Mint]; !ok {
			return errors.Wrapf(rp.ErrInvalidMint, "mint %s", t.Mint)
		}
		if t.Amount == 0 {
			continue
		}
		from, to := holding{t.Mint, t.From}, holding{t.Mint, t.To}
		balance := get(from)
		if balance < t.Amount {
			return errors.Wrapf(rp.ErrInsufficientFunds, "%s holds %d of %s, needs %d", t.From, balance, t.Mint, t.Amount)
		}
		staged[from] = balance - t.Amount
		staged[to] = get(to) + t.Amount
	}
	for h, v := range staged {
		l.balances[h] = v
	}
	return nil
}
