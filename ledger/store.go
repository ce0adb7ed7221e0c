package ledger

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// Write is one record write of an atomic Commit.
type Write struct {
	Address solana.PublicKey
	Data    []byte
	// Create fails the whole commit with ErrAlreadyExists when Address is taken.
	Create bool
}

// AccountStore holds account records addressed by public key.
type AccountStore interface {
	// GetAccount returns reward_pool.ErrAccountNotFound for absent addresses.
	GetAccount(ctx context.Context, address solana.PublicKey) ([]byte, error)
	// GetMultipleAccounts reads every address in one batched read. Absent entries are nil.
	GetMultipleAccounts(ctx context.Context, addresses []solana.PublicKey) ([][]byte, error)
	// Commit applies all writes or none.
	Commit(ctx context.Context, writes ...Write) error
}

// Transfer moves Amount of Mint from the From owner to the To owner.
type Transfer struct {
	Mint   solana.PublicKey
	From   solana.PublicKey
	To     solana.PublicKey
	Amount uint64
}

// TokenLedger is the token transfer primitive. Balances are keyed by (mint, owner).
type TokenLedger interface {
	CreateMint(ctx context.Context, mint solana.PublicKey, decimals uint8) error
	MintTo(ctx context.Context, mint, owner solana.PublicKey, amount uint64) error
	Balance(ctx context.Context, mint, owner solana.PublicKey) (uint64, error)
	Decimals(ctx context.Context, mint solana.PublicKey) (uint8, error)
	// TransferBatch applies all transfers or none.
	TransferBatch(ctx context.Context, transfers ...Transfer) error
}

// Reverse returns the transfers undoing ts, in reverse order.
func Reverse(ts []Transfer) []Transfer {
	out := make([]Transfer, 0, len(ts))
	for i := len(ts) - 1; i >= 0; i-- {
		t := ts[i]
		out = append(out, Transfer{Mint: t.Mint, From: t.To, To: t.From, Amount: t.Amount})
	}
	return out
}
