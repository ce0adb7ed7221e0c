package solana

import (
	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

type AccountState uint8

const (
	AccountStateUninitialized AccountState = 0
	AccountStateInitialized   AccountState = 1
	AccountStateFrozen        AccountState = 2
)

// TokenAccount is the subset of an SPL token account the reward pool reads.
type TokenAccount struct {
	Address solana.PublicKey
	Mint    solana.PublicKey
	Owner   solana.PublicKey
	Amount  uint64
	State   AccountState
}

func (a *TokenAccount) IsInitialized() bool {
	return a.State != AccountStateUninitialized
}

// tokenAccountLayout https://github.com/solana-labs/solana-program-library/blob/d72289c79a04411c69a8bf1054f7156b6196f9b3/token/js/src/state/account.ts#L69
type tokenAccountLayout struct {
	Mint           solana.PublicKey
	Owner          solana.PublicKey
	Amount         uint64
	DelegateOption uint32
	Delegate       solana.PublicKey
	State          uint8
}

type AccountLayout struct {
}

func (l *AccountLayout) Decode(address solana.PublicKey, data []byte) (*TokenAccount, error) {
	raw := &tokenAccountLayout{}
	if err := binary.NewBinDecoder(data).Decode(raw); err != nil {
		return nil, err
	}
	return &TokenAccount{
		Address: address,
		Mint:    raw.Mint,
		Owner:   raw.Owner,
		Amount:  raw.Amount,
		State:   AccountState(raw.State),
	}, nil
}
