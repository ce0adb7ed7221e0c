package solana

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
)

// Token represents a mint together with the program that owns it.
type Token struct {
	token.Mint
	Address solana.PublicKey
	Owner   solana.PublicKey
}

type TokenLayout struct {
}

func (l *TokenLayout) Decode(data []byte) (*Token, error) {
	mint := token.Mint{}
	if err := mint.Decode(data); err != nil {
		return nil, err
	}
	return &Token{Mint: mint}, nil
}

// GetMultipleToken decodes the given mints. Entries for missing mints are nil.
func GetMultipleToken(ctx context.Context, rpcClient *rpc.Client, commitment rpc.CommitmentType, mints ...solana.PublicKey) ([]*Token, error) {
	outs, err := GetMultipleAccountInfo(ctx, rpcClient, commitment, mints)
	if err != nil {
		return nil, err
	}
	list := make([]*Token, len(outs.Value))
	for i, out := range outs.Value {
		if out == nil {
			continue
		}
		t, err := new(TokenLayout).Decode(out.Data.GetBinary())
		if err != nil {
			return nil, err
		}
		t.Address = mints[i]
		t.Owner = out.Owner
		list[i] = t
	}
	return list, nil
}
