package solana

import (
	"context"
	"crypto/sha256"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// Discriminator returns the 8 byte anchor account discriminator for name.
func Discriminator(name string) [8]byte {
	hash := sha256.Sum256([]byte("account:" + name))
	var out [8]byte
	copy(out[:], hash[:8])
	return out
}

func GetAccountInfo(ctx context.Context, rpcClient *rpc.Client, commitment rpc.CommitmentType, account solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	return rpcClient.GetAccountInfoWithOpts(ctx, account, &rpc.GetAccountInfoOpts{
		Commitment: commitmentOrDefault(commitment),
		Encoding:   solana.EncodingBase64,
	})
}

// GetMultipleAccountInfo fetches all accounts in one call. Missing accounts are nil in Value.
func GetMultipleAccountInfo(ctx context.Context, rpcClient *rpc.Client, commitment rpc.CommitmentType, accounts []solana.PublicKey) (*rpc.GetMultipleAccountsResult, error) {
	return rpcClient.GetMultipleAccountsWithOpts(ctx, accounts, &rpc.GetMultipleAccountsOpts{
		Commitment: commitmentOrDefault(commitment),
		Encoding:   solana.EncodingBase64,
	})
}
