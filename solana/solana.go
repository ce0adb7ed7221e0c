package solana

import "github.com/gagliardetto/solana-go/rpc"

// MaxMultipleAccounts is the most addresses a single getMultipleAccounts call accepts.
const MaxMultipleAccounts = 100

// DefaultCommitment is used when a caller leaves the commitment empty.
var DefaultCommitment = rpc.CommitmentConfirmed

func commitmentOrDefault(c rpc.CommitmentType) rpc.CommitmentType {
	if c == "" {
		return DefaultCommitment
	}
	return c
}
