package reward_pool

import (
	"math/big"

	"github.com/gagliardetto/solana-go"

	solanago "github.com/krazyTry/reward-pool-go/solana"
)

// ProgramID is the reward pool program address.
var ProgramID = solana.MustPublicKeyFromBase58("FoNqK2xudK7TfKjPFxpzAcTaU2Wwyt81znT4RjJBLFQp")

// Account key constants for the account kinds owned by the program
var (
	AccountKeyProgramConfig = "ProgramConfig"
	AccountKeyPool          = "Pool"
	AccountKeyUser          = "User"
)

var (
	ProgramConfigDiscriminator = solanago.Discriminator(AccountKeyProgramConfig)
	PoolDiscriminator          = solanago.Discriminator(AccountKeyPool)
	UserDiscriminator          = solanago.Discriminator(AccountKeyUser)
)

const (
	// DiscriminatorSize prefixes every account record.
	DiscriminatorSize = 8

	ProgramConfigSize = DiscriminatorSize + 32 + 1
	PoolSize          = DiscriminatorSize + 32*5 + 1 + 8*5 + 8*2 + 16*2 + 8*3 + 4
	UserSize          = DiscriminatorSize + 32*2 + 8 + 16*2 + 8*2 + 1
)

// Precision scales reward-per-token accumulators.
var Precision = big.NewInt(1_000_000_000_000)
