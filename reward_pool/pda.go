package reward_pool

import (
	"github.com/gagliardetto/solana-go"
)

var seed = struct {
	ProgramConfig []byte
}{
	ProgramConfig: []byte("config"),
}

// Derivations take the deployment explicitly. ProgramID is the default one.

func DeriveProgramConfigAddress(programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{seed.ProgramConfig}, programID)
}

// DerivePoolSigner derives the PDA that owns the pool's staking and reward vaults.
func DerivePoolSigner(programID, pool solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{pool.Bytes()}, programID)
}

// DeriveUserAddress derives the position address of wallet in pool. No lookup table is involved.
func DeriveUserAddress(programID, wallet, pool solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{wallet.Bytes(), pool.Bytes()}, programID)
}

// DeriveUserAddresses derives the positions of one wallet across many pools, preserving order.
func DeriveUserAddresses(programID, wallet solana.PublicKey, pools []solana.PublicKey) ([]solana.PublicKey, error) {
	out := make([]solana.PublicKey, len(pools))
	for i, pool := range pools {
		addr, _, err := DeriveUserAddress(programID, wallet, pool)
		if err != nil {
			return nil, err
		}
		out[i] = addr
	}
	return out, nil
}
