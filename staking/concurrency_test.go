package staking

import (
	"sync"
	"testing"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentStakersKeepTotalsConsistent(t *testing.T) {
	e := newTestEnv(t)
	pools := []solanago.PublicKey{e.newPool(10_000, 10_000, 100), e.newPool(10_000, 10_000, 100)}

	const stakers = 16
	wallets := make([]solanago.PublicKey, stakers)
	for i := range wallets {
		wallets[i] = e.newStaker()
		for _, pool := range pools {
			_, err := e.client.Position.CreateUserStakingAccount(e.ctx, wallets[i], pool)
			require.NoError(t, err)
		}
	}

	var wg sync.WaitGroup
	errs := make(chan error, stakers*len(pools)*3)
	for i, wallet := range wallets {
		for _, pool := range pools {
			wg.Add(1)
			go func(i int, wallet, pool solanago.PublicKey) {
				defer wg.Done()
				amount := uint64(10 + i)
				for round := 0; round < 5; round++ {
					if _, err := e.client.Position.Stake(e.ctx, wallet, pool, amount); err != nil {
						errs <- err
						return
					}
					e.clock.Advance(1)
					if _, err := e.client.Position.Harvest(e.ctx, wallet, pool); err != nil {
						errs <- err
						return
					}
				}
				if _, err := e.client.Position.Unstake(e.ctx, wallet, pool, amount*2); err != nil {
					errs <- err
				}
			}(i, wallet, pool)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	for _, pool := range pools {
		state, err := e.client.State.GetPool(e.ctx, pool)
		require.NoError(t, err)

		positions, err := e.client.State.GetUserPositions(e.ctx, wallets[0], []solanago.PublicKey{pool})
		require.NoError(t, err)
		require.Len(t, positions, 1)

		var staked uint64
		for _, wallet := range wallets {
			u, err := e.client.State.GetUserPosition(e.ctx, wallet, pool)
			require.NoError(t, err)
			staked += u.BalanceStaked
		}
		assert.Equal(t, state.TotalStaked, staked)

		vault, _, _, err := e.client.State.GetVaultBalances(e.ctx, pool)
		require.NoError(t, err)
		assert.Equal(t, state.TotalStaked, vault)
	}
}
