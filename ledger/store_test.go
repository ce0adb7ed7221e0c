package ledger

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"

	rp "github.com/krazyTry/reward-pool-go/reward_pool"
)

func newLevelDBStore(t *testing.T) *LevelDBStore {
	t.Helper()
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	require.NoError(t, err)
	s := NewLevelDBStore(db)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func stores(t *testing.T) map[string]AccountStore {
	return map[string]AccountStore{
		"memory":  NewMemoryStore(),
		"leveldb": newLevelDBStore(t),
	}
}

func TestAccountStore(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			a := solana.NewWallet().PublicKey()
			b := solana.NewWallet().PublicKey()
			missing := solana.NewWallet().PublicKey()

			_, err := store.GetAccount(ctx, a)
			assert.ErrorIs(t, err, rp.ErrAccountNotFound)

			require.NoError(t, store.Commit(ctx,
				Write{Address: a, Data: []byte{1, 2, 3}, Create: true},
				Write{Address: b, Data: []byte{4}, Create: true},
			))

			data, err := store.GetAccount(ctx, a)
			require.NoError(t, err)
			assert.Equal(t, []byte{1, 2, 3}, data)

			many, err := store.GetMultipleAccounts(ctx, []solana.PublicKey{b, missing, a})
			require.NoError(t, err)
			require.Len(t, many, 3)
			assert.Equal(t, []byte{4}, many[0])
			assert.Nil(t, many[1])
			assert.Equal(t, []byte{1, 2, 3}, many[2])

			require.NoError(t, store.Commit(ctx, Write{Address: a, Data: []byte{9}}))
			data, err = store.GetAccount(ctx, a)
			require.NoError(t, err)
			assert.Equal(t, []byte{9}, data)
		})
	}
}

func TestAccountStoreCommitIsAtomic(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			taken := solana.NewWallet().PublicKey()
			fresh := solana.NewWallet().PublicKey()
			require.NoError(t, store.Commit(ctx, Write{Address: taken, Data: []byte{1}, Create: true}))

			err := store.Commit(ctx,
				Write{Address: fresh, Data: []byte{2}, Create: true},
				Write{Address: taken, Data: []byte{3}, Create: true},
			)
			assert.ErrorIs(t, err, rp.ErrAlreadyExists)

			_, err = store.GetAccount(ctx, fresh)
			assert.ErrorIs(t, err, rp.ErrAccountNotFound)
			data, err := store.GetAccount(ctx, taken)
			require.NoError(t, err)
			assert.Equal(t, []byte{1}, data)
		})
	}
}

func TestAccountStoreHonoursCancelledContext(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			addr := solana.NewWallet().PublicKey()
			assert.ErrorIs(t, store.Commit(ctx, Write{Address: addr, Data: []byte{1}}), context.Canceled)
			_, err := store.GetAccount(context.Background(), addr)
			assert.ErrorIs(t, err, rp.ErrAccountNotFound)
		})
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	addr := solana.NewWallet().PublicKey()
	in := []byte{1, 2}
	require.NoError(t, store.Commit(ctx, Write{Address: addr, Data: in, Create: true}))
	in[0] = 7

	out, err := store.GetAccount(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, out)
	out[1] = 7

	again, err := store.GetAccount(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, again)
	assert.Equal(t, 1, store.count())
}

func TestReverse(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	x, y, z := solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey()
	got := Reverse([]Transfer{
		{Mint: mint, From: x, To: y, Amount: 1},
		{Mint: mint, From: y, To: z, Amount: 2},
	})
	assert.Equal(t, []Transfer{
		{Mint: mint, From: z, To: y, Amount: 2},
		{Mint: mint, From: y, To: x, Amount: 1},
	}, got)
}
