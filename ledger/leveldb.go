package ledger

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"

	rp "github.com/krazyTry/reward-pool-go/reward_pool"
)

// LevelDBStore persists records in LevelDB keyed by the raw 32 byte address.
type LevelDBStore struct {
	db *leveldb.DB
}

// OpenLevelDB opens or creates the database directory at path.
func OpenLevelDB(path string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "open leveldb at %s", path)
	}
	return NewLevelDBStore(db), nil
}

func NewLevelDBStore(db *leveldb.DB) *LevelDBStore {
	return &LevelDBStore{db: db}
}

func (s *LevelDBStore) Close() error {
	return s.db.Close()
}

func (s *LevelDBStore) GetAccount(ctx context.Context, address solana.PublicKey) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := s.db.Get(address[:], nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, errors.Wrapf(rp.ErrAccountNotFound, "account %s", address)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get account %s", address)
	}
	return data, nil
}

// GetMultipleAccounts reads every address from one snapshot.
func (s *LevelDBStore) GetMultipleAccounts(ctx context.Context, addresses []solana.PublicKey) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap, err := s.db.GetSnapshot()
	if err != nil {
		return nil, errors.Wrap(err, "leveldb snapshot")
	}
	defer snap.Release()

	out := make([][]byte, len(addresses))
	for i, address := range addresses {
		data, err := snap.Get(address[:], nil)
		if errors.Is(err, leveldb.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "get account %s", address)
		}
		out[i] = data
	}
	return out, nil
}

func (s *LevelDBStore) Commit(ctx context.Context, writes ...Write) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tr, err := s.db.OpenTransaction()
	if err != nil {
		return errors.Wrap(err, "open leveldb transaction")
	}
	for _, w := range writes {
		if w.Create {
			exists, err := tr.Has(w.Address[:], nil)
			if err != nil {
				tr.Discard()
				return errors.Wrapf(err, "check account %s", w.Address)
			}
			if exists {
				tr.Discard()
				return errors.Wrapf(rp.ErrAlreadyExists, "account %s", w.Address)
			}
		}
		if err := tr.Put(w.Address[:], w.Data, nil); err != nil {
			tr.Discard()
			return errors.Wrapf(err, "put account %s", w.Address)
		}
	}
	if err := tr.Commit(); err != nil {
		return errors.Wrap(err, "commit leveldb transaction")
	}
	return nil
}
