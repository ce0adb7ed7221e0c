package ledger

import (
	"context"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	rp "github.com/krazyTry/reward-pool-go/reward_pool"
)

// MemoryStore keeps records in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[solana.PublicKey][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: make(map[solana.PublicKey][]byte)}
}

func (s *MemoryStore) GetAccount(ctx context.Context, address solana.PublicKey) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.accounts[address]
	if !ok {
		return nil, errors.Wrapf(rp.ErrAccountNotFound, "account %s", address)
	}
	return clone(data), nil
}

func (s *MemoryStore) GetMultipleAccounts(ctx context.Context, addresses []solana.PublicKey) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([][]byte, len(addresses))
	for i, address := range addresses {
		if data, ok := s.accounts[address]; ok {
			out[i] = clone(data)
		}
	}
	return out, nil
}

func (s *MemoryStore) Commit(ctx context.Context, writes ...Write) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	created := make(map[solana.PublicKey]struct{})
	for _, w := range writes {
		if !w.Create {
			continue
		}
		_, exists := s.accounts[w.Address]
		_, dup := created[w.Address]
		if exists || dup {
			return errors.Wrapf(rp.ErrAlreadyExists, "account %s", w.Address)
		}
		created[w.Address] = struct{}{}
	}
	for _, w := range writes {
		s.accounts[w.Address] = clone(w.Data)
	}
	return nil
}

func (s *MemoryStore) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
