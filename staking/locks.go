package staking

import (
	"sync"

	solanago "github.com/gagliardetto/solana-go"
)

// lockTable serializes mutations per account address.
type lockTable struct {
	locks sync.Map // solanago.PublicKey -> *sync.Mutex
}

// lock acquires the locks of addrs in the given order and returns the release func.
// Callers pass the pool before the position.
func (t *lockTable) lock(addrs ...solanago.PublicKey) func() {
	held := make([]*sync.Mutex, 0, len(addrs))
	seen := make(map[solanago.PublicKey]struct{}, len(addrs))
	for _, addr := range addrs {
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		m, _ := t.locks.LoadOrStore(addr, new(sync.Mutex))
		mu := m.(*sync.Mutex)
		mu.Lock()
		held = append(held, mu)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
