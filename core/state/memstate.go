package state

import "github.com/ethforge/kernel/core/types"

type account struct {
	balance *types.Word
	nonce   uint64
	code    []byte
	storage map[types.Word]types.Word
}

func newAccount() *account {
	return &account{balance: new(types.Word), storage: make(map[types.Word]types.Word)}
}

func (a *account) clone() *account {
	c := &account{
		balance: new(types.Word).Set(a.balance),
		nonce:   a.nonce,
		storage: make(map[types.Word]types.Word, len(a.storage)),
	}
	if a.code != nil {
		c.code = append([]byte(nil), a.code...)
	}
	for k, v := range a.storage {
		c.storage[k] = v
	}
	return c
}

// restorePoint is the state captured by Snapshot, held until Commit or
// RevertToSnapshot decides what happens to it.
type restorePoint struct {
	accounts      map[types.Address]*account
	logsLen       int
	refunds       map[types.Address]bool
	refundOrder   []types.Address
	destructed    map[types.Address]bool
	destructOrder []types.Address
}

// MemoryState is a reference, in-memory implementation of State. It keeps
// one mutable account table and a stack of restore points for
// snapshot/revert/commit, rather than a layered copy-on-write store — fine
// for an in-process interpreter, not for a production multi-block node.
type MemoryState struct {
	accounts      map[types.Address]*account
	logs          []*types.LogEntry
	refunds       map[types.Address]bool
	refundOrder   []types.Address
	destructed    map[types.Address]bool
	destructOrder []types.Address
	points        []restorePoint
}

// NewMemoryState returns an empty MemoryState.
func NewMemoryState() *MemoryState {
	return &MemoryState{
		accounts:   make(map[types.Address]*account),
		refunds:    make(map[types.Address]bool),
		destructed: make(map[types.Address]bool),
	}
}

func (s *MemoryState) get(addr types.Address) *account {
	a, ok := s.accounts[addr]
	if !ok {
		a = newAccount()
		s.accounts[addr] = a
	}
	return a
}

func (s *MemoryState) Balance(addr types.Address) *types.Word {
	return new(types.Word).Set(s.get(addr).balance)
}

func (s *MemoryState) Nonce(addr types.Address) uint64 { return s.get(addr).nonce }

func (s *MemoryState) SetBalance(addr types.Address, w *types.Word) {
	s.get(addr).balance = new(types.Word).Set(w)
}

func (s *MemoryState) AddBalance(addr types.Address, w *types.Word) {
	a := s.get(addr)
	a.balance = new(types.Word).Add(a.balance, w)
}

func (s *MemoryState) SubBalance(addr types.Address, w *types.Word) {
	a := s.get(addr)
	a.balance = new(types.Word).Sub(a.balance, w)
}

func (s *MemoryState) SetNonce(addr types.Address, n uint64) { s.get(addr).nonce = n }

func (s *MemoryState) Code(addr types.Address) []byte { return s.get(addr).code }

func (s *MemoryState) SetCode(addr types.Address, code []byte) {
	s.get(addr).code = append([]byte(nil), code...)
}

func (s *MemoryState) CodeHash(addr types.Address) types.Hash {
	// Identity-only placeholder: real code-hash computation goes through
	// the Hasher collaborator, which this package does not depend on.
	return types.BytesToHash(s.get(addr).code)
}

func (s *MemoryState) GetStorage(addr types.Address, key types.Word) types.Word {
	return s.get(addr).storage[key]
}

func (s *MemoryState) SetStorage(addr types.Address, key, value types.Word) {
	s.get(addr).storage[key] = value
}

func (s *MemoryState) Exist(addr types.Address) bool {
	_, ok := s.accounts[addr]
	return ok
}

func (s *MemoryState) Empty(addr types.Address) bool {
	a, ok := s.accounts[addr]
	if !ok {
		return true
	}
	return a.nonce == 0 && a.balance.IsZero() && len(a.code) == 0
}

func (s *MemoryState) CreateAccount(addr types.Address) {
	if _, ok := s.accounts[addr]; !ok {
		s.accounts[addr] = newAccount()
	}
}

func (s *MemoryState) SelfDestruct(addr, beneficiary types.Address) {
	bal := s.get(addr).balance
	s.AddBalance(beneficiary, bal)
	s.SetBalance(addr, new(types.Word))
	if !s.destructed[addr] {
		s.destructed[addr] = true
		s.destructOrder = append(s.destructOrder, addr)
	}
	s.AddRefund(beneficiary)
}

func (s *MemoryState) HasSelfDestructed(addr types.Address) bool { return s.destructed[addr] }

func (s *MemoryState) SelfDestructSet() []types.Address {
	return append([]types.Address(nil), s.destructOrder...)
}

func (s *MemoryState) AddLog(entry *types.LogEntry) { s.logs = append(s.logs, entry) }

func (s *MemoryState) Logs() []*types.LogEntry { return append([]*types.LogEntry(nil), s.logs...) }

func (s *MemoryState) AddRefund(addr types.Address) {
	if !s.refunds[addr] {
		s.refunds[addr] = true
		s.refundOrder = append(s.refundOrder, addr)
	}
}

func (s *MemoryState) RefundSet() []types.Address {
	return append([]types.Address(nil), s.refundOrder...)
}

func (s *MemoryState) Snapshot() int {
	accounts := make(map[types.Address]*account, len(s.accounts))
	for addr, a := range s.accounts {
		accounts[addr] = a.clone()
	}
	s.points = append(s.points, restorePoint{
		accounts:      accounts,
		logsLen:       len(s.logs),
		refunds:       cloneBoolSet(s.refunds),
		refundOrder:   append([]types.Address(nil), s.refundOrder...),
		destructed:    cloneBoolSet(s.destructed),
		destructOrder: append([]types.Address(nil), s.destructOrder...),
	})
	return len(s.points) - 1
}

func (s *MemoryState) RevertToSnapshot(id int) {
	if id < 0 || id >= len(s.points) {
		return
	}
	p := s.points[id]
	s.accounts = p.accounts
	s.logs = s.logs[:p.logsLen]
	s.refunds = p.refunds
	s.refundOrder = p.refundOrder
	s.destructed = p.destructed
	s.destructOrder = p.destructOrder
	s.points = s.points[:id]
}

func (s *MemoryState) Commit(id int) {
	if id < 0 || id > len(s.points) {
		return
	}
	s.points = s.points[:id]
}

func cloneBoolSet(m map[types.Address]bool) map[types.Address]bool {
	c := make(map[types.Address]bool, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
