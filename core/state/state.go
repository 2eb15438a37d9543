// Package state defines the State collaborator the interpreter consumes
// and ships one in-memory reference implementation of it. A production
// node supplies its own State backed by a trie and a persistent database;
// this module only specifies the contract.
package state

import "github.com/ethforge/kernel/core/types"

// State is the per-account balance/nonce/code/storage store fronting the
// world state, plus the snapshot/revert/commit machinery frames use to
// make their effects provisional until the call succeeds.
type State interface {
	Balance(addr types.Address) *types.Word
	Nonce(addr types.Address) uint64
	SetBalance(addr types.Address, w *types.Word)
	AddBalance(addr types.Address, w *types.Word)
	SubBalance(addr types.Address, w *types.Word)
	SetNonce(addr types.Address, n uint64)

	Code(addr types.Address) []byte
	SetCode(addr types.Address, code []byte)
	CodeHash(addr types.Address) types.Hash

	GetStorage(addr types.Address, key types.Word) types.Word
	SetStorage(addr types.Address, key, value types.Word)

	Exist(addr types.Address) bool
	Empty(addr types.Address) bool
	CreateAccount(addr types.Address)

	// SelfDestruct transfers addr's entire balance to beneficiary and
	// marks addr for removal at the end of the current transaction.
	SelfDestruct(addr, beneficiary types.Address)
	HasSelfDestructed(addr types.Address) bool
	SelfDestructSet() []types.Address

	AddLog(entry *types.LogEntry)
	Logs() []*types.LogEntry

	// AddRefund registers addr in the refund set: beneficiaries of a
	// SELFDESTRUCT are tracked here even though no gas refund is paid out.
	AddRefund(addr types.Address)
	RefundSet() []types.Address

	// Snapshot/RevertToSnapshot/Commit give frames provisional state: a
	// child frame's mutations are visible to it and any further
	// descendants, but are discarded wholesale on RevertToSnapshot and
	// made permanent (merged into the parent's view) on Commit.
	Snapshot() int
	RevertToSnapshot(id int)
	Commit(id int)
}
