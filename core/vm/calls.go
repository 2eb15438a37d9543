package vm

import (
	"encoding/binary"

	"github.com/ethforge/kernel/core/types"
)

// CallKind distinguishes the four message-call opcodes for logging and for
// the small behavioral differences between them (callee identity, value
// transfer, staticness).
type CallKind int

const (
	CallKindCall CallKind = iota
	CallKindCallCode
	CallKindDelegateCall
)

// newContractAddress derives the address CREATE assigns, from the sender
// and its pre-increment nonce. The canonical scheme hashes the RLP
// encoding of (sender, nonce); this module's codec collaborator only
// covers headers and blocks, so address derivation hashes the sender and
// nonce bytes directly instead of reimplementing RLP here.
func (in *Interpreter) newContractAddress(sender types.Address, nonce uint64) types.Address {
	var nb [8]byte
	binary.BigEndian.PutUint64(nb[:], nonce)
	h := in.Hasher.Keccak256(sender.Bytes(), nb[:])
	return types.BytesToAddress(h.Bytes()[12:])
}

// newContractAddress2 derives the address CREATE2 assigns: keccak256(0xff ++
// sender ++ salt ++ keccak256(init_code))[12:].
func (in *Interpreter) newContractAddress2(sender types.Address, salt types.Word, initCode []byte) types.Address {
	codeHash := in.Hasher.Keccak256(initCode)
	saltBytes := salt.Bytes32()
	h := in.Hasher.Keccak256([]byte{0xff}, sender.Bytes(), saltBytes[:], codeHash.Bytes())
	return types.BytesToAddress(h.Bytes()[12:])
}

// create runs init code in a fresh child frame and, on success, installs
// its return value as the new account's code. Shared by CREATE and CREATE2.
// The bool result reports whether the created address is usable; false
// covers both an insufficient-balance rejection and a failed init run.
func (in *Interpreter) create(caller *Frame, value *types.Word, initCode []byte, addr types.Address, gas uint64) (types.Address, uint64, bool) {
	if caller.Depth+1 > MaxCallDepth {
		return types.Address{}, gas, false
	}
	if in.State.Balance(caller.Address).Cmp(value) < 0 {
		return types.Address{}, gas, false
	}

	snap := in.State.Snapshot()
	in.State.CreateAccount(addr)
	in.State.SetNonce(addr, 0)
	in.State.SubBalance(caller.Address, value)
	in.State.AddBalance(addr, value)

	child := NewFrame(caller, caller.Address, addr, caller.Origin, caller.GasPrice, value, nil, initCode, gas, caller.IsStatic)
	child.SnapshotID = snap

	code, err := in.Run(child)
	if err != nil || child.Reverted {
		in.State.RevertToSnapshot(snap)
		return types.Address{}, child.Gas, false
	}

	in.State.SetCode(addr, code)
	in.State.Commit(snap)
	in.mergeChild(caller, child)
	return addr, child.Gas, true
}

// call runs target code in a child frame whose callee is `codeAddr`'s code
// but whose storage/balance context is `storageAddr` — the same for CALL,
// different for CALLCODE/DELEGATECALL. The bool result is the value
// CALL/CALLCODE/DELEGATECALL push on success.
func (in *Interpreter) call(caller *Frame, kind CallKind, storageAddr, codeAddr types.Address, value *types.Word, input []byte, gas uint64, isStatic bool) ([]byte, uint64, bool) {
	if caller.Depth+1 > MaxCallDepth {
		return nil, gas, false
	}
	if kind == CallKindCall && in.State.Balance(caller.Address).Cmp(value) < 0 {
		return nil, gas, false
	}

	snap := in.State.Snapshot()
	if kind == CallKindCall {
		in.State.CreateAccount(storageAddr)
		in.State.SubBalance(caller.Address, value)
		in.State.AddBalance(storageAddr, value)
	}

	origin := caller.Origin
	callerAddr := caller.Address
	callValue := value
	if kind == CallKindDelegateCall {
		origin = caller.Origin
		callerAddr = caller.Caller
		callValue = caller.Value
	}

	code := in.State.Code(codeAddr)
	child := NewFrame(caller, callerAddr, storageAddr, origin, caller.GasPrice, callValue, input, code, gas, isStatic)
	child.SnapshotID = snap

	ret, err := in.Run(child)
	if err != nil && !child.Reverted {
		in.State.RevertToSnapshot(snap)
		return nil, child.Gas, false
	}
	if child.Reverted {
		// REVERT's output is still the call's return data: a caller reads
		// the revert reason out of its own memory after a failed CALL.
		in.State.RevertToSnapshot(snap)
		return ret, child.Gas, false
	}
	in.State.Commit(snap)
	in.mergeChild(caller, child)
	return ret, child.Gas, true
}

// mergeChild folds a successful child frame's return data into the parent;
// logs, refunds and self-destructs already live in the shared State and
// need no separate merge step.
func (in *Interpreter) mergeChild(parent, child *Frame) {
	parent.ReturnData = child.Output
}
