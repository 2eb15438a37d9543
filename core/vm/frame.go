package vm

import "github.com/ethforge/kernel/core/types"

// MaxCallDepth bounds CREATE/CALL/CALLCODE/DELEGATECALL nesting.
const MaxCallDepth = 1024

// Frame is one execution context: the interpreter's fetch/dispatch loop
// always runs against exactly one Frame, and CREATE/CALL/CALLCODE/
// DELEGATECALL push a child Frame and run it to completion (depth-first)
// before the parent resumes. Parent links the call chain without needing a
// heap-allocated explicit stack: Go's own call stack plays that role, bounded
// by MaxCallDepth.
type Frame struct {
	Parent *Frame
	Depth  int

	Caller  types.Address
	Address types.Address
	Origin  types.Address

	GasPrice *types.Word
	Value    *types.Word
	Input    []byte
	Code     []byte

	IsStatic bool

	PC   uint64
	Gas  uint64
	Used uint64

	Stack  *Stack
	Memory *Memory

	// ReturnData is the output of the most recently completed child call,
	// readable via RETURNDATACOPY-equivalent opcodes once added.
	ReturnData []byte

	Output    []byte
	Err       error
	Reverted  bool
	SnapshotID int

	jumpdests map[uint64]bool
}

// NewFrame creates a frame for running code against a fixed input and gas
// budget. SnapshotID must be set by the caller once it has taken one.
func NewFrame(parent *Frame, caller, addr, origin types.Address, gasPrice, value *types.Word, input, code []byte, gas uint64, isStatic bool) *Frame {
	depth := 0
	if parent != nil {
		depth = parent.Depth + 1
	}
	return &Frame{
		Parent:   parent,
		Depth:    depth,
		Caller:   caller,
		Address:  addr,
		Origin:   origin,
		GasPrice: gasPrice,
		Value:    value,
		Input:    input,
		Code:     code,
		IsStatic: isStatic,
		Gas:      gas,
		Stack:    NewStack(),
		Memory:   NewMemory(),
	}
}

// GetOp returns the opcode at position n, or STOP past the end of code —
// code falling off the end behaves as an implicit STOP.
func (f *Frame) GetOp(n uint64) OpCode {
	if n < uint64(len(f.Code)) {
		return OpCode(f.Code[n])
	}
	return STOP
}

// UseGas attempts to consume gas, reporting whether enough remained.
func (f *Frame) UseGas(gas uint64) bool {
	if f.Gas < gas {
		return false
	}
	f.Gas -= gas
	f.Used += gas
	return true
}

// ValidJumpDest reports whether dest is a JUMPDEST opcode that is not
// embedded inside another opcode's PUSH data.
func (f *Frame) ValidJumpDest(dest uint64) bool {
	if dest >= uint64(len(f.Code)) {
		return false
	}
	if OpCode(f.Code[dest]) != JUMPDEST {
		return false
	}
	return f.isCode(dest)
}

func (f *Frame) isCode(pos uint64) bool {
	if f.jumpdests == nil {
		f.jumpdests = analyzeJumpdests(f.Code)
	}
	return f.jumpdests[pos]
}

// analyzeJumpdests scans code once to find every byte offset that holds a
// genuine JUMPDEST opcode rather than PUSH immediate data.
func analyzeJumpdests(code []byte) map[uint64]bool {
	dests := make(map[uint64]bool)
	for i := uint64(0); i < uint64(len(code)); i++ {
		op := OpCode(code[i])
		if op == JUMPDEST {
			dests[i] = true
		}
		if op.IsPush() {
			i += uint64(op.PushSize())
		}
	}
	return dests
}
