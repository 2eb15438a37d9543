package vm

import (
	"errors"

	"github.com/ethforge/kernel/core/state"
	"github.com/ethforge/kernel/core/types"
	"github.com/ethforge/kernel/log"
)

// GetHashFunc resolves a block number to the hash BLOCKHASH should return,
// walking the parent_hash chain the distance described for that opcode.
type GetHashFunc func(num uint64) types.Hash

// BlockContext carries the block-level values opcodes in the 0x40-0x45
// range read.
type BlockContext struct {
	GetHash    GetHashFunc
	Coinbase   types.Address
	Number     *types.Word
	Time       uint64
	Difficulty *types.Word
	GasLimit   uint64
}

// TxContext carries the values ORIGIN and GASPRICE read.
type TxContext struct {
	Origin   types.Address
	GasPrice *types.Word
}

// Interpreter runs frames against a fixed world state and block/tx context.
// It owns no mutable execution state itself — every Run call operates on
// the Frame it is given — so one Interpreter can run any number of calls.
type Interpreter struct {
	State     state.State
	Block     BlockContext
	Tx        TxContext
	Hasher    types.Hasher
	jumpTable *JumpTable
	logger    *log.Logger
}

// NewInterpreter returns an Interpreter dispatching against the Frontier
// opcode table (core/vm/jump_table.go).
func NewInterpreter(st state.State, block BlockContext, tx TxContext, hasher types.Hasher) *Interpreter {
	return &Interpreter{
		State:     st,
		Block:     block,
		Tx:        tx,
		Hasher:    hasher,
		jumpTable: NewFrontierJumpTable(),
		logger:    log.Default().Module("vm"),
	}
}

// Run is the fetch/validate/dispatch loop: for each step it fetches the
// opcode at the program counter, validates stack depth, charges constant
// and dynamic gas (expanding memory first if the opcode touches it), then
// executes the handler and advances pc unless the handler already moved it
// (JUMP/JUMPI) or halted the frame.
func (in *Interpreter) Run(frame *Frame) ([]byte, error) {
	for {
		op := frame.GetOp(frame.PC)
		opv := in.jumpTable[op]
		if opv == nil || opv.execute == nil {
			in.logger.Debug("invalid opcode", "op", byte(op), "pc", frame.PC)
			return nil, ErrInvalidOpcode
		}

		n := frame.Stack.Len()
		if n < opv.minStack {
			return nil, ErrStackUnderflow
		}
		if n > opv.maxStack {
			return nil, ErrStackOverflow
		}

		if opv.constantGas > 0 && !frame.UseGas(opv.constantGas) {
			return nil, ErrOutOfGas
		}

		var memSize uint64
		if opv.memorySize != nil {
			size, overflow := opv.memorySize(frame.Stack)
			if overflow {
				return nil, ErrOutOfGas
			}
			if size > 0 {
				words := WordCount(size)
				newLen := words * 32
				if uint64(frame.Memory.Len()) < newLen {
					cost, _ := memoryGasCost(uint64(WordCount(uint64(frame.Memory.Len()))), newLen)
					if !frame.UseGas(cost) {
						return nil, ErrOutOfGas
					}
					frame.Memory.Resize(newLen)
				}
			}
			memSize = newMemSizeOrCurrent(frame, size)
		}

		if opv.dynamicGas != nil {
			cost, err := opv.dynamicGas(in, frame, memSize)
			if err != nil {
				return nil, err
			}
			if !frame.UseGas(cost) {
				return nil, ErrOutOfGas
			}
		}

		prevPC := frame.PC
		ret, err := opv.execute(&frame.PC, in, frame)
		if err != nil {
			if errors.Is(err, ErrExecutionReverted) {
				frame.Output = ret
				frame.Reverted = true
				return ret, err
			}
			return nil, err
		}

		if opv.halts {
			frame.Output = ret
			return ret, nil
		}
		if frame.PC == prevPC {
			frame.PC++
		}
	}
}

func newMemSizeOrCurrent(frame *Frame, requested uint64) uint64 {
	if uint64(frame.Memory.Len()) > requested {
		return uint64(frame.Memory.Len())
	}
	return requested
}
