package vm

import "github.com/ethforge/kernel/core/types"

// Memory-size and dynamic-gas helper functions consumed by the jump table.
// Each memorySizeFunc reports the byte offset an operation's memory
// argument(s) reach; each dynamicGasFunc reports the variable gas charge on
// top of an operation's constant cost.

// memorySingle returns a memorySizeFunc for ops with one memory offset
// argument at stack position offIdx and a fixed access width.
func memorySingle(offIdx int, width uint64) memorySizeFunc {
	return func(stack *Stack) (uint64, bool) {
		off := stack.Back(offIdx)
		if !off.IsUint64() {
			return 0, true
		}
		o := off.Uint64()
		sum := o + width
		if sum < o {
			return 0, true
		}
		return sum, false
	}
}

// memoryOffsetSize returns a memorySizeFunc for ops with an (offset, size)
// pair at stack positions offIdx/sizeIdx.
func memoryOffsetSize(offIdx, sizeIdx int) memorySizeFunc {
	return func(stack *Stack) (uint64, bool) {
		off := stack.Back(offIdx)
		size := stack.Back(sizeIdx)
		if size.IsZero() {
			return 0, false
		}
		if !off.IsUint64() || !size.IsUint64() {
			return 0, true
		}
		o, s := off.Uint64(), size.Uint64()
		sum := o + s
		if sum < o {
			return 0, true
		}
		return sum, false
	}
}

// memoryCallInput covers CALL/CALLCODE's two memory ranges (input at
// args[3:5], output at args[5:7]) and reports the larger extent.
func memoryCallInput(stack *Stack) (uint64, bool) {
	in, inOverflow := memoryOffsetSize(3, 4)(stack)
	out, outOverflow := memoryOffsetSize(5, 6)(stack)
	if inOverflow || outOverflow {
		return 0, true
	}
	if out > in {
		return out, false
	}
	return in, false
}

// memoryCallInputDelegate is memoryCallInput shifted down one argument —
// DELEGATECALL has no value argument.
func memoryCallInputDelegate(stack *Stack) (uint64, bool) {
	in, inOverflow := memoryOffsetSize(2, 3)(stack)
	out, outOverflow := memoryOffsetSize(4, 5)(stack)
	if inOverflow || outOverflow {
		return 0, true
	}
	if out > in {
		return out, false
	}
	return in, false
}

func gasSha3(interp *Interpreter, frame *Frame, memSize uint64) (uint64, error) {
	size := frame.Stack.Back(1)
	if !size.IsUint64() {
		return 0, ErrOutOfGas
	}
	words := WordCount(size.Uint64())
	return words * GasSha3Word, nil
}

// gasCopy returns a dynamicGasFunc charging GasCopyWord per word copied,
// reading the copy length from stack position sizeIdx.
func gasCopy(sizeIdx int) dynamicGasFunc {
	return func(interp *Interpreter, frame *Frame, memSize uint64) (uint64, error) {
		size := frame.Stack.Back(sizeIdx)
		if !size.IsUint64() {
			return 0, ErrOutOfGas
		}
		return WordCount(size.Uint64()) * GasCopyWord, nil
	}
}

func gasSstore(interp *Interpreter, frame *Frame, memSize uint64) (uint64, error) {
	key := frame.Stack.Back(0)
	value := frame.Stack.Back(1)
	current := interp.State.GetStorage(frame.Address, *key)
	return sstoreGas(current, *value), nil
}

// gasLog returns a dynamicGasFunc for LOGn: a flat base plus per-topic and
// per-byte-of-data charges.
func gasLog(n int) dynamicGasFunc {
	return func(interp *Interpreter, frame *Frame, memSize uint64) (uint64, error) {
		size := frame.Stack.Back(1)
		if !size.IsUint64() {
			return 0, ErrOutOfGas
		}
		return GasLog + uint64(n)*GasLogTopic + size.Uint64()*GasLogData, nil
	}
}

// gasCallValue is the dynamicGasFunc for CALL: on top of the flat GasCall
// constant cost it charges GasCallValue for a non-zero value transfer, plus
// GasCallNewAcct if the destination account does not yet exist. This table
// predates the 63/64ths forwarding rule, matching the Frontier constants
// the rest of this table uses.
func gasCallValue(interp *Interpreter, frame *Frame, memSize uint64) (uint64, error) {
	value := frame.Stack.Back(2)
	to := types.WordToAddress(*frame.Stack.Back(1))

	var cost uint64
	if !value.IsZero() {
		cost += GasCallValue
	}
	if !interp.State.Exist(to) {
		cost += GasCallNewAcct
	}
	return cost, nil
}

// gasCallCodeValue is gasCallValue without the new-account surcharge:
// CALLCODE never touches a different account's storage, so there is no new
// account to create.
func gasCallCodeValue(interp *Interpreter, frame *Frame, memSize uint64) (uint64, error) {
	value := frame.Stack.Back(2)
	if value.IsZero() {
		return 0, nil
	}
	return GasCallValue, nil
}

func gasCreate2(interp *Interpreter, frame *Frame, memSize uint64) (uint64, error) {
	size := frame.Stack.Back(2)
	if !size.IsUint64() {
		return 0, ErrOutOfGas
	}
	return WordCount(size.Uint64()) * GasSha3Word, nil
}
