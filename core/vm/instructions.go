package vm

import (
	"github.com/ethforge/kernel/core/types"
)

func opStop(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) { return nil, nil }

func opAdd(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	x, y := frame.Stack.Pop(), frame.Stack.Peek()
	y.Add(x, y)
	return nil, nil
}

func opMul(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	x, y := frame.Stack.Pop(), frame.Stack.Peek()
	y.Mul(x, y)
	return nil, nil
}

func opSub(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	x, y := frame.Stack.Pop(), frame.Stack.Peek()
	y.Sub(x, y)
	return nil, nil
}

func opDiv(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	x, y := frame.Stack.Pop(), frame.Stack.Peek()
	y.Div(x, y)
	return nil, nil
}

func opSdiv(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	x, y := frame.Stack.Pop(), frame.Stack.Peek()
	y.SDiv(x, y)
	return nil, nil
}

func opMod(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	x, y := frame.Stack.Pop(), frame.Stack.Peek()
	y.Mod(x, y)
	return nil, nil
}

func opSmod(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	x, y := frame.Stack.Pop(), frame.Stack.Peek()
	y.SMod(x, y)
	return nil, nil
}

func opAddmod(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	x, y, m := frame.Stack.Pop(), frame.Stack.Pop(), frame.Stack.Peek()
	m.AddMod(x, y, m)
	return nil, nil
}

func opMulmod(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	x, y, m := frame.Stack.Pop(), frame.Stack.Pop(), frame.Stack.Peek()
	m.MulMod(x, y, m)
	return nil, nil
}

func opExp(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	base, exp := frame.Stack.Pop(), frame.Stack.Peek()
	exp.Exp(base, exp)
	return nil, nil
}

// opSignExtend implements SIGNEXTEND(byteNum, x): treats byte byteNum of x
// (0 = least significant) as the sign byte and extends it leftward.
func opSignExtend(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	byteNum, x := frame.Stack.Pop(), frame.Stack.Peek()
	if byteNum.Uint64() >= 31 {
		return nil, nil
	}
	b := x.Bytes32()
	idx := 31 - int(byteNum.Uint64())
	var fill byte
	if b[idx]&0x80 != 0 {
		fill = 0xff
	}
	for i := 0; i < idx; i++ {
		b[i] = fill
	}
	x.SetBytes32(b[:])
	return nil, nil
}

func opLt(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	x, y := frame.Stack.Pop(), frame.Stack.Peek()
	if x.Lt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opGt(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	x, y := frame.Stack.Pop(), frame.Stack.Peek()
	if x.Gt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opSlt(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	x, y := frame.Stack.Pop(), frame.Stack.Peek()
	if x.Slt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opSgt(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	x, y := frame.Stack.Pop(), frame.Stack.Peek()
	if x.Sgt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opEq(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	x, y := frame.Stack.Pop(), frame.Stack.Peek()
	if x.Eq(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opIsZero(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	x := frame.Stack.Peek()
	zero := x.IsZero()
	x.Clear()
	if zero {
		x.SetOne()
	}
	return nil, nil
}

func opAnd(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	x, y := frame.Stack.Pop(), frame.Stack.Peek()
	y.And(x, y)
	return nil, nil
}

func opOr(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	x, y := frame.Stack.Pop(), frame.Stack.Peek()
	y.Or(x, y)
	return nil, nil
}

func opXor(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	x, y := frame.Stack.Pop(), frame.Stack.Peek()
	y.Xor(x, y)
	return nil, nil
}

func opNot(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	x := frame.Stack.Peek()
	x.Not(x)
	return nil, nil
}

func opByte(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	pos, val := frame.Stack.Pop(), frame.Stack.Peek()
	if pos.Uint64() >= 32 {
		val.Clear()
		return nil, nil
	}
	b := val.Bytes32()
	out := b[pos.Uint64()]
	val.Clear()
	val.SetUint64(uint64(out))
	return nil, nil
}

func opSha3(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	offset, size := frame.Stack.Pop(), frame.Stack.Pop()
	data := frame.Memory.Get(offset.Uint64(), size.Uint64())
	h := interp.Hasher.Keccak256(data)
	frame.Stack.Push(wordFromHash(h))
	return nil, nil
}

func opAddress(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	w := types.AddressToWord(frame.Address)
	frame.Stack.Push(&w)
	return nil, nil
}

func opBalance(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	addrWord := frame.Stack.Peek()
	addr := types.WordToAddress(*addrWord)
	bal := interp.State.Balance(addr)
	addrWord.Set(bal)
	return nil, nil
}

func opOrigin(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	w := types.AddressToWord(frame.Origin)
	frame.Stack.Push(&w)
	return nil, nil
}

func opCaller(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	w := types.AddressToWord(frame.Caller)
	frame.Stack.Push(&w)
	return nil, nil
}

func opCallValue(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	frame.Stack.Push(new(types.Word).Set(frame.Value))
	return nil, nil
}

func opCalldataLoad(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	off := frame.Stack.Peek()
	i := off.Uint64()
	var buf [32]byte
	if i < uint64(len(frame.Input)) {
		copy(buf[:], frame.Input[i:])
	}
	off.SetBytes32(buf[:])
	return nil, nil
}

func opCalldataSize(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	frame.Stack.Push(types.NewWord(uint64(len(frame.Input))))
	return nil, nil
}

func opCalldataCopy(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	destOff, srcOff, size := frame.Stack.Pop(), frame.Stack.Pop(), frame.Stack.Pop()
	data := zeroPaddedSlice(frame.Input, srcOff.Uint64(), size.Uint64())
	frame.Memory.Set(destOff.Uint64(), size.Uint64(), data)
	return nil, nil
}

func opCodeSize(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	frame.Stack.Push(types.NewWord(uint64(len(frame.Code))))
	return nil, nil
}

func opCodeCopy(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	destOff, srcOff, size := frame.Stack.Pop(), frame.Stack.Pop(), frame.Stack.Pop()
	data := zeroPaddedSlice(frame.Code, srcOff.Uint64(), size.Uint64())
	frame.Memory.Set(destOff.Uint64(), size.Uint64(), data)
	return nil, nil
}

func opGasPrice(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	frame.Stack.Push(new(types.Word).Set(frame.GasPrice))
	return nil, nil
}

func opExtCodeSize(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	addrWord := frame.Stack.Peek()
	addr := types.WordToAddress(*addrWord)
	addrWord.SetUint64(uint64(len(interp.State.Code(addr))))
	return nil, nil
}

func opExtCodeCopy(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	addrWord, destOff, srcOff, size := frame.Stack.Pop(), frame.Stack.Pop(), frame.Stack.Pop(), frame.Stack.Pop()
	addr := types.WordToAddress(*addrWord)
	code := interp.State.Code(addr)
	data := zeroPaddedSlice(code, srcOff.Uint64(), size.Uint64())
	frame.Memory.Set(destOff.Uint64(), size.Uint64(), data)
	return nil, nil
}

func opBlockhash(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	numWord := frame.Stack.Peek()
	current := interp.Block.Number.Uint64()
	n := numWord.Uint64()
	if !numWord.IsUint64() || n >= current || (current > 256 && n < current-256) {
		numWord.Clear()
		return nil, nil
	}
	if interp.Block.GetHash == nil {
		numWord.Clear()
		return nil, nil
	}
	h := interp.Block.GetHash(n)
	numWord.Set(wordFromHash(h))
	return nil, nil
}

func opCoinbase(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	w := types.AddressToWord(interp.Block.Coinbase)
	frame.Stack.Push(&w)
	return nil, nil
}

func opTimestamp(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	frame.Stack.Push(types.NewWord(interp.Block.Time))
	return nil, nil
}

func opNumber(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	frame.Stack.Push(new(types.Word).Set(interp.Block.Number))
	return nil, nil
}

func opDifficulty(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	frame.Stack.Push(new(types.Word).Set(interp.Block.Difficulty))
	return nil, nil
}

func opGasLimit(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	frame.Stack.Push(types.NewWord(interp.Block.GasLimit))
	return nil, nil
}

func opPop(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	frame.Stack.Pop()
	return nil, nil
}

func opMload(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	off := frame.Stack.Peek()
	b := frame.Memory.Get(off.Uint64(), 32)
	off.SetBytes32(b)
	return nil, nil
}

func opMstore(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	off, val := frame.Stack.Pop(), frame.Stack.Pop()
	frame.Memory.Set32(off.Uint64(), val)
	return nil, nil
}

func opMstore8(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	off, val := frame.Stack.Pop(), frame.Stack.Pop()
	frame.Memory.Set(off.Uint64(), 1, []byte{byte(val.Uint64())})
	return nil, nil
}

func opSload(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	key := frame.Stack.Peek()
	val := interp.State.GetStorage(frame.Address, *key)
	key.Set(&val)
	return nil, nil
}

func opSstore(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	if frame.IsStatic {
		return nil, ErrWriteProtection
	}
	key, val := frame.Stack.Pop(), frame.Stack.Pop()
	current := interp.State.GetStorage(frame.Address, *key)
	if current.IsZero() && !val.IsZero() {
		interp.State.AddRefund(frame.Address)
	}
	interp.State.SetStorage(frame.Address, *key, *val)
	return nil, nil
}

func opJump(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	dest := frame.Stack.Pop()
	if !dest.IsUint64() || !frame.ValidJumpDest(dest.Uint64()) {
		return nil, ErrInvalidJump
	}
	frame.PC = dest.Uint64()
	return nil, nil
}

func opJumpi(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	dest, cond := frame.Stack.Pop(), frame.Stack.Pop()
	if cond.IsZero() {
		frame.PC++
		return nil, nil
	}
	if !dest.IsUint64() || !frame.ValidJumpDest(dest.Uint64()) {
		return nil, ErrInvalidJump
	}
	frame.PC = dest.Uint64()
	return nil, nil
}

func opPc(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	frame.Stack.Push(types.NewWord(frame.PC))
	return nil, nil
}

func opMsize(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	frame.Stack.Push(types.NewWord(uint64(frame.Memory.Len())))
	return nil, nil
}

func opGas(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	frame.Stack.Push(types.NewWord(frame.Gas))
	return nil, nil
}

func opJumpdest(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) { return nil, nil }

// makePush returns the handler for PUSHn: it reads n code bytes following
// pc as a big-endian word (zero-padded if code ends early) and advances pc
// by n+1.
func makePush(n int) executionFunc {
	return func(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
		start := *pc + 1
		var buf [32]byte
		for i := 0; i < n; i++ {
			idx := start + uint64(i)
			if idx < uint64(len(frame.Code)) {
				buf[32-n+i] = frame.Code[idx]
			}
		}
		w := new(types.Word).SetBytes32(buf[:])
		frame.Stack.Push(w)
		*pc += uint64(n) + 1
		return nil, nil
	}
}

func makeDup(n int) executionFunc {
	return func(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
		frame.Stack.Dup(n)
		return nil, nil
	}
}

func makeSwap(n int) executionFunc {
	return func(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
		frame.Stack.Swap(n)
		return nil, nil
	}
}

func makeLog(n int) executionFunc {
	return func(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
		if frame.IsStatic {
			return nil, ErrWriteProtection
		}
		offset, size := frame.Stack.Pop(), frame.Stack.Pop()
		data := frame.Memory.Get(offset.Uint64(), size.Uint64())
		topics := make([]types.Word, n)
		for i := 0; i < n; i++ {
			topics[i] = *frame.Stack.Pop()
		}
		interp.State.AddLog(&types.LogEntry{Address: frame.Address, Topics: topics, Data: data})
		return nil, nil
	}
}

func opCreate(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	value, offset, size := frame.Stack.Pop(), frame.Stack.Pop(), frame.Stack.Pop()
	initCode := frame.Memory.Get(offset.Uint64(), size.Uint64())
	nonce := interp.State.Nonce(frame.Address)
	interp.State.SetNonce(frame.Address, nonce+1)
	addr := interp.newContractAddress(frame.Address, nonce)

	gas := frame.Gas
	frame.Gas = 0
	createdAddr, leftover, ok := interp.create(frame, value, initCode, addr, gas)
	frame.Gas = leftover
	if !ok {
		frame.Stack.Push(new(types.Word))
		return nil, nil
	}
	w := types.AddressToWord(createdAddr)
	frame.Stack.Push(&w)
	return nil, nil
}

func opCreate2(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	value, offset, size, saltW := frame.Stack.Pop(), frame.Stack.Pop(), frame.Stack.Pop(), frame.Stack.Pop()
	initCode := frame.Memory.Get(offset.Uint64(), size.Uint64())
	addr := interp.newContractAddress2(frame.Address, *saltW, initCode)
	nonce := interp.State.Nonce(frame.Address)
	interp.State.SetNonce(frame.Address, nonce+1)

	gas := frame.Gas
	frame.Gas = 0
	createdAddr, leftover, ok := interp.create(frame, value, initCode, addr, gas)
	frame.Gas = leftover
	if !ok {
		frame.Stack.Push(new(types.Word))
		return nil, nil
	}
	w := types.AddressToWord(createdAddr)
	frame.Stack.Push(&w)
	return nil, nil
}

func opCall(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	return doCall(interp, frame, CallKindCall, true)
}

func opCallCode(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	return doCall(interp, frame, CallKindCallCode, true)
}

func opDelegateCall(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	return doCall(interp, frame, CallKindDelegateCall, false)
}

// doCall pops a call opcode's arguments, dispatches to Interpreter.call,
// copies returned data into the caller's memory, and pushes the success
// flag. Shared by CALL, CALLCODE, and DELEGATECALL.
func doCall(interp *Interpreter, frame *Frame, kind CallKind, hasValue bool) ([]byte, error) {
	gasArg := frame.Stack.Pop()
	toWord := frame.Stack.Pop()
	var value *types.Word
	if hasValue {
		value = frame.Stack.Pop()
	} else {
		value = new(types.Word)
	}
	inOff, inSize := frame.Stack.Pop(), frame.Stack.Pop()
	outOff, outSize := frame.Stack.Pop(), frame.Stack.Pop()

	to := types.WordToAddress(*toWord)
	input := frame.Memory.Get(inOff.Uint64(), inSize.Uint64())

	gas := gasArg.Uint64()
	if gas > frame.Gas {
		gas = frame.Gas
	}
	frame.Gas -= gas
	if hasValue && !value.IsZero() {
		gas += GasCallStipend
	}

	storageAddr := frame.Address
	if kind == CallKindCall {
		storageAddr = to
	}

	ret, leftover, ok := interp.call(frame, kind, storageAddr, to, value, input, gas, frame.IsStatic)
	frame.Gas += leftover

	n := outSize.Uint64()
	if uint64(len(ret)) < n {
		n = uint64(len(ret))
	}
	if n > 0 {
		frame.Memory.Set(outOff.Uint64(), n, ret[:n])
	}
	frame.ReturnData = ret

	success := new(types.Word)
	if ok {
		success.SetOne()
	}
	frame.Stack.Push(success)
	return nil, nil
}

func opReturn(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	offset, size := frame.Stack.Pop(), frame.Stack.Pop()
	return frame.Memory.Get(offset.Uint64(), size.Uint64()), nil
}

func opRevert(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	offset, size := frame.Stack.Pop(), frame.Stack.Pop()
	data := frame.Memory.Get(offset.Uint64(), size.Uint64())
	return data, ErrExecutionReverted
}

func opInvalid(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	frame.Gas = 0
	return nil, ErrInvalidOpcode
}

func opSelfdestruct(pc *uint64, interp *Interpreter, frame *Frame) ([]byte, error) {
	if frame.IsStatic {
		return nil, ErrWriteProtection
	}
	beneficiaryWord := frame.Stack.Pop()
	beneficiary := types.WordToAddress(*beneficiaryWord)
	interp.State.SelfDestruct(frame.Address, beneficiary)
	return nil, nil
}

func zeroPaddedSlice(src []byte, offset, size uint64) []byte {
	out := make([]byte, size)
	if offset >= uint64(len(src)) {
		return out
	}
	end := offset + size
	if end > uint64(len(src)) {
		end = uint64(len(src))
	}
	copy(out, src[offset:end])
	return out
}

func wordFromHash(h types.Hash) *types.Word {
	w := types.HashToWord(h)
	return &w
}
