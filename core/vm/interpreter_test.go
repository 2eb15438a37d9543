package vm

import (
	"errors"
	"testing"

	"github.com/ethforge/kernel/core/state"
	"github.com/ethforge/kernel/core/types"
	"golang.org/x/crypto/sha3"
)

// testHasher is a minimal Hasher, kept local to vm's tests rather than
// importing the chain package's Keccak256Hasher, so vm's tests exercise
// only the vm package's own dependency surface.
type testHasher struct{}

func (testHasher) Keccak256(data ...[]byte) types.Hash {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	return types.BytesToHash(h.Sum(nil))
}

func newTestInterpreter(t *testing.T) (*Interpreter, state.State) {
	t.Helper()
	st := state.NewMemoryState()
	interp := NewInterpreter(st, BlockContext{
		Number:     types.NewWord(1),
		Difficulty: types.NewWord(1),
		GasLimit:   30_000_000,
	}, TxContext{GasPrice: types.NewWord(1)}, testHasher{})
	return interp, st
}

func runCode(t *testing.T, interp *Interpreter, code []byte, gas uint64) (*Frame, []byte, error) {
	t.Helper()
	frame := NewFrame(nil, types.Address{}, types.Address{0xAA}, types.Address{}, types.NewWord(0), types.NewWord(0), nil, code, gas, false)
	out, err := interp.Run(frame)
	return frame, out, err
}

// PUSH1 1; PUSH1 1; ADD; PUSH1 (truncated, no immediate byte).
func TestScenarioTruncatedPush(t *testing.T) {
	interp, _ := newTestInterpreter(t)
	code := []byte{0x60, 0x01, 0x60, 0x01, 0x01, 0x60}
	frame, _, err := runCode(t, interp, code, 1_000_000)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if frame.Stack.Len() != 2 {
		t.Fatalf("stack len = %d, want 2", frame.Stack.Len())
	}
	top := frame.Stack.Pop()
	if top.Uint64() != 0 {
		t.Fatalf("top after truncated push = %d, want 0", top.Uint64())
	}
	sum := frame.Stack.Pop()
	if sum.Uint64() != 2 {
		t.Fatalf("sum = %d, want 2", sum.Uint64())
	}
}

// PUSH1 5; PUSH1 2; SUB computes 2 - 5, which wraps to 2^256 - 3.
func TestScenarioSubUnderflowWraps(t *testing.T) {
	interp, _ := newTestInterpreter(t)
	code := []byte{0x60, 0x05, 0x60, 0x02, 0x03}
	frame, _, err := runCode(t, interp, code, 1_000_000)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	got := frame.Stack.Pop()
	want := new(types.Word).Sub(new(types.Word), types.NewWord(3))
	if got.Cmp(want) != 0 {
		t.Fatalf("2-5 = %s, want %s", got.String(), want.String())
	}
}

// PUSH1 0; PUSH1 0; EQ; PUSH2 <jumpdest offset>; JUMPI; INVALID; JUMPDEST; STOP.
func TestScenarioJumpiTakesValidJumpdest(t *testing.T) {
	interp, _ := newTestInterpreter(t)
	code := []byte{
		0x60, 0x00, // PUSH1 0
		0x60, 0x00, // PUSH1 0
		0x14,             // EQ
		0x61, 0x00, 0x0a, // PUSH2 0x000a (offset of the JUMPDEST below)
		0x57, // JUMPI
		0xfe, // INVALID
		0x5b, // JUMPDEST @ offset 10
		0x00, // STOP
	}
	frame, out, err := runCode(t, interp, code, 1_000_000)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != nil {
		t.Fatalf("out = %v, want nil", out)
	}
	if frame.Stack.Len() != 0 {
		t.Fatalf("stack len = %d, want 0", frame.Stack.Len())
	}
}

func TestJumpIntoPushDataRejected(t *testing.T) {
	interp, _ := newTestInterpreter(t)
	// PUSH1 0x5b (data byte happens to equal JUMPDEST); PUSH1 1; JUMP -> dest 1 is push data.
	code := []byte{0x60, 0x5b, 0x60, 0x01, 0x56}
	_, _, err := runCode(t, interp, code, 1_000_000)
	if !errors.Is(err, ErrInvalidJump) {
		t.Fatalf("err = %v, want ErrInvalidJump", err)
	}
}

// SSTORE key 1 = 0xff in callee 0xAA, then REVERT: the frame reports the
// revert, and once its snapshot is rolled back the slot holds the pre-call
// value again.
func TestRevertDiscardsStorage(t *testing.T) {
	interp, st := newTestInterpreter(t)
	addr := types.Address{0xAA}
	st.SetStorage(addr, *types.NewWord(1), *types.NewWord(0xAB))

	// Child: SSTORE(1, 0xff); PUSH1 0; PUSH1 0; REVERT.
	childCode := []byte{
		0x60, 0xff, 0x60, 0x01, 0x55, // PUSH1 0xff; PUSH1 1; SSTORE
		0x60, 0x00, 0x60, 0x00, 0xfd, // PUSH1 0; PUSH1 0; REVERT
	}
	child := NewFrame(nil, types.Address{}, addr, types.Address{}, types.NewWord(0), types.NewWord(0), nil, childCode, 1_000_000, false)
	child.SnapshotID = st.Snapshot()

	_, err := interp.Run(child)
	if !errors.Is(err, ErrExecutionReverted) {
		t.Fatalf("err = %v, want ErrExecutionReverted", err)
	}
	if !child.Reverted {
		t.Fatal("child.Reverted = false, want true")
	}
	st.RevertToSnapshot(child.SnapshotID)

	got := st.GetStorage(addr, *types.NewWord(1))
	if got.Cmp(types.NewWord(0xAB)) != 0 {
		t.Fatalf("storage after revert = %s, want 0xAB (pre-call value)", got.String())
	}
}

func TestStackUnderflowBeforeDispatch(t *testing.T) {
	interp, _ := newTestInterpreter(t)
	code := []byte{0x01} // ADD with an empty stack
	_, _, err := runCode(t, interp, code, 1_000_000)
	if !errors.Is(err, ErrStackUnderflow) {
		t.Fatalf("err = %v, want ErrStackUnderflow", err)
	}
}

func TestOutOfGasStopsExecution(t *testing.T) {
	interp, _ := newTestInterpreter(t)
	code := []byte{0x60, 0x01, 0x60, 0x01, 0x01} // PUSH1 1; PUSH1 1; ADD
	_, _, err := runCode(t, interp, code, 1)
	if !errors.Is(err, ErrOutOfGas) {
		t.Fatalf("err = %v, want ErrOutOfGas", err)
	}
}

// A program that fills the stack to exactly 1024 elements and then runs an
// op that nets negative (ADD: pops 2, pushes 1) must not be rejected: the
// pre-dispatch depth check allows any depth whose post-op result stays at
// or under 1024, not just depths that were already under the cap.
func TestAddAtFullStackDepthSucceeds(t *testing.T) {
	interp, _ := newTestInterpreter(t)
	code := make([]byte, 0, 1024*2+1)
	for i := 0; i < 1024; i++ {
		code = append(code, 0x60, 0x01) // PUSH1 1
	}
	code = append(code, 0x01) // ADD
	frame, _, err := runCode(t, interp, code, 10_000_000)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if frame.Stack.Len() != 1023 {
		t.Fatalf("stack len = %d, want 1023", frame.Stack.Len())
	}
}
