package vm

import (
	"errors"
	"testing"

	"github.com/ethforge/kernel/core/types"
)

func TestStackPushPop(t *testing.T) {
	st := NewStack()
	a, b := types.NewWord(1), types.NewWord(2)
	if err := st.Push(a); err != nil {
		t.Fatalf("push a: %v", err)
	}
	if err := st.Push(b); err != nil {
		t.Fatalf("push b: %v", err)
	}
	if st.Len() != 2 {
		t.Fatalf("len = %d, want 2", st.Len())
	}
	if got := st.Pop(); got.Uint64() != 2 {
		t.Fatalf("pop = %d, want 2", got.Uint64())
	}
	if got := st.Pop(); got.Uint64() != 1 {
		t.Fatalf("pop = %d, want 1", got.Uint64())
	}
}

func TestStackOverflow(t *testing.T) {
	st := NewStack()
	for i := 0; i < MaxStackDepth; i++ {
		if err := st.Push(types.NewWord(uint64(i))); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}
	if err := st.Push(types.NewWord(999)); !errors.Is(err, ErrStackOverflow) {
		t.Fatalf("push at depth 1024 = %v, want ErrStackOverflow", err)
	}
}

func TestStackBackAndPeek(t *testing.T) {
	st := NewStack()
	st.Push(types.NewWord(10))
	st.Push(types.NewWord(20))
	st.Push(types.NewWord(30))
	if got := st.Peek().Uint64(); got != 30 {
		t.Fatalf("peek = %d, want 30", got)
	}
	if got := st.Back(0).Uint64(); got != 30 {
		t.Fatalf("back(0) = %d, want 30", got)
	}
	if got := st.Back(2).Uint64(); got != 10 {
		t.Fatalf("back(2) = %d, want 10", got)
	}
}

func TestStackSwap(t *testing.T) {
	st := NewStack()
	st.Push(types.NewWord(1))
	st.Push(types.NewWord(2))
	st.Swap(1)
	if got := st.Pop().Uint64(); got != 1 {
		t.Fatalf("top after swap = %d, want 1", got)
	}
	if got := st.Pop().Uint64(); got != 2 {
		t.Fatalf("bottom after swap = %d, want 2", got)
	}
}

func TestStackDup(t *testing.T) {
	st := NewStack()
	st.Push(types.NewWord(7))
	st.Dup(1)
	if st.Len() != 2 {
		t.Fatalf("len = %d, want 2", st.Len())
	}
	top := st.Pop()
	bottom := st.Pop()
	if top.Uint64() != 7 || bottom.Uint64() != 7 {
		t.Fatalf("dup values = %d, %d, want 7, 7", top.Uint64(), bottom.Uint64())
	}
	// Dup must copy, not alias: mutating the duplicate must not affect the original.
	top.SetUint64(99)
	if bottom.Uint64() != 7 {
		t.Fatalf("dup aliased original: bottom = %d, want 7", bottom.Uint64())
	}
}
