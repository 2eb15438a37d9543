package vm

import (
	"fmt"

	"github.com/ethforge/kernel/core/types"
)

// MaxStackDepth bounds the EVM operand stack.
const MaxStackDepth = 1024

// Stack is the EVM operand stack: at most 1024 256-bit words.
type Stack struct {
	data []*types.Word
}

// NewStack returns a new empty stack.
func NewStack() *Stack {
	return &Stack{data: make([]*types.Word, 0, 16)}
}

// Push pushes a value onto the stack.
func (st *Stack) Push(val *types.Word) error {
	if len(st.data) >= MaxStackDepth {
		return fmt.Errorf("%w: depth %d", ErrStackOverflow, len(st.data))
	}
	st.data = append(st.data, val)
	return nil
}

// Pop removes and returns the top element.
func (st *Stack) Pop() *types.Word {
	n := len(st.data) - 1
	ret := st.data[n]
	st.data = st.data[:n]
	return ret
}

// Peek returns the top element without removing it.
func (st *Stack) Peek() *types.Word {
	return st.data[len(st.data)-1]
}

// Back returns the nth element from the top (0-indexed: 0 = top), without removing it.
func (st *Stack) Back(n int) *types.Word {
	return st.data[len(st.data)-1-n]
}

// Swap exchanges the top element with the nth element below it (n=1 is SWAP1's argument).
func (st *Stack) Swap(n int) {
	top := len(st.data) - 1
	st.data[top], st.data[top-n] = st.data[top-n], st.data[top]
}

// Dup duplicates the nth element from the top (n=1 is DUP1's argument) and pushes the copy.
func (st *Stack) Dup(n int) {
	val := new(types.Word).Set(st.data[len(st.data)-n])
	st.data = append(st.data, val)
}

// Len returns the number of items on the stack.
func (st *Stack) Len() int { return len(st.data) }

// Data returns the underlying stack slice, bottom to top.
func (st *Stack) Data() []*types.Word { return st.data }
