package vm

import "github.com/ethforge/kernel/core/types"

// Memory is the EVM's byte-addressable, word-aligned scratch space. It only
// ever grows, in 32-byte-word increments, for the lifetime of a frame.
type Memory struct {
	store []byte
}

// NewMemory returns a new empty Memory.
func NewMemory() *Memory { return &Memory{} }

// Set copies value into memory at the given offset. The caller must have
// already grown memory (via Resize) to cover [offset, offset+size).
func (m *Memory) Set(offset, size uint64, value []byte) {
	if size == 0 {
		return
	}
	if offset+size > uint64(len(m.store)) {
		panic("memory: out of bounds write")
	}
	copy(m.store[offset:offset+size], value)
}

// Set32 writes a 32-byte word at the given offset, big-endian.
func (m *Memory) Set32(offset uint64, val *types.Word) {
	if offset+32 > uint64(len(m.store)) {
		panic("memory: out of bounds write")
	}
	b := val.Bytes32()
	copy(m.store[offset:offset+32], b[:])
}

// Resize grows memory to size bytes, rounded up to the next 32-byte word,
// zero-filling the new region. It never shrinks memory.
func (m *Memory) Resize(size uint64) {
	words := (size + 31) / 32
	aligned := words * 32
	if uint64(len(m.store)) < aligned {
		m.store = append(m.store, make([]byte, aligned-uint64(len(m.store)))...)
	}
}

// Get returns a copy of the memory contents at [offset, offset+size).
func (m *Memory) Get(offset, size uint64) []byte {
	if size == 0 {
		return nil
	}
	out := make([]byte, size)
	copy(out, m.store[offset:offset+size])
	return out
}

// GetPtr returns a direct slice reference to memory at [offset, offset+size),
// aliasing the backing store. Callers must not retain it across a Resize.
func (m *Memory) GetPtr(offset, size uint64) []byte {
	if size == 0 {
		return nil
	}
	return m.store[offset : offset+size]
}

// Len returns the current size of memory in bytes.
func (m *Memory) Len() int { return len(m.store) }

// Data returns the full backing slice.
func (m *Memory) Data() []byte { return m.store }

// WordCount returns the number of 32-byte words memory of size bytes would
// need to cover offset+size, the quantity the memory-expansion gas term is
// computed from.
func WordCount(size uint64) uint64 { return (size + 31) / 32 }
