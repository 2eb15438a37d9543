package types

import "github.com/holiman/uint256"

// Word is a 256-bit unsigned integer; all arithmetic on it wraps modulo
// 2^256. It is the native value type for the operand stack, memory words,
// and storage slots. Signed interpretation is two's complement over the
// same 256 bits, handled by uint256.Int's S-prefixed methods (SDiv, SMod,
// Slt, Sgt) rather than by a separate signed type.
type Word = uint256.Int

// NewWord returns a Word holding the given uint64 value.
func NewWord(v uint64) *Word {
	return new(Word).SetUint64(v)
}

// WordFromBytes returns a Word from a big-endian byte slice, reduced
// modulo 2^256 by left truncation (matching uint256.Int.SetBytes).
func WordFromBytes(b []byte) *Word {
	return new(Word).SetBytes(b)
}

// ZeroWord returns a fresh zero-valued Word.
func ZeroWord() *Word {
	return new(Word)
}
