// Package types defines the data model shared by the interpreter and the
// header chain: 256-bit words, addresses, hashes, accounts, headers and
// blocks, and the collaborator interfaces the rest of the module consumes
// rather than implements.
package types

import "fmt"

const (
	HashLength    = 32
	AddressLength = 20
)

// Hash is a 32-byte Keccak-256 digest.
type Hash [HashLength]byte

// Address is a 20-byte account address.
type Address [AddressLength]byte

// BytesToHash left-pads b to 32 bytes (truncating from the left if longer).
func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

// SetBytes sets h from b, left-padding or left-truncating to HashLength.
func (h *Hash) SetBytes(b []byte) {
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
}

func (h Hash) Bytes() []byte   { return h[:] }
func (h Hash) IsZero() bool    { return h == Hash{} }
func (h Hash) String() string  { return fmt.Sprintf("0x%x", h[:]) }

// BytesToAddress left-pads b to 20 bytes (truncating from the left if longer).
func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}

func (a *Address) SetBytes(b []byte) {
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
}

func (a Address) Bytes() []byte  { return a[:] }
func (a Address) IsZero() bool   { return a == Address{} }
func (a Address) String() string { return fmt.Sprintf("0x%x", a[:]) }

// WordToHash reinterprets a Word's big-endian bytes as a Hash.
func WordToHash(w Word) Hash {
	b := w.Bytes32()
	return Hash(b)
}

// WordToAddress reinterprets the low 20 bytes of a Word's big-endian form as an Address.
func WordToAddress(w Word) Address {
	b := w.Bytes32()
	return BytesToAddress(b[:])
}

// HashToWord reinterprets a Hash's bytes as a Word.
func HashToWord(h Hash) Word {
	var w Word
	w.SetBytes32(h[:])
	return w
}

// AddressToWord zero-extends an Address into a Word.
func AddressToWord(a Address) Word {
	var w Word
	w.SetBytes20(a[:])
	return w
}
