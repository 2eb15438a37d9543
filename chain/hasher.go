package chain

import (
	"golang.org/x/crypto/sha3"

	"github.com/ethforge/kernel/core/types"
)

// Keccak256Hasher computes Keccak-256 over the concatenation of its
// arguments.
type Keccak256Hasher struct{}

// Keccak256 implements types.Hasher.
func (Keccak256Hasher) Keccak256(data ...[]byte) types.Hash {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	var h types.Hash
	d.Sum(h[:0])
	return h
}
