package chain

import (
	"encoding/binary"

	"github.com/ethforge/kernel/core/types"
)

// Persisted key layout:
//   "head"                    -> encoded head header
//   "genesis"                 -> encoded genesis header
//   "h" || hash                -> encoded header
//   "h" || hash || "t"         -> encoded total difficulty
//   "h" || big_endian(number) || "n" -> canonical hash at that height
//   "b" || hash                -> encoded block

var (
	headKey    = []byte("head")
	genesisKey = []byte("genesis")
)

func headerKey(hash types.Hash) []byte {
	return append([]byte("h"), hash[:]...)
}

func tdKey(hash types.Hash) []byte {
	k := append([]byte("h"), hash[:]...)
	return append(k, 't')
}

func numberKey(number uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], number)
	k := append([]byte("h"), buf[:]...)
	return append(k, 'n')
}

func blockKey(hash types.Hash) []byte {
	return append([]byte("b"), hash[:]...)
}
