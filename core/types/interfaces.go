package types

// Hasher is the Keccak-256 collaborator. The interpreter and the header
// chain both consume it through this interface; neither implements the
// hash function itself.
type Hasher interface {
	Keccak256(data ...[]byte) Hash
}

// Codec is the block/header wire-codec collaborator: a length-prefixed
// recursive encoding of nested byte sequences. This module calls
// Encode/Decode but does not define the wire format; a production node
// supplies an RLP (or similar) implementation.
type Codec interface {
	EncodeHeader(h *Header) ([]byte, error)
	DecodeHeader(b []byte) (*Header, error)
	EncodeBlock(blk *Block) ([]byte, error)
	DecodeBlock(b []byte) (*Block, error)
}
