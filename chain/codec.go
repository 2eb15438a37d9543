package chain

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ethforge/kernel/core/types"
)

// ErrTruncated is returned when a decode reads past the end of its input.
var ErrTruncated = errors.New("chain: truncated encoding")

// SimpleCodec is a minimal length-prefixed recursive byte encoding for
// Header and Block: fixed-width fields back to back, variable-width fields
// (Difficulty, Number, Extra, transaction bytes) prefixed with a length.
// It is NOT the canonical Ethereum RLP encoding, which is left as an
// external collaborator behind the Codec interface — just a concrete
// implementation of that interface this module can test against.
type SimpleCodec struct{}

func putUint32(buf []byte, v []byte) []byte {
	var l [4]byte
	binary.BigEndian.PutUint32(l[:], uint32(len(v)))
	buf = append(buf, l[:]...)
	return append(buf, v...)
}

func readUint32(b []byte) (data, rest []byte, err error) {
	if len(b) < 4 {
		return nil, nil, ErrTruncated
	}
	n := binary.BigEndian.Uint32(b[:4])
	b = b[4:]
	if uint32(len(b)) < n {
		return nil, nil, ErrTruncated
	}
	return b[:n], b[n:], nil
}

// EncodeHeader implements types.Codec.
func (SimpleCodec) EncodeHeader(h *types.Header) ([]byte, error) {
	var buf []byte
	buf = append(buf, h.ParentHash[:]...)
	buf = append(buf, h.UnclesHash[:]...)
	buf = append(buf, h.Coinbase[:]...)
	buf = append(buf, h.StateRoot[:]...)
	buf = append(buf, h.TxRoot[:]...)
	buf = append(buf, h.ReceiptRoot[:]...)
	buf = append(buf, h.LogsBloom[:]...)
	diff := h.Difficulty.Bytes32()
	num := h.Number.Bytes32()
	buf = putUint32(buf, diff[:])
	buf = putUint32(buf, num[:])
	var u64 [8]byte
	binary.BigEndian.PutUint64(u64[:], h.GasLimit)
	buf = append(buf, u64[:]...)
	binary.BigEndian.PutUint64(u64[:], h.GasUsed)
	buf = append(buf, u64[:]...)
	binary.BigEndian.PutUint64(u64[:], h.Time)
	buf = append(buf, u64[:]...)
	buf = putUint32(buf, h.Extra)
	buf = append(buf, h.MixHash[:]...)
	buf = append(buf, h.Nonce[:]...)
	return buf, nil
}

// DecodeHeader implements types.Codec.
func (SimpleCodec) DecodeHeader(b []byte) (*types.Header, error) {
	h := &types.Header{}
	need := func(n int) error {
		if len(b) < n {
			return ErrTruncated
		}
		return nil
	}
	take := func(n int) []byte {
		v := b[:n]
		b = b[n:]
		return v
	}

	if err := need(32); err != nil {
		return nil, err
	}
	copy(h.ParentHash[:], take(32))
	if err := need(32); err != nil {
		return nil, err
	}
	copy(h.UnclesHash[:], take(32))
	if err := need(20); err != nil {
		return nil, err
	}
	copy(h.Coinbase[:], take(20))
	if err := need(32); err != nil {
		return nil, err
	}
	copy(h.StateRoot[:], take(32))
	if err := need(32); err != nil {
		return nil, err
	}
	copy(h.TxRoot[:], take(32))
	if err := need(32); err != nil {
		return nil, err
	}
	copy(h.ReceiptRoot[:], take(32))
	if err := need(256); err != nil {
		return nil, err
	}
	copy(h.LogsBloom[:], take(256))

	diff, rest, err := readUint32(b)
	if err != nil {
		return nil, err
	}
	b = rest
	h.Difficulty = types.WordFromBytes(diff)

	num, rest, err := readUint32(b)
	if err != nil {
		return nil, err
	}
	b = rest
	h.Number = types.WordFromBytes(num)

	if err := need(24); err != nil {
		return nil, err
	}
	h.GasLimit = binary.BigEndian.Uint64(take(8))
	h.GasUsed = binary.BigEndian.Uint64(take(8))
	h.Time = binary.BigEndian.Uint64(take(8))

	extra, rest, err := readUint32(b)
	if err != nil {
		return nil, err
	}
	b = rest
	h.Extra = append([]byte(nil), extra...)

	if err := need(40); err != nil {
		return nil, err
	}
	copy(h.MixHash[:], take(32))
	copy(h.Nonce[:], take(8))
	return h, nil
}

// EncodeBlock implements types.Codec. Transactions must be
// types.RawTransaction; any other Transaction implementation is a
// decoding/encoding concern this reference codec does not cover.
func (c SimpleCodec) EncodeBlock(blk *types.Block) ([]byte, error) {
	headerBytes, err := c.EncodeHeader(blk.Header())
	if err != nil {
		return nil, err
	}
	var buf []byte
	buf = putUint32(buf, headerBytes)

	txs := blk.Transactions()
	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(txs)))
	buf = append(buf, countBuf[:]...)
	for _, tx := range txs {
		raw, ok := tx.(types.RawTransaction)
		if !ok {
			return nil, fmt.Errorf("chain: SimpleCodec cannot encode transaction of type %T", tx)
		}
		buf = putUint32(buf, raw)
	}

	ommers := blk.Ommers()
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(ommers)))
	buf = append(buf, countBuf[:]...)
	for _, om := range ommers {
		omBytes, err := c.EncodeHeader(om)
		if err != nil {
			return nil, err
		}
		buf = putUint32(buf, omBytes)
	}
	return buf, nil
}

// DecodeBlock implements types.Codec.
func (c SimpleCodec) DecodeBlock(b []byte) (*types.Block, error) {
	headerBytes, rest, err := readUint32(b)
	if err != nil {
		return nil, err
	}
	header, err := c.DecodeHeader(headerBytes)
	if err != nil {
		return nil, err
	}
	b = rest

	if len(b) < 4 {
		return nil, ErrTruncated
	}
	txCount := binary.BigEndian.Uint32(b[:4])
	b = b[4:]
	txs := make([]types.Transaction, 0, txCount)
	for i := uint32(0); i < txCount; i++ {
		raw, rest, err := readUint32(b)
		if err != nil {
			return nil, err
		}
		txs = append(txs, types.RawTransaction(append([]byte(nil), raw...)))
		b = rest
	}

	if len(b) < 4 {
		return nil, ErrTruncated
	}
	ommerCount := binary.BigEndian.Uint32(b[:4])
	b = b[4:]
	ommers := make([]*types.Header, 0, ommerCount)
	for i := uint32(0); i < ommerCount; i++ {
		omBytes, rest, err := readUint32(b)
		if err != nil {
			return nil, err
		}
		om, err := c.DecodeHeader(omBytes)
		if err != nil {
			return nil, err
		}
		ommers = append(ommers, om)
		b = rest
	}

	return types.NewBlock(header, txs, ommers), nil
}
