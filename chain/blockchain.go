package chain

import (
	"fmt"

	"github.com/ethforge/kernel/core/types"
	"github.com/ethforge/kernel/log"
	"github.com/ethforge/kernel/storage"
)

// BlockChain wraps a HeaderChain with a block-by-hash store: it validates
// and admits headers through the HeaderChain, then persists the full block
// alongside it.
type BlockChain struct {
	headers *HeaderChain
	store   storage.Store
	codec   types.Codec
	hasher  types.Hasher
	logger  *log.Logger
}

// NewBlockChain opens a BlockChain, writing genesis if the store is empty.
func NewBlockChain(store storage.Store, codec types.Codec, hasher types.Hasher, cfg Config, genesis *types.Block) (*BlockChain, error) {
	has, err := store.Has(headKey)
	if err != nil {
		return nil, err
	}

	hc, err := NewHeaderChain(store, codec, hasher, cfg, genesis.Header())
	if err != nil {
		return nil, err
	}
	bc := &BlockChain{
		headers: hc,
		store:   store,
		codec:   codec,
		hasher:  hasher,
		logger:  log.Default().Module("chain"),
	}

	if !has {
		if err := bc.putBlock(genesis); err != nil {
			return nil, err
		}
	}
	return bc, nil
}

// HeaderChain exposes the underlying header chain for callers that need
// header-only queries (BLOCKHASH resolution, TD lookups).
func (bc *BlockChain) HeaderChain() *HeaderChain { return bc.headers }

func (bc *BlockChain) putBlock(blk *types.Block) error {
	hash, err := bc.headers.HashHeader(blk.Header())
	if err != nil {
		return err
	}
	encoded, err := bc.codec.EncodeBlock(blk)
	if err != nil {
		return err
	}
	return bc.store.Put(blockKey(hash), encoded)
}

// GetBlock returns the full block stored under hash.
func (bc *BlockChain) GetBlock(hash types.Hash) (*types.Block, error) {
	encoded, err := bc.store.Get(blockKey(hash))
	if err != nil {
		return nil, err
	}
	return bc.codec.DecodeBlock(encoded)
}

// InsertBlocks appends each block by validating its header via the header
// chain and then persisting the block by hash. It stops and reports the
// index of the first failing block.
func (bc *BlockChain) InsertBlocks(blocks []*types.Block) (int, error) {
	for i, blk := range blocks {
		if err := bc.headers.WriteHeader(blk.Header()); err != nil {
			return i, fmt.Errorf("block %d: %w", blk.NumberU64(), err)
		}
		if err := bc.putBlock(blk); err != nil {
			return i, fmt.Errorf("block %d: %w", blk.NumberU64(), err)
		}
	}
	return len(blocks), nil
}

// CurrentBlock returns the block at the current head header, if it has
// been persisted (a header can be known before its block body arrives).
func (bc *BlockChain) CurrentBlock() (*types.Block, error) {
	head, err := bc.headers.HeadHeader()
	if err != nil {
		return nil, err
	}
	hash, err := bc.headers.HashHeader(head)
	if err != nil {
		return nil, err
	}
	return bc.GetBlock(hash)
}
