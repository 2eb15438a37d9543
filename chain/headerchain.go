package chain

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ethforge/kernel/core/types"
	"github.com/ethforge/kernel/log"
	"github.com/ethforge/kernel/storage"
)

var (
	// ErrUnknownParent is returned when a header's parent is not in the chain.
	ErrUnknownParent = errors.New("chain: unknown parent")
	// ErrInvalidHeader wraps any header validity-rule violation.
	ErrInvalidHeader = errors.New("chain: invalid header")
)

// HeaderChain is a content-addressed header store: headers keyed by hash,
// an auxiliary height->hash index, a hash->cumulative-total-difficulty
// index, and a HEAD pointer that always references the header with the
// greatest known total difficulty.
type HeaderChain struct {
	mu     sync.RWMutex
	store  storage.Store
	codec  types.Codec
	hasher types.Hasher
	cfg    Config

	emptyOmmersHash types.Hash
	logger          *log.Logger
}

// NewHeaderChain opens a HeaderChain backed by store. If the store has no
// HEAD yet, genesis is written as both the genesis and the head header,
// with total difficulty equal to its own difficulty.
func NewHeaderChain(store storage.Store, codec types.Codec, hasher types.Hasher, cfg Config, genesis *types.Header) (*HeaderChain, error) {
	hc := &HeaderChain{
		store:           store,
		codec:           codec,
		hasher:          hasher,
		cfg:             cfg,
		emptyOmmersHash: EmptyOmmersHash(hasher),
		logger:          log.Default().Module("chain"),
	}

	has, err := store.Has(headKey)
	if err != nil {
		return nil, err
	}
	if has {
		return hc, nil
	}

	hash, err := hc.HashHeader(genesis)
	if err != nil {
		return nil, err
	}
	encoded, err := codec.EncodeHeader(genesis)
	if err != nil {
		return nil, err
	}

	batch := store.NewBatch()
	batch.Put(genesisKey, encoded)
	batch.Put(headKey, encoded)
	batch.Put(headerKey(hash), encoded)
	td := new(types.Word).Set(genesis.Difficulty)
	tdBytes := td.Bytes32()
	batch.Put(tdKey(hash), tdBytes[:])
	batch.Put(numberKey(genesis.Number.Uint64()), hash[:])
	if err := batch.Write(); err != nil {
		return nil, err
	}
	hc.logger.Info("wrote genesis header", "hash", hash.String())
	return hc, nil
}

// HashHeader computes the identity of a header: keccak256 of its encoding.
func (hc *HeaderChain) HashHeader(h *types.Header) (types.Hash, error) {
	encoded, err := hc.codec.EncodeHeader(h)
	if err != nil {
		return types.Hash{}, err
	}
	return hc.hasher.Keccak256(encoded), nil
}

// HeadHeader returns the current canonical head.
func (hc *HeaderChain) HeadHeader() (*types.Header, error) {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	encoded, err := hc.store.Get(headKey)
	if err != nil {
		return nil, err
	}
	return hc.codec.DecodeHeader(encoded)
}

// GetHeader returns the header stored under hash, or storage.ErrNotFound.
func (hc *HeaderChain) GetHeader(hash types.Hash) (*types.Header, error) {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	encoded, err := hc.store.Get(headerKey(hash))
	if err != nil {
		return nil, err
	}
	return hc.codec.DecodeHeader(encoded)
}

// GetHeaderByNumber resolves the canonical hash at number, then the header.
func (hc *HeaderChain) GetHeaderByNumber(number uint64) (*types.Header, error) {
	hash, err := hc.GetCanonicalHash(number)
	if err != nil {
		return nil, err
	}
	return hc.GetHeader(hash)
}

// GetCanonicalHash returns the canonical hash at the given height.
func (hc *HeaderChain) GetCanonicalHash(number uint64) (types.Hash, error) {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	b, err := hc.store.Get(numberKey(number))
	if err != nil {
		return types.Hash{}, err
	}
	return types.BytesToHash(b), nil
}

// GetTD returns the total difficulty accumulated at hash.
func (hc *HeaderChain) GetTD(hash types.Hash) (*types.Word, error) {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	b, err := hc.store.Get(tdKey(hash))
	if err != nil {
		return nil, err
	}
	return types.WordFromBytes(b), nil
}

// ValidateHeader checks header against its already-known parent: number
// continuity, strictly increasing timestamp, gas-limit bounds and drift,
// and difficulty.
func (hc *HeaderChain) ValidateHeader(header, parent *types.Header) error {
	if parent.Number.Uint64()+1 != header.Number.Uint64() {
		return fmt.Errorf("%w: number %d does not follow parent %d", ErrInvalidHeader, header.Number.Uint64(), parent.Number.Uint64())
	}
	if header.Time <= parent.Time {
		return fmt.Errorf("%w: timestamp %d not after parent %d", ErrInvalidHeader, header.Time, parent.Time)
	}
	if header.GasLimit < hc.cfg.MinGasLimit {
		return fmt.Errorf("%w: gas limit %d below minimum", ErrInvalidHeader, header.GasLimit)
	}
	bound := parent.GasLimit / hc.cfg.GasLimitBoundDivisor
	var drift uint64
	if header.GasLimit > parent.GasLimit {
		drift = header.GasLimit - parent.GasLimit
	} else {
		drift = parent.GasLimit - header.GasLimit
	}
	if drift >= bound {
		return fmt.Errorf("%w: gas limit drift %d exceeds bound %d", ErrInvalidHeader, drift, bound)
	}
	want := CalculateDifficulty(hc.cfg, hc.emptyOmmersHash, header, parent)
	if want.Cmp(header.Difficulty) != 0 {
		return fmt.Errorf("%w: difficulty %s, want %s", ErrInvalidHeader, header.Difficulty.String(), want.String())
	}
	return nil
}

// WriteHeader validates header against its parent, persists it with its
// cumulative total difficulty, and — this is the total-difficulty-driven
// fork choice the source left as a TODO ("Open question — reorg logic") —
// reassigns HEAD and rewrites the canonical height index back to the
// common ancestor whenever the new header's TD exceeds the current head's.
func (hc *HeaderChain) WriteHeader(header *types.Header) error {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	parentEncoded, err := hc.store.Get(headerKey(header.ParentHash))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnknownParent, err)
	}
	parent, err := hc.codec.DecodeHeader(parentEncoded)
	if err != nil {
		return err
	}
	if err := hc.ValidateHeader(header, parent); err != nil {
		return err
	}

	hash, err := hc.HashHeader(header)
	if err != nil {
		return err
	}
	if has, _ := hc.store.Has(headerKey(hash)); has {
		return nil
	}

	parentTD, err := hc.getTDLocked(header.ParentHash)
	if err != nil {
		return err
	}
	td := new(types.Word).Add(parentTD, header.Difficulty)

	encoded, err := hc.codec.EncodeHeader(header)
	if err != nil {
		return err
	}

	batch := hc.store.NewBatch()
	batch.Put(headerKey(hash), encoded)
	tdBytes := td.Bytes32()
	batch.Put(tdKey(hash), tdBytes[:])
	if err := batch.Write(); err != nil {
		return err
	}

	head, err := hc.headHeaderLocked()
	if err != nil {
		return err
	}
	headHash, err := hc.HashHeader(head)
	if err != nil {
		return err
	}
	headTD, err := hc.getTDLocked(headHash)
	if err != nil {
		return err
	}

	if td.Cmp(headTD) <= 0 {
		hc.logger.Debug("header extends a non-canonical branch", "hash", hash.String(), "td", td.String())
		return nil
	}

	if err := hc.reorgTo(header, hash); err != nil {
		return err
	}
	if err := hc.store.Put(headKey, encoded); err != nil {
		return err
	}
	hc.logger.Info("new head", "hash", hash.String(), "number", header.Number.Uint64(), "td", td.String())
	return nil
}

// reorgTo rewrites the canonical height index along the chain leading to
// newHead, back to the point where it diverges from the chain currently
// indexed (the common ancestor), so GetHeaderByNumber answers against the
// new winning branch at every height it touches.
func (hc *HeaderChain) reorgTo(newHead *types.Header, newHash types.Hash) error {
	type step struct {
		number uint64
		hash   types.Hash
	}
	var chain []step
	cur := newHead
	curHash := newHash
	for {
		existing, err := hc.store.Get(numberKey(cur.Number.Uint64()))
		if err == nil && types.BytesToHash(existing) == curHash {
			break
		}
		chain = append(chain, step{number: cur.Number.Uint64(), hash: curHash})
		if cur.Number.IsZero() {
			break
		}
		parentHash := cur.ParentHash
		parentEncoded, err := hc.store.Get(headerKey(parentHash))
		if err != nil {
			return err
		}
		parent, err := hc.codec.DecodeHeader(parentEncoded)
		if err != nil {
			return err
		}
		cur = parent
		curHash = parentHash
	}

	batch := hc.store.NewBatch()
	for _, s := range chain {
		batch.Put(numberKey(s.number), s.hash[:])
	}
	return batch.Write()
}

func (hc *HeaderChain) headHeaderLocked() (*types.Header, error) {
	encoded, err := hc.store.Get(headKey)
	if err != nil {
		return nil, err
	}
	return hc.codec.DecodeHeader(encoded)
}

func (hc *HeaderChain) getTDLocked(hash types.Hash) (*types.Word, error) {
	b, err := hc.store.Get(tdKey(hash))
	if err != nil {
		return nil, err
	}
	return types.WordFromBytes(b), nil
}
