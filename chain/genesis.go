package chain

import (
	"github.com/ethforge/kernel/core/state"
	"github.com/ethforge/kernel/core/types"
)

// GenesisAccount is a pre-funded account in the genesis allocation.
type GenesisAccount struct {
	Balance *types.Word
	Code    []byte
	Nonce   uint64
	Storage map[types.Word]types.Word
}

// GenesisAlloc maps addresses to their genesis allocation.
type GenesisAlloc map[types.Address]GenesisAccount

// Genesis specifies the header fields and pre-funded accounts of the first
// block a HeaderChain/BlockChain is opened with.
type Genesis struct {
	Timestamp  uint64
	ExtraData  []byte
	GasLimit   uint64
	Difficulty *types.Word
	MixHash    types.Hash
	Coinbase   types.Address
	Alloc      GenesisAlloc
}

// ToHeader builds the immutable genesis header. UnclesHash is fixed to the
// empty-ommers-list hash: genesis has no uncles by construction.
func (g *Genesis) ToHeader(hasher types.Hasher) *types.Header {
	return &types.Header{
		UnclesHash:  EmptyOmmersHash(hasher),
		Coinbase:    g.Coinbase,
		Difficulty:  g.Difficulty,
		Number:      types.ZeroWord(),
		GasLimit:    g.GasLimit,
		GasUsed:     0,
		Time:        g.Timestamp,
		Extra:       g.ExtraData,
		MixHash:     g.MixHash,
	}
}

// ToBlock builds the genesis block (no transactions, no ommers).
func (g *Genesis) ToBlock(hasher types.Hasher) *types.Block {
	return types.NewBlock(g.ToHeader(hasher), nil, nil)
}

// ApplyAlloc seeds st with the genesis allocation. Called once, before any
// block is executed against st.
func (g *Genesis) ApplyAlloc(st state.State) {
	for addr, acct := range g.Alloc {
		st.CreateAccount(addr)
		if acct.Balance != nil {
			st.SetBalance(addr, acct.Balance)
		}
		st.SetNonce(addr, acct.Nonce)
		if acct.Code != nil {
			st.SetCode(addr, acct.Code)
		}
		for k, v := range acct.Storage {
			st.SetStorage(addr, k, v)
		}
	}
}
