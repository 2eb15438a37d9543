package chain

import (
	"testing"

	"github.com/ethforge/kernel/core/state"
	"github.com/ethforge/kernel/core/types"
)

func TestGenesisToBlockHasNoOmmersOrTransactions(t *testing.T) {
	g := &Genesis{
		Timestamp:  0,
		GasLimit:   5000,
		Difficulty: types.NewWord(131072),
		Coinbase:   types.Address{0x01},
	}
	blk := g.ToBlock(Keccak256Hasher{})
	if blk.NumberU64() != 0 {
		t.Fatalf("genesis number = %d, want 0", blk.NumberU64())
	}
	if len(blk.Transactions()) != 0 {
		t.Fatalf("genesis transactions = %d, want 0", len(blk.Transactions()))
	}
	if len(blk.Ommers()) != 0 {
		t.Fatalf("genesis ommers = %d, want 0", len(blk.Ommers()))
	}
	if blk.Header().UnclesHash != EmptyOmmersHash(Keccak256Hasher{}) {
		t.Fatal("genesis UnclesHash != empty ommers hash")
	}
}

func TestGenesisApplyAllocSeedsAccounts(t *testing.T) {
	addr := types.Address{0xAA}
	key := *types.NewWord(1)
	val := *types.NewWord(42)
	g := &Genesis{
		Alloc: GenesisAlloc{
			addr: {
				Balance: types.NewWord(1000),
				Nonce:   3,
				Code:    []byte{0x60, 0x00},
				Storage: map[types.Word]types.Word{key: val},
			},
		},
	}
	st := state.NewMemoryState()
	g.ApplyAlloc(st)

	if got := st.Balance(addr); got.Cmp(types.NewWord(1000)) != 0 {
		t.Fatalf("balance = %s, want 1000", got.String())
	}
	if got := st.Nonce(addr); got != 3 {
		t.Fatalf("nonce = %d, want 3", got)
	}
	if got := st.GetStorage(addr, key); got.Cmp(&val) != 0 {
		t.Fatalf("storage = %s, want %s", got.String(), val.String())
	}
}
