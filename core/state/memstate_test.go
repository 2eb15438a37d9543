package state

import (
	"testing"

	"github.com/ethforge/kernel/core/types"
)

func TestSnapshotRevertRoundTrip(t *testing.T) {
	st := NewMemoryState()
	addr := types.Address{0xAA}
	key := *types.NewWord(1)

	st.SetBalance(addr, types.NewWord(100))
	st.SetStorage(addr, key, *types.NewWord(0xAB))

	snap := st.Snapshot()
	st.SetBalance(addr, types.NewWord(999))
	st.SetStorage(addr, key, *types.NewWord(0xff))
	st.SetNonce(addr, 5)

	st.RevertToSnapshot(snap)

	if got := st.Balance(addr); got.Cmp(types.NewWord(100)) != 0 {
		t.Fatalf("balance after revert = %s, want 100", got.String())
	}
	if got := st.GetStorage(addr, key); got.Cmp(types.NewWord(0xAB)) != 0 {
		t.Fatalf("storage after revert = %s, want 0xAB", got.String())
	}
	if got := st.Nonce(addr); got != 0 {
		t.Fatalf("nonce after revert = %d, want 0", got)
	}
}

func TestSnapshotCommitKeepsChanges(t *testing.T) {
	st := NewMemoryState()
	addr := types.Address{0xBB}

	snap := st.Snapshot()
	st.SetBalance(addr, types.NewWord(50))
	st.Commit(snap)

	if got := st.Balance(addr); got.Cmp(types.NewWord(50)) != 0 {
		t.Fatalf("balance after commit = %s, want 50", got.String())
	}
}

func TestNestedSnapshotsRevertInnerOnly(t *testing.T) {
	st := NewMemoryState()
	addr := types.Address{0xCC}
	st.SetBalance(addr, types.NewWord(1))

	outer := st.Snapshot()
	st.SetBalance(addr, types.NewWord(2))

	inner := st.Snapshot()
	st.SetBalance(addr, types.NewWord(3))
	st.RevertToSnapshot(inner)

	if got := st.Balance(addr); got.Cmp(types.NewWord(2)) != 0 {
		t.Fatalf("balance after inner revert = %s, want 2", got.String())
	}

	st.RevertToSnapshot(outer)
	if got := st.Balance(addr); got.Cmp(types.NewWord(1)) != 0 {
		t.Fatalf("balance after outer revert = %s, want 1", got.String())
	}
}

func TestRevertDropsLogsAddedAfterSnapshot(t *testing.T) {
	st := NewMemoryState()
	addr := types.Address{0xDD}
	st.AddLog(&types.LogEntry{Address: addr})

	snap := st.Snapshot()
	st.AddLog(&types.LogEntry{Address: addr})
	if len(st.Logs()) != 2 {
		t.Fatalf("logs before revert = %d, want 2", len(st.Logs()))
	}

	st.RevertToSnapshot(snap)
	if len(st.Logs()) != 1 {
		t.Fatalf("logs after revert = %d, want 1", len(st.Logs()))
	}
}

func TestSelfDestructTransfersBalanceAndRegistersRefund(t *testing.T) {
	st := NewMemoryState()
	addr := types.Address{0xEE}
	beneficiary := types.Address{0xEF}
	st.SetBalance(addr, types.NewWord(500))

	st.SelfDestruct(addr, beneficiary)

	if got := st.Balance(addr); !got.IsZero() {
		t.Fatalf("selfdestructed balance = %s, want 0", got.String())
	}
	if got := st.Balance(beneficiary); got.Cmp(types.NewWord(500)) != 0 {
		t.Fatalf("beneficiary balance = %s, want 500", got.String())
	}
	if !st.HasSelfDestructed(addr) {
		t.Fatal("HasSelfDestructed = false, want true")
	}
	refunds := st.RefundSet()
	if len(refunds) != 1 || refunds[0] != beneficiary {
		t.Fatalf("refund set = %v, want [%v]", refunds, beneficiary)
	}
}

func TestEmptyAccountPredicate(t *testing.T) {
	st := NewMemoryState()
	addr := types.Address{0x01}
	if !st.Empty(addr) {
		t.Fatal("untouched account should be Empty")
	}
	st.SetNonce(addr, 1)
	if st.Empty(addr) {
		t.Fatal("account with nonzero nonce should not be Empty")
	}
}
