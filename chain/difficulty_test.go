package chain

import (
	"testing"

	"github.com/ethforge/kernel/core/types"
)

func TestCalculateDifficultyGenesisReturnsOwnDifficulty(t *testing.T) {
	cfg := FrontierConfig()
	h := &types.Header{Number: types.ZeroWord(), Difficulty: types.NewWord(12345)}
	got := CalculateDifficulty(cfg, types.Hash{}, h, h)
	if got.Cmp(types.NewWord(12345)) != 0 {
		t.Fatalf("genesis difficulty = %s, want 12345", got.String())
	}
}

// Header at number 1 with parent.difficulty = 131_072, parent.timestamp = 0,
// H.timestamp = 5, H.ommers_hash = keccak256(RLP(empty)): x = 64, y = 1,
// time_factor = 1, bomb = 0; expected difficulty = 131_072 + 64 = 131_136.
func TestCalculateDifficultyScenario(t *testing.T) {
	cfg := FrontierConfig()
	empty := EmptyOmmersHash(Keccak256Hasher{})

	parent := &types.Header{
		Number:     types.ZeroWord(),
		Difficulty: types.NewWord(131072),
		Time:       0,
	}
	header := &types.Header{
		Number:     types.NewWord(1),
		Time:       5,
		UnclesHash: empty,
	}

	got := CalculateDifficulty(cfg, empty, header, parent)
	want := types.NewWord(131136)
	if got.Cmp(want) != 0 {
		t.Fatalf("difficulty = %s, want %s", got.String(), want.String())
	}
}

func TestCalculateDifficultyFloorsAtMinimum(t *testing.T) {
	cfg := FrontierConfig()
	empty := EmptyOmmersHash(Keccak256Hasher{})

	// A huge timestamp gap drives time_factor to its -99 clamp, which would
	// push the raw computation far below the protocol minimum.
	parent := &types.Header{
		Number:     types.ZeroWord(),
		Difficulty: types.NewWord(131072),
		Time:       0,
	}
	header := &types.Header{
		Number:     types.NewWord(1),
		Time:       100_000,
		UnclesHash: empty,
	}

	got := CalculateDifficulty(cfg, empty, header, parent)
	if got.Cmp(types.NewWord(cfg.MinimumDifficulty)) < 0 {
		t.Fatalf("difficulty = %s, want >= minimum %d", got.String(), cfg.MinimumDifficulty)
	}
}

func TestDifficultyBombDormantBeforeDelay(t *testing.T) {
	cfg := FrontierConfig()
	if got := difficultyBomb(cfg, 1); got.Sign() != 0 {
		t.Fatalf("bomb at block 1 = %s, want 0", got.String())
	}
}

func TestDifficultyBombActiveAfterDelay(t *testing.T) {
	cfg := FrontierConfig()
	// fakeHeight = (BombDelayBlock + 200_000) - BombDelayBlock = 200_000
	// exp = 200_000/100_000 - 2 = 0 -> bomb = 2^0 = 1.
	got := difficultyBomb(cfg, cfg.BombDelayBlock+200_000)
	if got.Sign() == 0 {
		t.Fatal("bomb should be active after the delay block")
	}
}
