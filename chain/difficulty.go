package chain

import (
	"math/big"

	"github.com/ethforge/kernel/core/types"
)

var big1 = big.NewInt(1)
var big2 = big.NewInt(2)
var bigMinus99 = big.NewInt(-99)

// emptyOmmersRLP is RLP(empty list). EmptyOmmersHash hashes it with a
// caller-supplied Hasher to get the ommers hash a header with no uncles
// carries; header builders and CalculateDifficulty's callers use that.
var emptyOmmersRLP = []byte{0xc0}

// EmptyOmmersHash returns keccak256(RLP(empty list)) using the given hasher.
func EmptyOmmersHash(h types.Hasher) types.Hash {
	return h.Keccak256(emptyOmmersRLP)
}

// CalculateDifficulty implements calculate_difficulty(H, P): the Frontier
// difficulty adjustment plus the difficulty-bomb term, parameterized by cfg
// rather than replicating the self-referential floor the original source
// used (spec "Open question — difficulty floor").
func CalculateDifficulty(cfg Config, emptyOmmersHash types.Hash, header, parent *types.Header) *types.Word {
	if header.Number.IsZero() {
		return new(types.Word).Set(header.Difficulty)
	}

	parentDiff := toBig(parent.Difficulty)
	x := new(big.Int).Div(parentDiff, big.NewInt(int64(cfg.DifficultyBoundDivisor)))

	y := big2
	if header.UnclesHash == emptyOmmersHash {
		y = big1
	}

	timeDelta := new(big.Int).SetUint64(header.Time - parent.Time)
	durationLimit := big.NewInt(int64(cfg.DurationLimit))
	timeFactor := new(big.Int).Sub(y, new(big.Int).Div(timeDelta, durationLimit))
	if timeFactor.Cmp(bigMinus99) < 0 {
		timeFactor.Set(bigMinus99)
	}

	adjust := new(big.Int).Mul(x, timeFactor)
	diff := new(big.Int).Add(parentDiff, adjust)

	bomb := difficultyBomb(cfg, parent.Number.Uint64()+1)
	diff.Add(diff, bomb)

	floor := new(big.Int).SetUint64(cfg.MinimumDifficulty)
	if diff.Cmp(floor) < 0 {
		diff.Set(floor)
	}

	w := new(types.Word)
	w.SetFromBig(diff)
	return w
}

// difficultyBomb computes 2^(fake_height/ExpDiffPeriod - 2), or 0 if that
// exponent would be negative, where fake_height = max(number-BombDelayBlock, 0).
func difficultyBomb(cfg Config, number uint64) *big.Int {
	fakeHeight := int64(0)
	if number > cfg.BombDelayBlock {
		fakeHeight = int64(number - cfg.BombDelayBlock)
	}
	exp := fakeHeight/int64(cfg.ExpDiffPeriod) - 2
	if exp < 0 {
		return new(big.Int)
	}
	return new(big.Int).Lsh(big1, uint(exp))
}

func toBig(w *types.Word) *big.Int { return w.ToBig() }
