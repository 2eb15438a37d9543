// Package chain implements the proof-of-work header chain validator:
// parent linkage, timestamp monotonicity, gas-limit drift bounds,
// difficulty recomputation (including the difficulty-bomb term), and
// total-difficulty-driven fork choice, plus the block chain facade that
// wraps it with block storage.
package chain

// Config is the set of protocol constants calculate_difficulty and
// valid(header) are parameterized on. The source this validator is built
// from hardcodes them (and uses a self-referential difficulty floor this
// Config intentionally replaces — see DESIGN.md); a real chain varies them
// by fork.
type Config struct {
	MinimumDifficulty      uint64
	DifficultyBoundDivisor uint64
	GasLimitBoundDivisor   uint64
	MinGasLimit            uint64
	DurationLimit          uint64
	BombDelayBlock         uint64
	ExpDiffPeriod          uint64
}

// FrontierConfig returns the Frontier-era protocol constants.
func FrontierConfig() Config {
	return Config{
		MinimumDifficulty:      131072,
		DifficultyBoundDivisor: 2048,
		GasLimitBoundDivisor:   1024,
		MinGasLimit:            5000,
		DurationLimit:          9,
		BombDelayBlock:         3000000,
		ExpDiffPeriod:          100000,
	}
}
