package types

// Account is the observable state of one address: balance, nonce, code and
// storage. Absent accounts behave as a zero-valued Account with empty code.
// Implementations of the State collaborator (core/state) are expected to
// return exactly this shape for addresses they have never touched.
type Account struct {
	Balance *Word
	Nonce   uint64
	Code    []byte
	Storage map[Word]Word
}

// NewAccount returns a zeroed, "dead" account ready for mutation.
func NewAccount() *Account {
	return &Account{
		Balance: new(Word),
		Storage: make(map[Word]Word),
	}
}

// IsDead reports whether the account has zero balance, zero nonce and empty
// code — the condition under which it is eligible for implicit removal
// after a self-destruct. Storage is not consulted.
func (a *Account) IsDead() bool {
	return a.Nonce == 0 && a.Balance.IsZero() && len(a.Code) == 0
}
