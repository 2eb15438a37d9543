package types

// Header is a block header. It is immutable once constructed; callers that
// need to change a field copy the struct first.
type Header struct {
	ParentHash  Hash
	UnclesHash  Hash
	Coinbase    Address
	StateRoot   Hash
	TxRoot      Hash
	ReceiptRoot Hash
	LogsBloom   [256]byte
	Difficulty  *Word
	Number      *Word
	GasLimit    uint64
	GasUsed     uint64
	Time        uint64
	Extra       []byte
	MixHash     Hash
	Nonce       [8]byte
}

// Block pairs a header with its transactions and ommers. Transactions are
// opaque here: decoding and execution orchestration are external
// collaborators.
type Block struct {
	header       *Header
	transactions []Transaction
	ommers       []*Header
}

// Transaction is an opaque transaction handle; this module neither decodes
// nor executes transactions, it only carries them alongside a block.
type Transaction interface{}

// RawTransaction is an already-encoded transaction, the only Transaction
// shape the reference Codec knows how to round-trip; a node with a real
// transaction type supplies its own Codec.
type RawTransaction []byte

// NewBlock constructs a Block from its parts. Ommers and transactions may
// be nil, meaning empty.
func NewBlock(header *Header, txs []Transaction, ommers []*Header) *Block {
	return &Block{header: header, transactions: txs, ommers: ommers}
}

func (b *Block) Header() *Header             { return b.header }
func (b *Block) Transactions() []Transaction { return b.transactions }
func (b *Block) Ommers() []*Header           { return b.ommers }
func (b *Block) NumberU64() uint64           { return b.header.Number.Uint64() }
