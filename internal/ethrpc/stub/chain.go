// Package stub provides an in-memory ethrpc.Client for tests.
package stub

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/Ken19931113/debook/internal/ethrpc"
)

// ErrNoHandler is returned by CallContract when no handler is installed.
var ErrNoHandler = errors.New("stub: no call handler")

// CallHandler answers an eth_call.
type CallHandler func(msg ethrpc.CallMsg) ([]byte, error)

// MineFunc decides the receipt of a submitted transaction.
// Returning nil leaves the transaction pending forever.
type MineFunc func(tx *types.Transaction) *ethrpc.Receipt

// Chain implements ethrpc.Client for testing.
type Chain struct {
	mu sync.Mutex

	ChainIDValue *big.Int
	GasPriceWei  *big.Int
	Nonces       map[common.Address]uint64
	Head         uint64

	OnCall CallHandler
	OnSend MineFunc

	// Err, when set, fails every method.
	Err error

	Sent     []*types.Transaction
	Receipts map[common.Hash]*ethrpc.Receipt
	Calls    int
}

// Compile-time interface check.
var _ ethrpc.Client = (*Chain)(nil)

// NewChain creates a stub chain with chain id 31337 and a 1 gwei gas price.
func NewChain() *Chain {
	return &Chain{
		ChainIDValue: big.NewInt(31337),
		GasPriceWei:  big.NewInt(1_000_000_000),
		Nonces:       make(map[common.Address]uint64),
		Receipts:     make(map[common.Hash]*ethrpc.Receipt),
		Head:         1,
	}
}

// CallContract dispatches to OnCall.
func (c *Chain) CallContract(_ context.Context, msg ethrpc.CallMsg) ([]byte, error) {
	c.mu.Lock()
	c.Calls++
	handler, err := c.OnCall, c.Err
	c.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if handler == nil {
		return nil, ErrNoHandler
	}
	return handler(msg)
}

// PendingNonceAt returns the stored nonce for account.
func (c *Chain) PendingNonceAt(_ context.Context, account common.Address) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls++
	if c.Err != nil {
		return 0, c.Err
	}
	return c.Nonces[account], nil
}

// SuggestGasPrice returns GasPriceWei.
func (c *Chain) SuggestGasPrice(_ context.Context) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls++
	if c.Err != nil {
		return nil, c.Err
	}
	return new(big.Int).Set(c.GasPriceWei), nil
}

// ChainID returns ChainIDValue.
func (c *Chain) ChainID(_ context.Context) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls++
	if c.Err != nil {
		return nil, c.Err
	}
	return new(big.Int).Set(c.ChainIDValue), nil
}

// SendRawTransaction decodes and records the transaction, then asks OnSend for a receipt.
func (c *Chain) SendRawTransaction(_ context.Context, rawTx []byte) (common.Hash, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls++
	if c.Err != nil {
		return common.Hash{}, c.Err
	}

	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(rawTx); err != nil {
		return common.Hash{}, err
	}
	c.Sent = append(c.Sent, tx)

	if c.OnSend != nil {
		if r := c.OnSend(tx); r != nil {
			c.Head++
			r.TxHash = tx.Hash()
			if r.BlockNumber == 0 {
				r.BlockNumber = c.Head
			}
			c.Receipts[tx.Hash()] = r
		}
	}
	return tx.Hash(), nil
}

// TransactionReceipt returns the stored receipt, or nil while pending.
func (c *Chain) TransactionReceipt(_ context.Context, txHash common.Hash) (*ethrpc.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls++
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Receipts[txHash], nil
}

// BlockNumber returns Head.
func (c *Chain) BlockNumber(_ context.Context) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls++
	if c.Err != nil {
		return 0, c.Err
	}
	return c.Head, nil
}

// CallCount returns the number of RPC methods invoked so far.
func (c *Chain) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Calls
}

// SentTransactions returns a copy of every submitted transaction.
func (c *Chain) SentTransactions() []*types.Transaction {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*types.Transaction, len(c.Sent))
	copy(out, c.Sent)
	return out
}

// SetReceipt mines txHash with r, as if it had been pending until now.
func (c *Chain) SetReceipt(txHash common.Hash, r *ethrpc.Receipt) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Head++
	r.TxHash = txHash
	if r.BlockNumber == 0 {
		r.BlockNumber = c.Head
	}
	c.Receipts[txHash] = r
}
