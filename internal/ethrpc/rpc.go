package ethrpc

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Caller executes read-only contract calls.
type Caller interface {
	// CallContract executes eth_call against the latest block.
	CallContract(ctx context.Context, msg CallMsg) ([]byte, error)
}

// Client defines the Ethereum JSON-RPC HTTP interface used by the gateway.
type Client interface {
	Caller

	// PendingNonceAt returns the next nonce for account, counting pending transactions.
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)

	// SuggestGasPrice returns the node's current gas price in wei.
	SuggestGasPrice(ctx context.Context) (*big.Int, error)

	// ChainID returns the EIP-155 chain id.
	ChainID(ctx context.Context) (*big.Int, error)

	// SendRawTransaction submits a signed, RLP-encoded transaction.
	SendRawTransaction(ctx context.Context, rawTx []byte) (common.Hash, error)

	// TransactionReceipt returns the receipt of a mined transaction.
	// Returns nil, nil while the transaction is pending.
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*Receipt, error)

	// BlockNumber returns the latest block number.
	BlockNumber(ctx context.Context) (uint64, error)
}

// CallMsg is the subset of eth_call parameters used here.
type CallMsg struct {
	From common.Address // optional
	To   common.Address
	Data []byte
}

// Receipt status values.
const (
	ReceiptStatusFailed     uint64 = 0
	ReceiptStatusSuccessful uint64 = 1
)

// Receipt is a mined transaction receipt.
type Receipt struct {
	TxHash      common.Hash
	BlockNumber uint64
	Status      uint64
	Logs        []*types.Log
}
