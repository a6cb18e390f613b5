package ethrpc

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// HeadSubscriber delivers new block headers over a WebSocket subscription.
type HeadSubscriber interface {
	// SubscribeNewHeads subscribes to eth_subscribe("newHeads").
	SubscribeNewHeads(ctx context.Context) (<-chan Head, error)

	// Close closes the WebSocket connection.
	Close() error
}

// Head is a new block notification.
type Head struct {
	Number uint64
	Hash   common.Hash
}
