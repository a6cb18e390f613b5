package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Ken19931113/debook/internal/domain"
	"github.com/Ken19931113/debook/internal/ethrpc"
	"github.com/Ken19931113/debook/internal/observability"
)

// headFanout forwards newHeads notifications to receipt waiters.
type headFanout struct {
	mu      sync.Mutex
	waiters map[chan struct{}]struct{}
}

func newHeadFanout() *headFanout {
	return &headFanout{waiters: make(map[chan struct{}]struct{})}
}

func (f *headFanout) run(heads <-chan ethrpc.Head) {
	for range heads {
		observability.RecordHead()
		f.mu.Lock()
		for w := range f.waiters {
			select {
			case w <- struct{}{}:
			default:
			}
		}
		f.mu.Unlock()
	}
}

func (f *headFanout) add() chan struct{} {
	ch := make(chan struct{}, 1)
	f.mu.Lock()
	f.waiters[ch] = struct{}{}
	f.mu.Unlock()
	return ch
}

func (f *headFanout) remove(ch chan struct{}) {
	f.mu.Lock()
	delete(f.waiters, ch)
	f.mu.Unlock()
}

// WatchHeads subscribes to new blocks once; every head triggers a receipt
// check in pending waits, in addition to polling. The subscription lives
// until sub is closed. Call it before serving requests.
func (g *Gateway) WatchHeads(ctx context.Context, sub ethrpc.HeadSubscriber) error {
	heads, err := sub.SubscribeNewHeads(ctx)
	if err != nil {
		return fmt.Errorf("subscribe newHeads: %w", err)
	}
	fanout := newHeadFanout()
	g.heads = fanout
	go fanout.run(heads)
	return nil
}

// waitReceipt polls for the receipt of hash until it is mined or the
// receipt timeout elapses.
func (g *Gateway) waitReceipt(ctx context.Context, hash common.Hash) (*ethrpc.Receipt, error) {
	start := time.Now()
	waitCtx, cancel := context.WithTimeout(ctx, g.cfg.ReceiptTimeout)
	defer cancel()

	ticker := time.NewTicker(g.cfg.PollInterval)
	defer ticker.Stop()

	// nil blocks forever when no subscription is active
	var heads chan struct{}
	if g.heads != nil {
		heads = g.heads.add()
		defer g.heads.remove(heads)
	}

	for {
		receipt, err := g.client.TransactionReceipt(waitCtx, hash)
		if err == nil && receipt != nil {
			observability.RecordReceiptWait(time.Since(start).Seconds())
			return receipt, nil
		}
		if err != nil && waitCtx.Err() == nil {
			g.logger.Printf("receipt %s: %v", hash.Hex(), err)
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return nil, domain.Upstream("wait receipt", ctx.Err())
			}
			return nil, &domain.ReceiptTimeoutError{TxHash: hash.Hex()}
		case <-ticker.C:
		case <-heads:
		}
	}
}
