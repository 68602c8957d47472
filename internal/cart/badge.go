// Package cart tracks the item count shown next to the cart link.
package cart

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/vnshop/storefront/internal/events"
)

// ItemCounter fetches the number of lines in the active user's cart.
type ItemCounter interface {
	CountItems(ctx context.Context) (int, error)
}

// CredentialChecker reports whether a credential is available.
type CredentialChecker interface {
	HasToken(ctx context.Context) bool
}

// Badge holds the cart count. At most one refresh runs at a time; overlapping
// refreshes return immediately without waiting.
type Badge struct {
	counter ItemCounter
	creds   CredentialChecker
	events  events.Dispatcher
	logger  *zap.Logger

	count   atomic.Int64
	loading atomic.Bool
}

// NewBadge builds a badge with a zero count.
func NewBadge(counter ItemCounter, creds CredentialChecker, dispatcher events.Dispatcher, logger *zap.Logger) *Badge {
	return &Badge{
		counter: counter,
		creds:   creds,
		events:  dispatcher,
		logger:  logger,
	}
}

// UpdateCartCount refreshes the count from the backend. It reports false when
// another refresh was already in flight.
func (b *Badge) UpdateCartCount(ctx context.Context) bool {
	if !b.loading.CompareAndSwap(false, true) {
		return false
	}
	defer b.loading.Store(false)

	if !b.creds.HasToken(ctx) {
		b.set(ctx, 0)
		return true
	}

	n, err := b.counter.CountItems(ctx)
	if err != nil {
		b.logger.Warn("updating cart count failed", zap.Error(err))
		b.set(ctx, 0)
		return true
	}
	b.set(ctx, n)
	return true
}

// Initialize performs the first refresh after login.
func (b *Badge) Initialize(ctx context.Context) {
	b.UpdateCartCount(ctx)
}

// Reset sets the count to zero without a network call.
func (b *Badge) Reset(ctx context.Context) {
	b.set(ctx, 0)
}

// Count returns the current count.
func (b *Badge) Count() int {
	return int(b.count.Load())
}

// IsLoading reports whether a refresh is in flight.
func (b *Badge) IsLoading() bool {
	return b.loading.Load()
}

func (b *Badge) set(ctx context.Context, n int) {
	if n < 0 {
		n = 0
	}
	old := b.count.Swap(int64(n))
	if old == int64(n) || b.events == nil {
		return
	}
	_ = b.events.Publish(ctx, events.New(events.EventCartCountChanged, events.CartCountChangedPayload{
		OldCount: int(old),
		NewCount: n,
	}))
}
