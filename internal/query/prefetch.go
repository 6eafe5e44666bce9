package query

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Prefetcher loads the pages after the current one in the background.
// Prefetches belong to one parameter set; asking for a different set
// cancels whatever is still in flight for the old one.
type Prefetcher struct {
	ahead int

	mu        sync.Mutex
	signature string
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

func NewPrefetcher(ahead int) *Prefetcher {
	if ahead <= 0 {
		ahead = 1
	}
	return &Prefetcher{ahead: ahead}
}

// Prefetch starts fetches for pages current+1..current+ahead, never past
// totalPages. fetch must honor ctx cancellation. Prefetches outlive the
// calling request; only a new signature or Stop cancels them.
func (p *Prefetcher) Prefetch(ctx context.Context, signature string, current int, totalPages int, fetch func(ctx context.Context, page int) error) {
	p.mu.Lock()
	if p.cancel == nil || p.signature != signature {
		if p.cancel != nil {
			p.cancel()
		}
		p.ctx, p.cancel = context.WithCancel(context.WithoutCancel(ctx))
		p.signature = signature
	}
	ctx = p.ctx
	p.mu.Unlock()

	for page := current + 1; page <= current+p.ahead && page <= totalPages; page++ {
		p.wg.Add(1)
		go func(page int) {
			defer p.wg.Done()
			if err := fetch(ctx, page); err != nil && !errors.Is(err, context.Canceled) {
				slog.DebugContext(ctx, "prefetch failed", "page", page, "error", err)
			}
		}(page)
	}
}

// Stop cancels every in-flight prefetch.
func (p *Prefetcher) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
		p.ctx = nil
	}
	p.signature = ""
}

// Wait blocks until started prefetches have returned.
func (p *Prefetcher) Wait() {
	p.wg.Wait()
}
