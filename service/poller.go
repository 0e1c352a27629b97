package service

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
)

type Refresher interface {
	Refresh(ctx context.Context) error
}

// Poller keeps a page mirror fresh by refreshing it on an interval.
type Poller struct {
	target     Refresher
	interval   time.Duration
	shutdownCh chan struct{}
	wg         sync.WaitGroup
	logger     log.Logger
}

func NewPoller(target Refresher, interval time.Duration) *Poller {
	return &Poller{
		target:     target,
		interval:   interval,
		shutdownCh: make(chan struct{}),
		logger:     log.New("module", "poller"),
	}
}

// Start refreshes once right away, then every interval until Stop or ctx is done.
func (p *Poller) Start(ctx context.Context) {
	p.wg.Add(1)
	go p.run(ctx)
}

func (p *Poller) Stop() {
	close(p.shutdownCh)
	p.wg.Wait()
}

func (p *Poller) run(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.refresh(ctx)
	for {
		select {
		case <-p.shutdownCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

// refresh blocks the poll loop: a slow read delays the next tick.
func (p *Poller) refresh(ctx context.Context) {
	if err := p.target.Refresh(ctx); err != nil {
		p.logger.Debug("Refresh failed", "err", err)
	}
}
