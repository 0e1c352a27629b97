package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"

	"contract-frontend/models"
	"contract-frontend/wallet"
)

var (
	ErrNotConnected = errors.New("wallet not connected")
	ErrBusy         = errors.New("another transaction is pending")
	ErrInvalidInput = errors.New("invalid input")
)

const (
	MsgInstallWallet = "Please install a wallet first."
	MsgConnectFirst  = "Connect a wallet first."
	MsgBusy          = "Another transaction is still pending."
)

// notices older than this many are dropped
const maxNotices = 20

// page is the state every page shares: the connected account, the loading flag and the
// messages waiting to be shown.
type page struct {
	mu        sync.RWMutex
	wallet    wallet.Wallet
	address   common.Address
	connected bool
	loading   bool
	pending   int
	notices   []models.Notice
	metrics   *MetricsCollector
	logger    log.Logger
}

func (p *page) init(name string, w wallet.Wallet, metrics *MetricsCollector) {
	if metrics == nil {
		metrics = NewMetricsCollector()
	}
	p.wallet = w
	p.metrics = metrics
	p.logger = log.New("module", "service", "page", name)
}

// Connect asks the wallet for its accounts and adopts the first one.
func (p *page) Connect(ctx context.Context) error {
	if p.wallet == nil {
		p.notify(models.NoticeWarning, MsgInstallWallet)
		return wallet.ErrNotInstalled
	}

	accounts, err := p.wallet.RequestAccounts(ctx)
	if err == nil && len(accounts) == 0 {
		err = wallet.ErrNoAccounts
	}
	if err != nil {
		p.fail("connect", err)
		return err
	}

	p.mu.Lock()
	p.address = accounts[0]
	p.connected = true
	p.mu.Unlock()

	p.logger.Info("Wallet connected", "kind", p.wallet.Kind(), "address", accounts[0])
	return nil
}

func (p *page) Address() (common.Address, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.address, p.connected
}

// Loading reports whether a write is queued or running.
func (p *page) Loading() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.busy()
}

func (p *page) busy() bool {
	return p.loading || p.pending > 0
}

// Queued marks a write as waiting for the action queue, so the page shows it as loading
// before the worker picks it up. The returned func clears the mark and may be called twice.
func (p *page) Queued() func() {
	p.mu.Lock()
	p.pending++
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			p.pending--
			p.mu.Unlock()
		})
	}
}

// TakeNotices returns the pending notices and clears them, the way an alert is shown once.
func (p *page) TakeNotices() []models.Notice {
	p.mu.Lock()
	defer p.mu.Unlock()
	notices := p.notices
	p.notices = nil
	return notices
}

func (p *page) peekNotices() []models.Notice {
	notices := make([]models.Notice, len(p.notices))
	copy(notices, p.notices)
	return notices
}

func (p *page) addressString() string {
	if !p.connected {
		return ""
	}
	return p.address.Hex()
}

// Alert raises err as an error notice on the page.
func (p *page) Alert(err error) {
	p.fail("request", err)
}

func (p *page) notify(level models.NoticeLevel, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notices = append(p.notices, models.NewNotice(level, message))
	if len(p.notices) > maxNotices {
		p.notices = p.notices[len(p.notices)-maxNotices:]
	}
}

func (p *page) fail(op string, err error) {
	p.logger.Warn("Action failed", "op", op, "err", err)
	p.notify(models.NoticeError, fmt.Sprintf("Error: %v", err))
}

// transact runs one write with the loading flag held. Only one write runs at a time; state
// is left alone on failure.
func (p *page) transact(ctx context.Context, op string, fn func(opts *bind.TransactOpts) error) error {
	p.mu.Lock()
	if !p.connected {
		p.mu.Unlock()
		p.notify(models.NoticeWarning, MsgConnectFirst)
		return ErrNotConnected
	}
	if p.loading {
		p.mu.Unlock()
		p.notify(models.NoticeWarning, MsgBusy)
		return ErrBusy
	}
	p.loading = true
	account := p.address
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.loading = false
		p.mu.Unlock()
	}()

	p.metrics.RecordStart(op)
	start := time.Now()

	opts, err := p.wallet.Transactor(ctx, account)
	if err == nil {
		err = fn(opts)
	}

	p.metrics.RecordEnd(op, time.Since(start), err)
	if err != nil {
		p.fail(op, err)
		return err
	}
	p.logger.Info("Action completed", "op", op, "from", account, "elapsed", time.Since(start))
	return nil
}
