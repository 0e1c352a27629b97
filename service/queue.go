// service/queue.go
package service

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrQueueFull = errors.New("action queue is full")

// ActionQueue runs page writes on a single worker, in the order they were queued, so an HTTP
// request can return while the transaction is mined.
type ActionQueue struct {
	actionCh     chan *queuedAction
	shutdownCh   chan struct{}
	processingWg sync.WaitGroup
	logger       log.Logger
}

type queuedAction struct {
	id       string
	name     string
	run      func(ctx context.Context) error
	resultCh chan<- *ActionResult
}

// ActionResult is what a queued action produced.
type ActionResult struct {
	ID           string
	Name         string
	Success      bool
	ErrorMessage string
	Timestamp    int64
}

func NewActionQueue(queueSize int) *ActionQueue {
	return &ActionQueue{
		actionCh:   make(chan *queuedAction, queueSize),
		shutdownCh: make(chan struct{}),
		logger:     log.New("module", "queue"),
	}
}

// Start begins processing queued actions. ctx is handed to every action.
func (q *ActionQueue) Start(ctx context.Context) {
	q.processingWg.Add(1)
	go q.worker(ctx)
}

// Stop waits for the running action to finish. Actions still queued are dropped.
func (q *ActionQueue) Stop() {
	close(q.shutdownCh)
	q.processingWg.Wait()
}

// Queue adds an action and returns the channel its result will arrive on.
func (q *ActionQueue) Queue(name string, run func(ctx context.Context) error) <-chan *ActionResult {
	resultCh := make(chan *ActionResult, 1)
	action := newQueuedAction(name, run, resultCh)

	if !q.enqueue(action) {
		// Queue is full, return immediate error
		resultCh <- &ActionResult{
			ID:           action.id,
			Name:         name,
			ErrorMessage: ErrQueueFull.Error(),
			Timestamp:    time.Now().Unix(),
		}
		close(resultCh)
	}
	return resultCh
}

// QueueNoWait adds an action whose result nobody waits for.
func (q *ActionQueue) QueueNoWait(name string, run func(ctx context.Context) error) error {
	if !q.enqueue(newQueuedAction(name, run, make(chan *ActionResult, 1))) {
		q.logger.Warn("Action dropped", "name", name, "err", ErrQueueFull)
		return ErrQueueFull
	}
	return nil
}

func newQueuedAction(name string, run func(ctx context.Context) error, resultCh chan<- *ActionResult) *queuedAction {
	return &queuedAction{
		id:       uuid.New().String(),
		name:     name,
		run:      run,
		resultCh: resultCh,
	}
}

func (q *ActionQueue) enqueue(action *queuedAction) bool {
	select {
	case q.actionCh <- action:
		q.logger.Debug("Action queued", "id", action.id, "name", action.name)
		return true
	default:
		return false
	}
}

func (q *ActionQueue) worker(ctx context.Context) {
	defer q.processingWg.Done()

	for {
		select {
		case <-q.shutdownCh:
			return
		case <-ctx.Done():
			return
		case action := <-q.actionCh:
			q.process(ctx, action)
		}
	}
}

func (q *ActionQueue) process(ctx context.Context, action *queuedAction) {
	start := time.Now()
	err := action.run(ctx)

	result := &ActionResult{
		ID:        action.id,
		Name:      action.name,
		Success:   err == nil,
		Timestamp: time.Now().Unix(),
	}
	if err != nil {
		result.ErrorMessage = err.Error()
	}
	q.logger.Debug("Action processed", "id", action.id, "name", action.name, "ok", result.Success, "elapsed", time.Since(start))

	action.resultCh <- result
	close(action.resultCh)
}
