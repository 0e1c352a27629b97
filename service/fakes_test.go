package service

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"contract-frontend/models"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
)

type fakeWallet struct {
	accounts      []common.Address
	accountsErr   error
	transactorErr error
}

func (w *fakeWallet) Kind() string { return "fake" }

func (w *fakeWallet) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	return w.accounts, w.accountsErr
}

func (w *fakeWallet) Transactor(ctx context.Context, account common.Address) (*bind.TransactOpts, error) {
	if w.transactorErr != nil {
		return nil, w.transactorErr
	}
	return &bind.TransactOpts{From: account}, nil
}

type fakeLottery struct {
	mu         sync.Mutex
	balance    *big.Int
	balanceErr error
	enterErr   error
	entries    []*big.Int
	from       []common.Address
}

func (l *fakeLottery) Enter(ctx context.Context, opts *bind.TransactOpts, value *big.Int) (*types.Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.enterErr != nil {
		return nil, l.enterErr
	}
	l.entries = append(l.entries, value)
	l.from = append(l.from, opts.From)
	l.balance = new(big.Int).Add(l.balance, value)
	return &types.Receipt{Status: types.ReceiptStatusSuccessful}, nil
}

func (l *fakeLottery) GetBalance(ctx context.Context) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balanceErr != nil {
		return nil, l.balanceErr
	}
	return new(big.Int).Set(l.balance), nil
}

type fakeVoting struct {
	mu         sync.Mutex
	candidates []models.CandidateResult
	endTime    time.Time
	readErr    error
	writeErr   error
	block      chan struct{}
	resets     []time.Duration
}

func (v *fakeVoting) wait() {
	if v.block != nil {
		<-v.block
	}
}

func (v *fakeVoting) RegisterCandidate(ctx context.Context, opts *bind.TransactOpts, name string) (*types.Receipt, error) {
	v.wait()
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.writeErr != nil {
		return nil, v.writeErr
	}
	v.candidates = append(v.candidates, models.CandidateResult{Name: name, CandidateAddress: opts.From, VoteCount: big.NewInt(0)})
	return &types.Receipt{Status: types.ReceiptStatusSuccessful}, nil
}

func (v *fakeVoting) Vote(ctx context.Context, opts *bind.TransactOpts, index uint64) (*types.Receipt, error) {
	v.wait()
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.writeErr != nil {
		return nil, v.writeErr
	}
	c := &v.candidates[index]
	c.VoteCount = new(big.Int).Add(c.VoteCount, big.NewInt(1))
	return &types.Receipt{Status: types.ReceiptStatusSuccessful}, nil
}

func (v *fakeVoting) Reset(ctx context.Context, opts *bind.TransactOpts, duration time.Duration) (*types.Receipt, error) {
	v.wait()
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.writeErr != nil {
		return nil, v.writeErr
	}
	v.resets = append(v.resets, duration)
	v.candidates = nil
	v.endTime = time.Now().Add(duration).Truncate(time.Second)
	return &types.Receipt{Status: types.ReceiptStatusSuccessful}, nil
}

func (v *fakeVoting) GetResults(ctx context.Context) ([]models.CandidateResult, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.readErr != nil {
		return nil, v.readErr
	}
	out := make([]models.CandidateResult, len(v.candidates))
	for i, c := range v.candidates {
		out[i] = models.CandidateResult{Name: c.Name, CandidateAddress: c.CandidateAddress, VoteCount: new(big.Int).Set(c.VoteCount)}
	}
	return out, nil
}

func (v *fakeVoting) EndTime(ctx context.Context) (time.Time, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.readErr != nil {
		return time.Time{}, v.readErr
	}
	return v.endTime, nil
}

func (v *fakeVoting) setWriteErr(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.writeErr = err
}

func (v *fakeVoting) setReadErr(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.readErr = err
}
