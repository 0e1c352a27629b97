package service

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"

	"contract-frontend/models"
	"contract-frontend/wallet"
)

const (
	MsgEntered    = "You have entered the lottery system!"
	MsgNotEntered = "You have not entered the lottery system!"
)

type LotteryContract interface {
	Enter(ctx context.Context, opts *bind.TransactOpts, value *big.Int) (*types.Receipt, error)
	GetBalance(ctx context.Context) (*big.Int, error)
}

// LotteryService backs the lottery page: entering with the fixed fee and showing the pot.
type LotteryService struct {
	page
	contract LotteryContract
	entryFee *big.Int
	balance  string
}

func NewLotteryService(contract LotteryContract, w wallet.Wallet, entryFee *big.Int, metrics *MetricsCollector) *LotteryService {
	s := &LotteryService{
		contract: contract,
		entryFee: new(big.Int).Set(entryFee),
	}
	s.page.init("lottery", w, metrics)
	return s
}

// RefreshBalance reads the pot. The shown balance only changes when the read succeeds.
func (s *LotteryService) RefreshBalance(ctx context.Context) error {
	wei, err := s.contract.GetBalance(ctx)
	if err != nil {
		s.fail("getBalance", err)
		return err
	}

	s.mu.Lock()
	s.balance = models.FormatEther(wei)
	s.mu.Unlock()
	return nil
}

// Enter pays the entry fee once the user has confirmed. Without a connected account nothing is
// asked or sent.
func (s *LotteryService) Enter(ctx context.Context, confirmed bool) error {
	if _, ok := s.Address(); !ok {
		s.notify(models.NoticeWarning, MsgConnectFirst)
		return ErrNotConnected
	}
	if !confirmed {
		s.notify(models.NoticeInfo, MsgNotEntered)
		return nil
	}

	err := s.transact(ctx, "enter", func(opts *bind.TransactOpts) error {
		_, err := s.contract.Enter(ctx, opts, s.entryFee)
		return err
	})
	if err != nil {
		return err
	}

	s.notify(models.NoticeInfo, MsgEntered)
	// the entry already succeeded, a failed read only raises its own notice
	_ = s.RefreshBalance(ctx)
	return nil
}

func (s *LotteryService) EntryFee() *big.Int {
	return new(big.Int).Set(s.entryFee)
}

func (s *LotteryService) View() models.LotteryView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.LotteryView{
		Address:  s.addressString(),
		Balance:  s.balance,
		EntryFee: models.FormatEther(s.entryFee),
		Loading:  s.busy(),
		Notices:  s.peekNotices(),
	}
}
