package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"

	"contract-frontend/models"
	"contract-frontend/wallet"
)

type VotingContract interface {
	RegisterCandidate(ctx context.Context, opts *bind.TransactOpts, name string) (*types.Receipt, error)
	Vote(ctx context.Context, opts *bind.TransactOpts, index uint64) (*types.Receipt, error)
	Reset(ctx context.Context, opts *bind.TransactOpts, duration time.Duration) (*types.Receipt, error)
	GetResults(ctx context.Context) ([]models.CandidateResult, error)
	EndTime(ctx context.Context) (time.Time, error)
}

// VotingService backs the voting dashboard. It mirrors the ballot's candidates and deadline
// and refreshes the mirror after every successful write.
type VotingService struct {
	page
	contract   VotingContract
	window     *VotingWindow
	candidates []models.CandidateResult
}

func NewVotingService(contract VotingContract, w wallet.Wallet, metrics *MetricsCollector) *VotingService {
	s := &VotingService{
		contract: contract,
		window:   NewVotingWindow(),
	}
	s.page.init("voting", w, metrics)
	return s
}

// Refresh reads candidates and deadline. Both reads must succeed before the mirror changes.
func (s *VotingService) Refresh(ctx context.Context) error {
	results, err := s.contract.GetResults(ctx)
	if err != nil {
		s.logger.Warn("Failed to read results", "err", err)
		return err
	}
	endTime, err := s.contract.EndTime(ctx)
	if err != nil {
		s.logger.Warn("Failed to read end time", "err", err)
		return err
	}

	s.mu.Lock()
	s.candidates = results
	s.mu.Unlock()
	s.window.Update(endTime)

	s.logger.Debug("Ballot refreshed", "candidates", len(results), "end", endTime)
	return nil
}

// RegisterCandidate registers the connected account under name. A blank name is treated as a
// cancelled prompt.
func (s *VotingService) RegisterCandidate(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	return s.write(ctx, "registerCandidate", func(opts *bind.TransactOpts) error {
		_, err := s.contract.RegisterCandidate(ctx, opts, name)
		return err
	})
}

func (s *VotingService) Vote(ctx context.Context, index int) error {
	if index < 0 {
		err := errors.Wrapf(ErrInvalidInput, "candidate index %d", index)
		s.fail("vote", err)
		return err
	}
	return s.write(ctx, "vote", func(opts *bind.TransactOpts) error {
		_, err := s.contract.Vote(ctx, opts, uint64(index))
		return err
	})
}

// Reset restarts the ballot to close hours from now.
func (s *VotingService) Reset(ctx context.Context, hours int) error {
	if hours <= 0 {
		err := errors.Wrapf(ErrInvalidInput, "voting duration must be a positive number of hours, got %d", hours)
		s.fail("reset", err)
		return err
	}
	return s.write(ctx, "reset", func(opts *bind.TransactOpts) error {
		_, err := s.contract.Reset(ctx, opts, time.Duration(hours)*time.Hour)
		return err
	})
}

func (s *VotingService) write(ctx context.Context, op string, fn func(opts *bind.TransactOpts) error) error {
	if err := s.transact(ctx, op, fn); err != nil {
		return err
	}
	if err := s.Refresh(ctx); err != nil {
		s.fail("refresh", err)
	}
	return nil
}

func (s *VotingService) Window() *VotingWindow { return s.window }

func (s *VotingService) View() models.VotingView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates := make([]models.CandidateResult, len(s.candidates))
	copy(candidates, s.candidates)

	return models.VotingView{
		Address:    s.addressString(),
		EndTime:    models.FormatEndTime(s.window.EndTime()),
		Open:       s.window.IsOpen(),
		Candidates: candidates,
		Loading:    s.busy(),
		Notices:    s.peekNotices(),
	}
}

// ParseHours reads the reset prompt. Only whole positive hours are accepted.
func ParseHours(input string) (int, error) {
	hours, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || hours <= 0 {
		return 0, errors.Wrapf(ErrInvalidInput, "%q is not a positive number of hours", input)
	}
	return hours, nil
}

func ParseIndex(input string) (int, error) {
	index, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || index < 0 {
		return 0, errors.Wrapf(ErrInvalidInput, "%q is not a candidate index", input)
	}
	return index, nil
}
