package contracts

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"contract-frontend/models"
)

type Voting struct {
	*Contract
}

func NewVoting(address common.Address, artifact *Artifact, backend Backend) *Voting {
	return &Voting{Contract: NewContract(address, artifact, backend)}
}

func (v *Voting) RegisterCandidate(ctx context.Context, opts *bind.TransactOpts, name string) (*types.Receipt, error) {
	return v.transact(ctx, opts, "registerCandidate", name)
}

func (v *Voting) Vote(ctx context.Context, opts *bind.TransactOpts, index uint64) (*types.Receipt, error) {
	return v.transact(ctx, opts, "vote", new(big.Int).SetUint64(index))
}

// Reset restarts the ballot; the contract takes the new duration in whole seconds.
func (v *Voting) Reset(ctx context.Context, opts *bind.TransactOpts, duration time.Duration) (*types.Receipt, error) {
	seconds := new(big.Int).SetInt64(int64(duration / time.Second))
	return v.transact(ctx, opts, "reset", seconds)
}

func (v *Voting) GetResults(ctx context.Context) ([]models.CandidateResult, error) {
	out, err := v.call(ctx, "getResults")
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new([]models.CandidateResult)).(*[]models.CandidateResult), nil
}

func (v *Voting) EndTime(ctx context.Context) (time.Time, error) {
	out, err := v.call(ctx, "endTime")
	if err != nil {
		return time.Time{}, err
	}
	seconds := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	return time.Unix(seconds.Int64(), 0), nil
}
