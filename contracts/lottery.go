package contracts

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

type Lottery struct {
	*Contract
}

func NewLottery(address common.Address, artifact *Artifact, backend Backend) *Lottery {
	return &Lottery{Contract: NewContract(address, artifact, backend)}
}

// Enter pays value into the lottery.
func (l *Lottery) Enter(ctx context.Context, opts *bind.TransactOpts, value *big.Int) (*types.Receipt, error) {
	if opts == nil {
		return l.transact(ctx, nil, "enter")
	}
	payOpts := *opts
	payOpts.Value = value
	return l.transact(ctx, &payOpts, "enter")
}

// GetBalance returns the pot in wei.
func (l *Lottery) GetBalance(ctx context.Context) (*big.Int, error) {
	out, err := l.call(ctx, "getBalance")
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}
