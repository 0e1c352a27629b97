package contracts

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
)

// ErrReverted is returned when a transaction was mined with a failed status.
var ErrReverted = errors.New("transaction reverted")

// Backend is what a binding needs from the node: reads, transaction submission and receipts.
// *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Contract is a typed handle on one deployed contract.
type Contract struct {
	address  common.Address
	artifact *Artifact
	backend  Backend
	bound    *bind.BoundContract
	logger   log.Logger
}

func NewContract(address common.Address, artifact *Artifact, backend Backend) *Contract {
	return &Contract{
		address:  address,
		artifact: artifact,
		backend:  backend,
		bound:    bind.NewBoundContract(address, artifact.ABI, backend, backend, backend),
		logger:   log.New("module", "contracts", "contract", artifact.Name),
	}
}

func (c *Contract) Address() common.Address { return c.address }

func (c *Contract) Artifact() *Artifact { return c.artifact }

func (c *Contract) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	var out []interface{}
	if err := c.bound.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return nil, errors.Wrapf(err, "%s.%s", c.artifact.Name, method)
	}
	if len(out) == 0 {
		return nil, errors.Errorf("%s.%s returned no values", c.artifact.Name, method)
	}
	return out, nil
}

// transact submits the call and blocks until it is mined.
func (c *Contract) transact(ctx context.Context, opts *bind.TransactOpts, method string, args ...interface{}) (*types.Receipt, error) {
	if opts == nil {
		return nil, errors.New("no signer")
	}
	txOpts := *opts
	txOpts.Context = ctx

	tx, err := c.bound.Transact(&txOpts, method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "%s.%s", c.artifact.Name, method)
	}
	c.logger.Info("Transaction submitted", "method", method, "hash", tx.Hash(), "from", txOpts.From)

	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return nil, errors.Wrapf(err, "waiting for %s", tx.Hash().Hex())
	}
	if receipt.Status == types.ReceiptStatusFailed {
		c.logger.Warn("Transaction reverted", "method", method, "hash", tx.Hash())
		return receipt, errors.Wrapf(ErrReverted, "%s.%s in %s", c.artifact.Name, method, tx.Hash().Hex())
	}

	c.logger.Info("Transaction mined", "method", method, "hash", tx.Hash(), "block", receipt.BlockNumber, "gas", receipt.GasUsed)
	return receipt, nil
}
