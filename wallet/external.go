package wallet

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/external"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// ExternalWallet delegates account listing and signing to a Clef-compatible signer, which asks
// the user to approve every request.
type ExternalWallet struct {
	signer *external.ExternalSigner
}

func NewExternalWallet(endpoint string) (*ExternalWallet, error) {
	signer, err := external.NewExternalSigner(endpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to reach external signer at %s", endpoint)
	}
	return &ExternalWallet{signer: signer}, nil
}

func (w *ExternalWallet) Kind() string { return "external" }

func (w *ExternalWallet) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	accs := w.signer.Accounts()
	if len(accs) == 0 {
		return nil, ErrNoAccounts
	}
	addrs := make([]common.Address, len(accs))
	for i, acc := range accs {
		addrs[i] = acc.Address
	}
	return addrs, nil
}

func (w *ExternalWallet) Transactor(ctx context.Context, account common.Address) (*bind.TransactOpts, error) {
	return bind.NewClefTransactor(w.signer, accounts.Account{Address: account}), nil
}
