package wallet

import (
	"context"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"

	"contract-frontend/config"
)

var (
	ErrNotInstalled   = errors.New("no wallet configured")
	ErrNoAccounts     = errors.New("wallet has no accounts")
	ErrUnknownAccount = errors.New("account is not managed by this wallet")
)

// logger is built on demand so it follows the root handler installed at startup.
func logger() log.Logger { return log.New("module", "wallet") }

// Wallet discovers the user's accounts and signs transactions on their behalf.
type Wallet interface {
	Kind() string
	// RequestAccounts returns the accounts the user exposes, preferred account first.
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	// Transactor returns signing options for a single transaction from account.
	Transactor(ctx context.Context, account common.Address) (*bind.TransactOpts, error)
}

// Open picks a backend from configuration. An external signer wins over a keystore, a keystore
// wins over a raw key file. ErrNotInstalled is returned when none is configured.
func Open(cfg config.Wallet, chainID *big.Int) (Wallet, error) {
	switch {
	case cfg.ExternalSigner != "":
		return NewExternalWallet(cfg.ExternalSigner)
	case cfg.Keystore != "":
		passphrase, err := ReadPassword(cfg.PasswordFile)
		if err != nil {
			return nil, err
		}
		return NewKeystoreWallet(cfg.Keystore, passphrase, cfg.Account, chainID)
	case cfg.KeyFile != "":
		key, err := LoadKey(cfg.KeyFile)
		if err != nil {
			return nil, err
		}
		return NewKeyWallet(key, chainID), nil
	default:
		return nil, ErrNotInstalled
	}
}

// ReadPassword reads a keystore password file. An empty path means an empty password.
func ReadPassword(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(err, "failed to read password file")
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
