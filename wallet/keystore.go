package wallet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// KeystoreWallet signs with encrypted keys from a go-ethereum keystore directory.
type KeystoreWallet struct {
	ks         *keystore.KeyStore
	passphrase string
	preferred  common.Address
	chainID    *big.Int
}

func NewKeystoreWallet(dir, passphrase, account string, chainID *big.Int) (*KeystoreWallet, error) {
	return newKeystoreWallet(dir, passphrase, account, chainID, keystore.StandardScryptN, keystore.StandardScryptP)
}

func newKeystoreWallet(dir, passphrase, account string, chainID *big.Int, scryptN, scryptP int) (*KeystoreWallet, error) {
	w := &KeystoreWallet{
		ks:         keystore.NewKeyStore(dir, scryptN, scryptP),
		passphrase: passphrase,
		chainID:    chainID,
	}
	if account != "" {
		if !common.IsHexAddress(account) {
			return nil, errors.Errorf("invalid account %q", account)
		}
		w.preferred = common.HexToAddress(account)
	}
	return w, nil
}

func (w *KeystoreWallet) Kind() string { return "keystore" }

// RequestAccounts lists the keystore accounts with the configured account first. A configured
// account missing from the keystore is ErrUnknownAccount.
func (w *KeystoreWallet) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	accs := w.ks.Accounts()
	if len(accs) == 0 {
		return nil, ErrNoAccounts
	}

	addrs := make([]common.Address, 0, len(accs))
	found := false
	for _, acc := range accs {
		if acc.Address == w.preferred {
			addrs = append([]common.Address{acc.Address}, addrs...)
			found = true
			continue
		}
		addrs = append(addrs, acc.Address)
	}
	if w.preferred != (common.Address{}) && !found {
		return nil, errors.Wrap(ErrUnknownAccount, w.preferred.Hex())
	}
	return addrs, nil
}

func (w *KeystoreWallet) Transactor(ctx context.Context, account common.Address) (*bind.TransactOpts, error) {
	acc, err := w.ks.Find(accounts.Account{Address: account})
	if err != nil {
		return nil, errors.Wrap(ErrUnknownAccount, account.Hex())
	}
	if err := w.ks.Unlock(acc, w.passphrase); err != nil {
		return nil, errors.Wrap(err, "failed to unlock account")
	}
	return bind.NewKeyStoreTransactorWithChainID(w.ks, acc, w.chainID)
}

// NewAccount creates a fresh encrypted key in the keystore.
func (w *KeystoreWallet) NewAccount() (common.Address, error) {
	acc, err := w.ks.NewAccount(w.passphrase)
	if err != nil {
		return common.Address{}, errors.Wrap(err, "failed to create account")
	}
	logger().Info("Created keystore account", "address", acc.Address, "url", acc.URL)
	return acc.Address, nil
}
