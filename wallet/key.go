package wallet

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// KeyFile is the on-disk form of a development key.
type KeyFile struct {
	Address    string `json:"address"`
	PrivateKey string `json:"private_key"`
}

// KeyWallet signs with a single in-memory key. Meant for development chains.
type KeyWallet struct {
	key     *ecdsa.PrivateKey
	address common.Address
	chainID *big.Int
}

func NewKeyWallet(key *ecdsa.PrivateKey, chainID *big.Int) *KeyWallet {
	return &KeyWallet{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		chainID: chainID,
	}
}

func (w *KeyWallet) Kind() string { return "keyfile" }

func (w *KeyWallet) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	return []common.Address{w.address}, nil
}

func (w *KeyWallet) Transactor(ctx context.Context, account common.Address) (*bind.TransactOpts, error) {
	if account != w.address {
		return nil, errors.Wrap(ErrUnknownAccount, account.Hex())
	}
	return bind.NewKeyedTransactorWithChainID(w.key, w.chainID)
}

// LoadKey reads a key file written by GenerateKey.
func LoadKey(path string) (*ecdsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read key file")
	}

	var kf KeyFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, errors.Wrap(err, "failed to parse key file")
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(kf.PrivateKey, "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to restore private key")
	}
	return key, nil
}

// LoadOrGenerateKey returns the key stored at path, creating one when the file does not exist.
func LoadOrGenerateKey(path string) (*ecdsa.PrivateKey, bool, error) {
	key, err := LoadKey(path)
	if err == nil {
		return key, false, nil
	}
	if !os.IsNotExist(errors.Cause(err)) {
		return nil, false, err
	}

	key, err = crypto.GenerateKey()
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to generate key")
	}
	if err := writeKey(path, key); err != nil {
		return nil, false, err
	}
	logger().Info("Generated development key", "path", path, "address", crypto.PubkeyToAddress(key.PublicKey))
	return key, true, nil
}

func writeKey(path string, key *ecdsa.PrivateKey) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Wrap(err, "failed to create key directory")
	}

	data, err := json.MarshalIndent(KeyFile{
		Address:    crypto.PubkeyToAddress(key.PublicKey).Hex(),
		PrivateKey: hexutil.Encode(crypto.FromECDSA(key)),
	}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal key file")
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return errors.Wrap(err, "failed to write key file")
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errors.Wrap(err, "failed to save key file")
	}
	return nil
}
