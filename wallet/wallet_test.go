package wallet

import (
	"context"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contract-frontend/config"
)

var chainID = big.NewInt(1337)

func TestOpenWithoutBackend(t *testing.T) {
	w, err := Open(config.Wallet{}, chainID)
	assert.Nil(t, w)
	assert.Equal(t, ErrNotInstalled, err)
}

func TestLoadOrGenerateKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "dev.json")

	key, created, err := LoadOrGenerateKey(path)
	require.NoError(t, err)
	assert.True(t, created)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	again, created, err := LoadOrGenerateKey(path)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, crypto.FromECDSA(key), crypto.FromECDSA(again))
}

func TestLoadKeyRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"private_key":"0xnothex"}`), 0600))

	_, err := LoadKey(path)
	assert.Error(t, err)

	_, _, err = LoadOrGenerateKey(path)
	assert.Error(t, err, "a broken key file must not be replaced")
}

func TestKeyWallet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.json")
	key, _, err := LoadOrGenerateKey(path)
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey)

	w, err := Open(config.Wallet{KeyFile: path}, chainID)
	require.NoError(t, err)
	assert.Equal(t, "keyfile", w.Kind())

	accounts, err := w.RequestAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []common.Address{address}, accounts)

	opts, err := w.Transactor(context.Background(), address)
	require.NoError(t, err)
	assert.Equal(t, address, opts.From)

	_, err = w.Transactor(context.Background(), common.HexToAddress("0x01"))
	assert.Equal(t, ErrUnknownAccount, errors.Cause(err))
}

func TestKeystoreWallet(t *testing.T) {
	dir := t.TempDir()

	empty, err := newKeystoreWallet(dir, "secret", "", chainID, keystore.LightScryptN, keystore.LightScryptP)
	require.NoError(t, err)
	_, err = empty.RequestAccounts(context.Background())
	assert.Equal(t, ErrNoAccounts, err)

	first, err := empty.NewAccount()
	require.NoError(t, err)
	second, err := empty.NewAccount()
	require.NoError(t, err)

	w, err := newKeystoreWallet(dir, "secret", second.Hex(), chainID, keystore.LightScryptN, keystore.LightScryptP)
	require.NoError(t, err)

	accounts, err := w.RequestAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, second, accounts[0])
	assert.ElementsMatch(t, []common.Address{first, second}, accounts)

	opts, err := w.Transactor(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, second, opts.From)

	_, err = w.Transactor(context.Background(), common.HexToAddress("0x02"))
	assert.Equal(t, ErrUnknownAccount, errors.Cause(err))
}

func TestKeystoreMissingPreferredAccount(t *testing.T) {
	dir := t.TempDir()
	w, err := newKeystoreWallet(dir, "secret", "", chainID, keystore.LightScryptN, keystore.LightScryptP)
	require.NoError(t, err)
	_, err = w.NewAccount()
	require.NoError(t, err)

	missing := common.HexToAddress("0x00000000000000000000000000000000000000b0")
	pinned, err := newKeystoreWallet(dir, "secret", missing.Hex(), chainID, keystore.LightScryptN, keystore.LightScryptP)
	require.NoError(t, err)

	accounts, err := pinned.RequestAccounts(context.Background())
	assert.Nil(t, accounts)
	assert.Equal(t, ErrUnknownAccount, errors.Cause(err))
}

func TestKeystoreWrongPassword(t *testing.T) {
	dir := t.TempDir()
	w, err := newKeystoreWallet(dir, "secret", "", chainID, keystore.LightScryptN, keystore.LightScryptP)
	require.NoError(t, err)
	account, err := w.NewAccount()
	require.NoError(t, err)

	wrong, err := newKeystoreWallet(dir, "guess", "", chainID, keystore.LightScryptN, keystore.LightScryptP)
	require.NoError(t, err)
	_, err = wrong.Transactor(context.Background(), account)
	assert.Equal(t, keystore.ErrDecrypt, errors.Cause(err))
}

func TestKeystoreRejectsBadAccount(t *testing.T) {
	_, err := NewKeystoreWallet(t.TempDir(), "", "not-an-address", chainID)
	assert.Error(t, err)
}

func TestReadPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "password")
	require.NoError(t, os.WriteFile(path, []byte("secret\n"), 0600))

	pass, err := ReadPassword(path)
	require.NoError(t, err)
	assert.Equal(t, "secret", pass)

	pass, err = ReadPassword("")
	require.NoError(t, err)
	assert.Empty(t, pass)

	_, err = Open(config.Wallet{Keystore: t.TempDir(), PasswordFile: filepath.Join(t.TempDir(), "missing")}, chainID)
	assert.Error(t, err)
}
