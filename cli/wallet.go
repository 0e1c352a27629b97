package cli

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"contract-frontend/logging"
	"contract-frontend/wallet"
)

// WalletCmd local wallet commands. These never contact the node.
func WalletCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Inspect or create wallet accounts",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "accounts",
			Short: "List the accounts the wallet exposes",
			Args:  cobra.NoArgs,
			RunE:  walletAccounts,
		},
		&cobra.Command{
			Use:   "new",
			Short: "Create an account in the keystore, or a development key file",
			Args:  cobra.NoArgs,
			RunE:  walletNew,
		},
	)
	return cmd
}

func walletAccounts(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logs, err := logging.Setup(cfg.Log)
	if err != nil {
		return err
	}
	defer logs.Close()

	w, err := wallet.Open(cfg.Wallet, big.NewInt(cfg.Node.ChainID))
	if err != nil {
		return err
	}
	accounts, err := w.RequestAccounts(cmd.Context())
	if err != nil {
		return err
	}
	for _, acc := range accounts {
		fmt.Fprintln(cmd.OutOrStdout(), acc.Hex())
	}
	return nil
}

func walletNew(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logs, err := logging.Setup(cfg.Log)
	if err != nil {
		return err
	}
	defer logs.Close()

	out := cmd.OutOrStdout()
	switch {
	case cfg.Wallet.Keystore != "":
		passphrase, err := wallet.ReadPassword(cfg.Wallet.PasswordFile)
		if err != nil {
			return err
		}
		ks, err := wallet.NewKeystoreWallet(cfg.Wallet.Keystore, passphrase, "", big.NewInt(cfg.Node.ChainID))
		if err != nil {
			return err
		}
		address, err := ks.NewAccount()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, address.Hex())
	case cfg.Wallet.KeyFile != "":
		key, created, err := wallet.LoadOrGenerateKey(cfg.Wallet.KeyFile)
		if err != nil {
			return err
		}
		if !created {
			return errors.Errorf("key file %s already holds %s", cfg.Wallet.KeyFile, crypto.PubkeyToAddress(key.PublicKey).Hex())
		}
		fmt.Fprintln(out, crypto.PubkeyToAddress(key.PublicKey).Hex())
	default:
		return errors.New("set --keystore or --key-file")
	}
	return nil
}
