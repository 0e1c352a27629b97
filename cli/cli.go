// Package cli is the command line front end: the dashboard server plus one-shot commands for
// the lottery, the ballot and the local wallet.
package cli

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"contract-frontend/config"
	"contract-frontend/contracts"
	"contract-frontend/logging"
	"contract-frontend/models"
	"contract-frontend/wallet"
)

// reported marks errors whose notices were already printed.
type reported struct{ error }

// RootCmd builds the full command tree.
func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "contract-frontend",
		Short:         "Lottery and voting dashboard for deployed contracts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addGlobalFlags(cmd)

	cmd.AddCommand(
		ServeCmd(),
		LotteryCmd(),
		VotingCmd(),
		WalletCmd(),
	)
	return cmd
}

// Run executes cmd until it returns or the process is interrupted.
func Run(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if _, ok := err.(reported); !ok {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func addGlobalFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringP("config", "c", "", "path to a TOML config file")
	flags.String("rpc", "", "node RPC URL")
	flags.Int64("chain-id", 0, "chain ID (0 asks the node)")
	flags.String("keystore", "", "keystore directory")
	flags.String("password-file", "", "file holding the keystore password")
	flags.String("key-file", "", "raw development key file")
	flags.String("signer", "", "external signer endpoint")
	flags.String("account", "", "preferred account address")
	flags.String("log-level", "", "console log level (trace|debug|info|warn|error|crit)")
	flags.String("log-file", "", "rotating log file")
}

// loadConfig reads the config file and applies the flags the user set on top of it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	stringFlags := map[string]*string{
		"rpc":           &cfg.Node.RPCURL,
		"keystore":      &cfg.Wallet.Keystore,
		"password-file": &cfg.Wallet.PasswordFile,
		"key-file":      &cfg.Wallet.KeyFile,
		"signer":        &cfg.Wallet.ExternalSigner,
		"account":       &cfg.Wallet.Account,
		"log-level":     &cfg.Log.Level,
		"log-file":      &cfg.Log.File,
	}
	for name, dst := range stringFlags {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	if flags.Changed("chain-id") {
		cfg.Node.ChainID, _ = flags.GetInt64("chain-id")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// env is everything a command needs to talk to the node and the two contracts.
type env struct {
	cfg      *config.Config
	client   *ethclient.Client
	chainID  *big.Int
	lottery  *contracts.Lottery
	voting   *contracts.Voting
	wallet   wallet.Wallet
	entryFee *big.Int
	logs     io.Closer
}

func newEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logs, err := logging.Setup(cfg.Log)
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, logs: logs}
	if err := e.connect(cmd.Context()); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

func (e *env) connect(ctx context.Context) error {
	cfg := e.cfg

	client, err := ethclient.DialContext(ctx, cfg.Node.RPCURL)
	if err != nil {
		return errors.Wrapf(err, "failed to connect to %s", cfg.Node.RPCURL)
	}
	e.client = client

	e.chainID = big.NewInt(cfg.Node.ChainID)
	if e.chainID.Sign() == 0 {
		if e.chainID, err = client.ChainID(ctx); err != nil {
			return errors.Wrap(err, "failed to query chain id")
		}
	}

	lotteryArtifact, err := contracts.LotteryArtifact(cfg.Lottery.ABIPath)
	if err != nil {
		return err
	}
	votingArtifact, err := contracts.VotingArtifact(cfg.Voting.ABIPath)
	if err != nil {
		return err
	}
	e.lottery = contracts.NewLottery(common.HexToAddress(cfg.Lottery.Address), lotteryArtifact, client)
	e.voting = contracts.NewVoting(common.HexToAddress(cfg.Voting.Address), votingArtifact, client)

	if e.entryFee, err = models.ParseEther(cfg.Lottery.EntryFee); err != nil {
		return err
	}

	e.wallet, err = openWallet(cfg.Wallet, e.chainID)
	if err != nil {
		return err
	}

	log.Info("Connected to node", "rpc", cfg.Node.RPCURL, "chain", e.chainID,
		"lottery", e.lottery.Address(), "voting", e.voting.Address())
	return nil
}

// openWallet treats a missing wallet as a normal state: pages then ask the user to install one.
func openWallet(cfg config.Wallet, chainID *big.Int) (wallet.Wallet, error) {
	w, err := wallet.Open(cfg, chainID)
	if errors.Cause(err) == wallet.ErrNotInstalled {
		log.Warn("No wallet configured, writes are disabled")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (e *env) walletKind() string {
	if e.wallet == nil {
		return "none"
	}
	return e.wallet.Kind()
}

func (e *env) Close() {
	if e.client != nil {
		e.client.Close()
	}
	if e.logs != nil {
		e.logs.Close()
	}
}

func printNotices(out io.Writer, notices []models.Notice) {
	for _, n := range notices {
		fmt.Fprintf(out, "[%s] %s\n", n.Level, n.Message)
	}
}

// finish prints what the action left for the user and marks err as already shown.
func finish(out io.Writer, notices []models.Notice, err error) error {
	printNotices(out, notices)
	if err != nil && len(notices) > 0 {
		return reported{err}
	}
	return err
}
