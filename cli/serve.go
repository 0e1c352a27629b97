package cli

import (
	"github.com/spf13/cobra"

	"contract-frontend/api"
	"contract-frontend/contracts"
	"contract-frontend/service"
)

// ServeCmd runs the dashboard.
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the lottery and voting pages",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	cmd.Flags().IntP("port", "p", 0, "listen port (overrides server.port)")
	return cmd
}

// ServerCmd is the dashboard as a standalone program.
func ServerCmd() *cobra.Command {
	cmd := ServeCmd()
	cmd.Use = "contract-frontend-api"
	cmd.SilenceUsage = true
	addGlobalFlags(cmd)
	return cmd
}

func serve(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	cfg := e.cfg
	if cmd.Flags().Changed("port") {
		cfg.Server.Port, _ = cmd.Flags().GetInt("port")
	}

	metrics := service.NewMetricsCollector()
	lottery := service.NewLotteryService(e.lottery, e.wallet, e.entryFee, metrics)
	voting := service.NewVotingService(e.voting, e.wallet, metrics)

	server, err := api.NewServer(api.Config{
		Port:         cfg.Server.Port,
		CORSOrigins:  cfg.Server.CORSOrigins,
		QueueSize:    cfg.Server.QueueSize,
		PollInterval: cfg.Voting.PollInterval.Duration,
	}, lottery, voting, metrics, api.Status{
		ChainID: e.chainID.String(),
		RPCURL:  cfg.Node.RPCURL,
		Wallet:  e.walletKind(),
		Lottery: contractInfo(e.lottery.Contract),
		Voting:  contractInfo(e.voting.Contract),
	})
	if err != nil {
		return err
	}
	return server.Start(cmd.Context())
}

func contractInfo(c *contracts.Contract) api.ContractInfo {
	return api.ContractInfo{
		Address:        c.Address().Hex(),
		Contract:       c.Artifact().Name,
		ABIFingerprint: c.Artifact().Fingerprint.Hex(),
	}
}
