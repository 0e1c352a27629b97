package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"contract-frontend/service"
)

const enterQuestion = "Are you sure you want to enter the lottery system?"

// LotteryCmd lottery commands
func LotteryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lottery",
		Short: "Lottery pot and entries",
	}
	cmd.AddCommand(
		LotteryBalanceCmd(),
		LotteryEnterCmd(),
	)
	return cmd
}

func LotteryBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the lottery pot",
		Args:  cobra.NoArgs,
		RunE:  lotteryBalance,
	}
}

func LotteryEnterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enter",
		Short: "Pay the entry fee into the lottery",
		Args:  cobra.NoArgs,
		RunE:  lotteryEnter,
	}
	cmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func lotteryBalance(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	svc := service.NewLotteryService(e.lottery, e.wallet, e.entryFee, nil)
	out := cmd.OutOrStdout()
	if err := svc.RefreshBalance(cmd.Context()); err != nil {
		return finish(out, svc.TakeNotices(), err)
	}
	fmt.Fprintf(out, "Balance: %s ETH\n", svc.View().Balance)
	return nil
}

func lotteryEnter(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	svc := service.NewLotteryService(e.lottery, e.wallet, e.entryFee, nil)
	if err := svc.Connect(ctx); err != nil {
		return finish(out, svc.TakeNotices(), err)
	}

	confirmed, _ := cmd.Flags().GetBool("yes")
	if !confirmed {
		confirmed = confirm(cmd.InOrStdin(), out, enterQuestion)
	}
	err = svc.Enter(ctx, confirmed)
	view := svc.View()
	if err == nil && view.Balance != "" {
		fmt.Fprintf(out, "Balance: %s ETH\n", view.Balance)
	}
	return finish(out, svc.TakeNotices(), err)
}

// confirm asks a yes/no question on the terminal. Anything but yes declines.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
