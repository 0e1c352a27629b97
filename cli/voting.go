package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"contract-frontend/models"
	"contract-frontend/service"
)

// VotingCmd ballot commands
func VotingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voting",
		Short: "Candidates, votes and the voting deadline",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "results",
			Short: "List candidates and their votes",
			Args:  cobra.NoArgs,
			RunE:  votingResults,
		},
		&cobra.Command{
			Use:   "register NAME",
			Short: "Register the wallet account as a candidate",
			Args:  cobra.ExactArgs(1),
			RunE:  votingRegister,
		},
		&cobra.Command{
			Use:   "vote INDEX",
			Short: "Vote for the candidate at INDEX",
			Args:  cobra.ExactArgs(1),
			RunE:  votingVote,
		},
		&cobra.Command{
			Use:   "reset HOURS",
			Short: "Restart the ballot, closing HOURS from now",
			Args:  cobra.ExactArgs(1),
			RunE:  votingReset,
		},
	)
	return cmd
}

func votingResults(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	svc := service.NewVotingService(e.voting, e.wallet, nil)
	if err := svc.Refresh(cmd.Context()); err != nil {
		return err
	}
	printBallot(cmd.OutOrStdout(), svc.View())
	return nil
}

func votingRegister(cmd *cobra.Command, args []string) error {
	return votingWrite(cmd, func(svc *service.VotingService) error {
		return svc.RegisterCandidate(cmd.Context(), args[0])
	})
}

func votingVote(cmd *cobra.Command, args []string) error {
	index, err := service.ParseIndex(args[0])
	if err != nil {
		return err
	}
	return votingWrite(cmd, func(svc *service.VotingService) error {
		return svc.Vote(cmd.Context(), index)
	})
}

func votingReset(cmd *cobra.Command, args []string) error {
	hours, err := service.ParseHours(args[0])
	if err != nil {
		return err
	}
	return votingWrite(cmd, func(svc *service.VotingService) error {
		return svc.Reset(cmd.Context(), hours)
	})
}

// votingWrite connects the wallet, runs one write and prints the refreshed ballot.
func votingWrite(cmd *cobra.Command, write func(svc *service.VotingService) error) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	out := cmd.OutOrStdout()
	svc := service.NewVotingService(e.voting, e.wallet, nil)
	if err := svc.Connect(cmd.Context()); err != nil {
		return finish(out, svc.TakeNotices(), err)
	}
	if err := write(svc); err != nil {
		return finish(out, svc.TakeNotices(), err)
	}
	printBallot(out, svc.View())
	return finish(out, svc.TakeNotices(), nil)
}

func printBallot(out io.Writer, view models.VotingView) {
	state := "closed"
	if view.Open {
		state = "open"
	}
	fmt.Fprintf(out, "End time: %s (%s)\n", view.EndTime, state)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tCandidate Name\tCandidate Address\tVote Count")
	for i, c := range view.Candidates {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i, c.Name, c.CandidateAddress.Hex(), c.Votes())
	}
	w.Flush()
}
