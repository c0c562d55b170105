package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/price-estimator/internal/history"
)

func newHistoryCmd() *cobra.Command {
	var (
		limit   int
		outcome string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded predictions",
		Long:  "List predictions recorded by 'pe predict' and the web UI, newest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, limit, outcome)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of predictions to show (0 = all)")
	cmd.Flags().StringVar(&outcome, "outcome", "", "filter by outcome (succeeded|failed)")

	return cmd
}

func runHistory(cmd *cobra.Command, limit int, outcome string) error {
	if outcome != "" && !history.ValidOutcome(outcome) {
		return fmt.Errorf("invalid --outcome %q (must be succeeded or failed)", outcome)
	}
	if limit < 0 {
		return fmt.Errorf("invalid --limit %d", limit)
	}

	repo, database, err := newHistoryRepo()
	if err != nil {
		return err
	}
	defer closeDB(database)

	records, err := repo.List(history.ListOptions{Limit: limit, Outcome: history.Outcome(outcome)})
	if err != nil {
		return err
	}

	if isJSON() {
		if records == nil {
			records = []*history.Record{}
		}
		return printJSON(cmd.OutOrStdout(), records)
	}

	return printHistoryTable(cmd.OutOrStdout(), records)
}
