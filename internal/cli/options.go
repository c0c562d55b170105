package cli

import (
	"github.com/spf13/cobra"
)

func newOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "Show the property types and townships",
		Long:  "Show the property types and townships the form accepts, and the default form values.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions()
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), opts)
			}
			printOptionLists(cmd.OutOrStdout(), opts)
			return nil
		},
	}
}
