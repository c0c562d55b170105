package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/evcraddock/price-estimator/internal/history"
	"github.com/evcraddock/price-estimator/internal/predict"
)

// predictFlags maps form fields to their command-line flags.
var predictFlags = []struct {
	field predict.Field
	flag  string
	usage string
}{
	{predict.FieldPropertyType, "type", "property type (see 'pe options')"},
	{predict.FieldTownship, "township", "township (see 'pe options')"},
	{predict.FieldBedrooms, "bedrooms", "number of bedrooms (usually 1-10)"},
	{predict.FieldPropertySize, "size", "property size in sqft (usually 500-10000)"},
}

func newPredictCmd() *cobra.Command {
	var (
		values      = make(map[predict.Field]*string, len(predictFlags))
		interactive bool
		noHistory   bool
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Estimate the price of a property",
		Long: `Send one prediction request and print the estimate.
Fields left unset keep their defaults. With -i, every field is prompted for.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set := make(map[predict.Field]string)
			for _, pf := range predictFlags {
				if cmd.Flags().Changed(pf.flag) {
					set[pf.field] = *values[pf.field]
				}
			}
			return runPredict(cmd, set, interactive, !noHistory)
		},
	}

	for _, pf := range predictFlags {
		values[pf.field] = cmd.Flags().String(pf.flag, "", pf.usage)
	}
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "prompt for each field")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record the prediction")

	return cmd
}

func runPredict(cmd *cobra.Command, set map[predict.Field]string, interactive, record bool) error {
	opts, err := loadOptions()
	if err != nil {
		return err
	}

	var copts []predict.Option
	if record {
		repo, database, err := newHistoryRepo()
		if err != nil {
			slog.Warn("history disabled", "error", err)
		} else {
			defer closeDB(database)
			copts = append(copts, predict.WithListener(history.NewRecorder(repo, "cli").Listen))
		}
	}

	form := predict.NewController(newAPIClient(), opts, copts...)

	if err := form.SetFields(set); err != nil {
		return err
	}

	if interactive {
		if err := promptForm(newPrompter(), form); err != nil {
			return err
		}
	}

	state, err := form.Submit(cmd.Context())
	if err != nil {
		return err
	}

	return printOutcome(cmd.OutOrStdout(), form.Input(), state)
}

// predictOutput is the JSON shape of a settled submission.
type predictOutput struct {
	Input   predict.FormInput `json:"input"`
	Phase   predict.Phase     `json:"phase"`
	Result  *predict.Result   `json:"result,omitempty"`
	Message string            `json:"message,omitempty"`
}

// printOutcome writes the settled state. A failure is returned as an error
// so the process exits non-zero.
func printOutcome(w io.Writer, in predict.FormInput, state predict.State) error {
	out := predictOutput{Input: in, Phase: state.Phase()}
	var failure error

	switch s := state.(type) {
	case predict.Succeeded:
		result := s.Result
		out.Result = &result
	case predict.Failed:
		out.Message = s.Message
		failure = errors.New(s.Message)
	default:
		return fmt.Errorf("prediction did not settle (state %s)", state.Phase())
	}

	if isJSON() {
		if err := printJSON(w, out); err != nil {
			return err
		}
		return failure
	}

	if out.Result != nil {
		printResult(w, out.Result)
	}
	return failure
}
