package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/evcraddock/price-estimator/internal/history"
	"github.com/evcraddock/price-estimator/internal/options"
	"github.com/evcraddock/price-estimator/internal/predict"
)

// printJSON marshals v as indented JSON and writes it to w.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printResult prints a prediction result in text format.
func printResult(w io.Writer, r *predict.Result) {
	fmt.Fprintf(w, "Estimated Price: %s %s\n", r.DisplayPrice(), r.Currency)
	fmt.Fprintf(w, "  Type:      %s\n", r.Echo.PropertyType)
	fmt.Fprintf(w, "  Township:  %s\n", r.Echo.Township)
	fmt.Fprintf(w, "  Bedrooms:  %s\n", r.Echo.Bedrooms)
	fmt.Fprintf(w, "  Size:      %s\n", r.Echo.PropertySize)
}

// printOptionLists prints the configured closed sets and defaults.
func printOptionLists(w io.Writer, opts options.Options) {
	fmt.Fprintln(w, "Property types:")
	for _, v := range opts.PropertyTypes {
		fmt.Fprintf(w, "  %s\n", v)
	}
	fmt.Fprintln(w, "\nTownships:")
	for _, v := range opts.Townships {
		fmt.Fprintf(w, "  %s\n", v)
	}
	d := predict.DefaultInput(opts)
	fmt.Fprintf(w, "\nDefaults: %s, %s, %s bedrooms, %s sqft\n",
		d.PropertyType, d.Township, predict.FormatNumber(d.Bedrooms), predict.FormatNumber(d.PropertySize))
}

// printHistoryTable prints recorded predictions as a formatted table.
func printHistoryTable(w io.Writer, records []*history.Record) error {
	if len(records) == 0 {
		fmt.Fprintln(w, "No predictions recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "ID\tWHEN\tTYPE\tTOWNSHIP\tBED\tSQFT\tRESULT"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(tw, "--\t----\t----\t--------\t---\t----\t------"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, r := range records {
		result := truncate(r.Message, 40)
		if r.Outcome == history.OutcomeSucceeded && r.Price != nil {
			result = predict.FormatPrice(*r.Price) + " " + r.Currency
		}

		if _, err := fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.PropertyType, r.Township,
			formatOptional(r.Bedrooms), formatOptional(r.PropertySize), result); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Fprintf(w, "\nTotal: %d predictions\n", len(records))
	return nil
}

// formatOptional renders a stored number, or "-" when it was invalid.
func formatOptional(v *float64) string {
	if v == nil {
		return "-"
	}
	return predict.FormatNumber(*v)
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
