// Package cli defines the cobra command tree for price-estimator.
package cli

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/evcraddock/price-estimator/internal/client"
	"github.com/evcraddock/price-estimator/internal/db"
	"github.com/evcraddock/price-estimator/internal/history"
	"github.com/evcraddock/price-estimator/internal/logging"
	"github.com/evcraddock/price-estimator/internal/options"
)

var (
	flagFormat  string
	flagDB      string
	flagOptions string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pe",
		Short:         "Estimate property prices",
		Long:          "A front end for the property price prediction service. Run predictions from the command line or serve the prediction form as a web page.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env file is fine; variables already set win.
			_ = godotenv.Load()
			logging.Setup(os.Getenv("PE_DEV") != "")
			if flagFormat != "text" && flagFormat != "json" {
				return fmt.Errorf("invalid --format %q (must be text or json)", flagFormat)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite history database path (default: ~/.price-estimator/predictions.db)")
	root.PersistentFlags().StringVar(&flagOptions, "options", "", "YAML file with property types and townships")

	root.AddCommand(
		newPredictCmd(),
		newServeCmd(),
		newStatusCmd(),
		newOptionsCmd(),
		newHistoryCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return root
}

// openDB opens the SQLite history database using the --db flag or default path.
func openDB() (*sql.DB, error) {
	path, err := getDBPath()
	if err != nil {
		return nil, err
	}
	return db.Open(path)
}

// newHistoryRepo opens the database and returns a history repository.
// The caller must close the returned database.
func newHistoryRepo() (*history.Repository, *sql.DB, error) {
	database, err := openDB()
	if err != nil {
		return nil, nil, err
	}
	return history.NewRepository(database), database, nil
}

// newAPIClient creates an HTTP client for the prediction backend.
func newAPIClient() *client.Client {
	return client.New(getServerURL())
}

// loadOptions returns the configured option lists.
func loadOptions() (options.Options, error) {
	path := getOptionsPath()
	if path == "" {
		return options.Default(), nil
	}
	opts, err := options.Load(path)
	if err != nil {
		return options.Options{}, err
	}
	slog.Debug("loaded options", "path", path,
		"property_types", len(opts.PropertyTypes), "townships", len(opts.Townships))
	return opts, nil
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// closeDB closes the database, logging any error to stderr.
func closeDB(database *sql.DB) {
	if err := database.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing database: %v\n", err)
	}
}
