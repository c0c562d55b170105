package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/evcraddock/price-estimator/internal/history"
	"github.com/evcraddock/price-estimator/internal/metrics"
	"github.com/evcraddock/price-estimator/internal/predict"
	"github.com/evcraddock/price-estimator/internal/web"
)

func newServeCmd() *cobra.Command {
	var (
		port       int
		sessionTTL time.Duration
		noHistory  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI",
		Long:  "Start an HTTP server that serves the prediction form.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, port, sessionTTL, !noHistory)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "port to listen on")
	cmd.Flags().DurationVar(&sessionTTL, "session-ttl", 2*time.Hour, "how long an idle form is kept")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record predictions")

	return cmd
}

func runServe(cmd *cobra.Command, port int, sessionTTL time.Duration, record bool) error {
	opts, err := loadOptions()
	if err != nil {
		return err
	}

	cfg := web.Config{
		Predictor:  metrics.Instrument(newAPIClient()),
		Options:    opts,
		SessionTTL: sessionTTL,
	}

	if record {
		repo, database, err := newHistoryRepo()
		if err != nil {
			return fmt.Errorf("opening history: %w", err)
		}
		defer closeDB(database)
		cfg.Listeners = []predict.Listener{history.NewRecorder(repo, "web").Listen}
	}

	srv, err := web.NewServer(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("using prediction backend", "url", getServerURL())
	return srv.ListenAndServe(ctx, port)
}
