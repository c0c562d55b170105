package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the prediction backend",
		Long:  "Tests the connection to the prediction backend and reports whether its model is loaded.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd)
		},
	}
}

// statusOutput is the JSON shape of 'pe status'.
type statusOutput struct {
	Server      string `json:"server"`
	Reachable   bool   `json:"reachable"`
	Status      string `json:"status,omitempty"`
	ModelLoaded bool   `json:"model_loaded"`
	Service     string `json:"service,omitempty"`
	Error       string `json:"error,omitempty"`
}

func runStatus(cmd *cobra.Command) error {
	api := newAPIClient()
	out := statusOutput{Server: api.BaseURL()}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	health, err := api.Health(ctx)
	if err != nil {
		out.Error = err.Error()
	} else {
		out.Reachable = true
		out.Status = health.Status
		out.ModelLoaded = health.ModelLoaded
		out.Service = health.Service
	}

	w := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(w, out)
	}

	fmt.Fprintf(w, "Server:  %s\n", out.Server)
	switch {
	case !out.Reachable:
		fmt.Fprintf(w, "Status:  ✗ cannot reach backend (%s)\n", out.Error)
	case health.Healthy():
		fmt.Fprintf(w, "Status:  ✓ %s, model loaded\n", out.Status)
	default:
		fmt.Fprintf(w, "Status:  ✗ %s, model not loaded\n", out.Status)
	}
	if out.Service != "" {
		fmt.Fprintf(w, "Service: %s\n", out.Service)
	}

	return nil
}
