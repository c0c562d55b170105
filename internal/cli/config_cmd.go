package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change CLI configuration",
	}

	cmd.AddCommand(newConfigShowCmd(), newConfigSetServerCmd())

	return cmd
}

// configView is the effective configuration with env overrides applied.
type configView struct {
	ConfigFile  string `json:"config_file"`
	ServerURL   string `json:"server_url"`
	OptionsFile string `json:"options_file,omitempty"`
	Database    string `json:"database"`
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return err
			}
			dbPath, err := getDBPath()
			if err != nil {
				return err
			}

			view := configView{
				ConfigFile:  path,
				ServerURL:   getServerURL(),
				OptionsFile: getOptionsPath(),
				Database:    dbPath,
			}

			w := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(w, view)
			}

			optionsFile := view.OptionsFile
			if optionsFile == "" {
				optionsFile = "(built-in)"
			}
			fmt.Fprintf(w, "Config:   %s\n", view.ConfigFile)
			fmt.Fprintf(w, "Server:   %s\n", view.ServerURL)
			fmt.Fprintf(w, "Options:  %s\n", optionsFile)
			fmt.Fprintf(w, "Database: %s\n", view.Database)
			return nil
		},
	}
}

func newConfigSetServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-server <url>",
		Short: "Set the prediction backend URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := url.Parse(args[0])
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return fmt.Errorf("invalid server URL %q (expected http://host:port)", args[0])
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cfg.ServerURL = args[0]
			if err := saveConfig(cfg); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Server set to %s\n", cfg.ServerURL)
			return nil
		},
	}
}
