// cmd_config.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hometownhero/bannerdesk/config"
	"github.com/hometownhero/bannerdesk/database"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration and any warnings",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	shown := *cfg
	if shown.Database.DSN != "" {
		shown.Database.DSN = "(set)"
	}
	data, err := yaml.Marshal(shown)
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}

	out := cmd.OutOrStdout()
	printHeading(out, "CONFIGURATION")
	if cfg.ConfigFile != "" {
		fmt.Fprintf(out, "Config file: %s\n", cfg.ConfigFile)
	}
	if cfg.ConfigDir != "" {
		fmt.Fprintf(out, "Config dir:  %s\n", cfg.ConfigDir)
	}
	fmt.Fprintf(out, "Schema:      v%d\n\n", database.LatestSchemaVersion())
	fmt.Fprint(out, string(data))

	warnings := config.Validate(cfg)
	if len(warnings) == 0 {
		fmt.Fprintln(out, "\nNo configuration warnings.")
		return nil
	}
	fmt.Fprintln(out)
	printWarnings(out, warnings)
	return nil
}
