package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"dbkit/core/config"

	"github.com/spf13/cobra"
)

var forcePublish bool

// publishConfigCmd writes the default configuration file.
var publishConfigCmd = &cobra.Command{
	Use:   "publish-config [path]",
	Short: "Write the default configuration to config.yaml",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.Publish(path, forcePublish); err != nil {
			return err
		}
		if path == "" {
			path = config.FileName + ".yaml"
		}
		fmt.Printf("Configuration written to %s\n", path)
		return nil
	},
}

// configCmd groups configuration helpers.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
}

// configGetCmd prints one setting after defaults, files and environment are applied.
var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print a setting such as server.port, or a whole section",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		value := cfg.GetValue(args[0])
		if value == nil {
			return fmt.Errorf("unknown config key %q", args[0])
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	},
}

func init() {
	publishConfigCmd.Flags().BoolVar(&forcePublish, "force", false, "Overwrite an existing file")
	configCmd.AddCommand(configGetCmd)
	RootCmd.AddCommand(publishConfigCmd, configCmd)
}
