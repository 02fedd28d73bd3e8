package cli

import (
	"encoding/json"
	"fmt"

	"github.com/mobile-next/fingers/config"
	"github.com/mobile-next/fingers/utils"
	"github.com/spf13/cobra"
)

const version = "dev"

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "fingers",
	Short: "Multi-touch finger and hand tracking",
	Long:  `Tracks multi-touch input as persistent fingers and per-arity hands, replaying recordings or serving live sessions over JSON-RPC.`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,
}

func initConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	if err := utils.SetLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("invalid log level in %s: %w", cfg.Source, err)
	}
	if err := utils.SetFormat(cfg.Log.Format); err != nil {
		return err
	}

	// --verbose wins over the configured level
	if verbose {
		utils.SetVerbose(true)
	}

	utils.Verbose("Using configuration from %s", cfg.Source)
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "path to the ini configuration file")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// printJson is a helper function to print JSON responses
func printJson(data interface{}) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		utils.Error("failed to encode response: %v", err)
		return
	}
	fmt.Println(string(jsonData))
}
