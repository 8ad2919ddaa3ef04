package cmd

import (
	"fmt"
	"os"

	"github.com/arcanaland/bbcards/internal/config"
	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"
)

// configCmd represents the config command group
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the bbcards config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file",
	Args:  cobra.NoArgs,
	RunE:  func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = config.GetConfigFilePath()
		}
		if _, err := os.Stat(path); err == nil {
			colorize.Yellow("Config file already exists at: %s", path)
			return nil
		}

		written, err := config.InitConfig(path)
		if err != nil {
			return err
		}
		colorize.Green("Config file initialized at: %s", written)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = config.GetConfigFilePath()
		}
		fmt.Println(colorize.HiBlackString("# %s", path))
		return cfg.Encode(os.Stdout)
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
