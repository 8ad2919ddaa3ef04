package cmd

import (
	"fmt"

	"github.com/arcanaland/bbcards/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	cfgFile string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "bbcards",
	Short: "Print-ready PDF sheets for party card games",
	Long: `Bigger, Blacker Cards turns plain-text lists of response (white) and
prompt (black) cards into print-ready PDF sheets with cut lines, pick
badges and an optional icon on every card.`,
	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Warnings only by default; --verbose shows every directory visited
		zc := zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/bbcards/config.toml)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	RootCmd.AddCommand(renderCmd)
	RootCmd.AddCommand(validateCmd)
	RootCmd.AddCommand(previewCmd)
	RootCmd.AddCommand(serveCmd)
	RootCmd.AddCommand(configCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}
