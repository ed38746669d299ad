package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/keagan/vidfx/internal/builtin"
	"github.com/keagan/vidfx/internal/config"
	"github.com/keagan/vidfx/internal/logging"
	"github.com/keagan/vidfx/internal/pipeline"
	"github.com/keagan/vidfx/internal/registry"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	ctx := context.Background()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "vidfx",
	Short:         "vidfx - video filters, effects and transitions",
	Long:          "Apply named filters and effects to a video, or merge videos with transitions and background music.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config first so the log color mode is known
		cfg, err := config.Load(cfgFile)
		if err != nil {
			logging.Init(verbose, config.ColorAuto)
			return err
		}

		logging.Init(verbose, cfg.Log.Color)

		ctx := config.WithConfig(cmd.Context(), cfg)
		cmd.SetContext(ctx)

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./vidfx.yaml or ~/.vidfx/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(configCmd)
}

// newRunner builds the operation registry and an ffmpeg-backed runner.
func newRunner(cmd *cobra.Command) (*pipeline.Runner, error) {
	reg, err := builtin.Registry()
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(log.Logger, config.FromContext(cmd.Context()), reg)
}

// printNames writes the names of a category comma-separated, in
// registration order.
func printNames(cmd *cobra.Command, category registry.Category) error {
	reg, err := builtin.Registry()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(reg.List(category), ","))
	return nil
}
