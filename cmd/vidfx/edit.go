package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/keagan/vidfx/internal/config"
	"github.com/keagan/vidfx/internal/logging"
	"github.com/keagan/vidfx/internal/pipeline"
	"github.com/keagan/vidfx/internal/registry"
)

var editFlags struct {
	filters     []string
	effects     []string
	output      string
	maxSeconds  float64
	listFilters bool
	listEffects bool
}

var editCmd = &cobra.Command{
	Use:   "edit [input video]",
	Short: "Apply filters, then effects, to one video",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if editFlags.listFilters {
			return printNames(cmd, registry.CategoryFilter)
		}
		if editFlags.listEffects {
			return printNames(cmd, registry.CategoryEffect)
		}
		if len(args) != 1 {
			return errors.New("edit needs exactly one input video")
		}

		cfg := config.FromContext(cmd.Context())
		opts := pipeline.EditOptions{
			Input:      args[0],
			Filters:    editFlags.filters,
			Effects:    editFlags.effects,
			Output:     cfg.Edit.Output,
			MaxSeconds: cfg.Edit.MaxSeconds,
		}
		if cmd.Flags().Changed("output") {
			opts.Output = editFlags.output
		}
		if cmd.Flags().Changed("max-seconds") {
			opts.MaxSeconds = editFlags.maxSeconds
		}

		runner, err := newRunner(cmd)
		if err != nil {
			return err
		}

		bar := newProgressBar("encoding")
		opts.Progress = bar.update
		output, err := runner.EditFile(cmd.Context(), opts)
		bar.finish()
		if err != nil {
			return err
		}

		logger := logging.WithComponent("cli")
		logger.Info().Str("output", output).Msg("edit complete")
		return nil
	},
}

func init() {
	f := editCmd.Flags()
	f.StringSliceVar(&editFlags.filters, "filters", nil, "filters to apply in order (name[:key=value...])")
	f.StringSliceVar(&editFlags.effects, "effects", nil, "effects to apply in order, after filters")
	f.StringVarP(&editFlags.output, "output", "o", "", "output base name (default from config: video)")
	f.Float64Var(&editFlags.maxSeconds, "max-seconds", 0, "keep only the first N seconds of the input (0 keeps all)")
	f.BoolVar(&editFlags.listFilters, "list-filters", false, "print available filter names and exit")
	f.BoolVar(&editFlags.listEffects, "list-effects", false, "print available effect names and exit")
}
