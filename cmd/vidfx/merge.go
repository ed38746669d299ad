package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/keagan/vidfx/internal/config"
	"github.com/keagan/vidfx/internal/logging"
	"github.com/keagan/vidfx/internal/pipeline"
	"github.com/keagan/vidfx/internal/registry"
	"github.com/keagan/vidfx/pkg/util"
)

var mergeFlags struct {
	transitions     []string
	songPath        string
	songStart       float64
	output          string
	listTransitions bool
}

var mergeCmd = &cobra.Command{
	Use:   "merge [input video] [input video]...",
	Short: "Join videos with transitions and optional background music",
	RunE: func(cmd *cobra.Command, args []string) error {
		if mergeFlags.listTransitions {
			return printNames(cmd, registry.CategoryTransition)
		}
		if len(args) < 2 {
			return errors.New("merge needs at least two input videos")
		}

		cfg := config.FromContext(cmd.Context())
		opts := pipeline.MergeOptions{
			Inputs:      args,
			Transitions: mergeFlags.transitions,
			SongPath:    mergeFlags.songPath,
			SongStart:   util.Seconds(cfg.Merge.SongStart),
			Output:      cfg.Merge.Output,
		}
		if cmd.Flags().Changed("output") {
			opts.Output = mergeFlags.output
		}
		if cmd.Flags().Changed("song-start") {
			if mergeFlags.songStart < 0 {
				return errors.New("--song-start must not be negative")
			}
			opts.SongStart = util.Seconds(mergeFlags.songStart)
		}

		runner, err := newRunner(cmd)
		if err != nil {
			return err
		}

		bar := newProgressBar("encoding")
		opts.Progress = bar.update
		output, err := runner.MergeFiles(cmd.Context(), opts)
		bar.finish()
		if err != nil {
			return err
		}

		logger := logging.WithComponent("cli")
		logger.Info().Str("output", output).Msg("merge complete")
		return nil
	},
}

func init() {
	f := mergeCmd.Flags()
	f.StringArrayVarP(&mergeFlags.transitions, "transitions", "t", nil, "transition binding name@index between clip index-1 and index (repeatable)")
	f.StringVar(&mergeFlags.songPath, "song-path", "", "background audio file")
	f.Float64Var(&mergeFlags.songStart, "song-start", 0, "seconds to skip at the start of the song")
	f.StringVarP(&mergeFlags.output, "output", "o", "", "output base name (default from config: merged)")
	f.BoolVar(&mergeFlags.listTransitions, "list-transitions", false, "print available transition names and exit")
}
