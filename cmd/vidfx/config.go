package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/keagan/vidfx/internal/config"
	"github.com/keagan/vidfx/internal/logging"
	"github.com/keagan/vidfx/pkg/util"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Config management commands",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(config.FromContext(cmd.Context()))
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to " + config.DefaultPath(),
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultPath()
		if util.FileExists(path) && !configInitForce {
			return errors.New(path + " already exists (use --force to overwrite)")
		}
		if err := config.Default().Save(path); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		logger := logging.WithComponent("cli")
		logger.Info().Str("path", path).Msg("config written")
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
