package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"cosmossdk.io/log"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/coin98/baryon-farm/pkg/scenario"
)

const (
	flagLogLevel = "log-level"
	flagStrict   = "strict"
	flagIndent   = "indent"
)

// NewRootCmd returns the farmsim root command.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(farmsimEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:           "farmsim",
		Short:         "Replays nft farm scenarios on a simulated ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String(flagLogLevel, zerolog.InfoLevel.String(), "Log level (debug, info, warn, error)")
	rootCmd.AddCommand(newRunCmd(v))

	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		v.BindPFlag(f.Name, f) //nolint:errcheck
	})
	return rootCmd
}

func newRunCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [scenario-file]",
		Short: "Replay a scenario and print the report as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := zerolog.ParseLevel(v.GetString(flagLogLevel))
			if err != nil {
				return errors.Wrapf(err, "invalid log level")
			}
			logger := log.NewLogger(cmd.ErrOrStderr(), log.LevelOption(level))

			s, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			report, err := scenario.NewRunner(logger).Run(s)
			if err != nil {
				return err
			}

			var out []byte
			if v.GetBool(flagIndent) {
				out, err = json.MarshalIndent(report, "", "  ")
			} else {
				out, err = json.Marshal(report)
			}
			if err != nil {
				return errors.Wrap(err, "encoding report")
			}
			//nolint:errcheck // output errors are not actionable
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			if v.GetBool(flagStrict) && !report.Passed {
				return errors.Errorf("scenario %q did not pass", s.Name)
			}
			return nil
		},
	}
	cmd.Flags().Bool(flagStrict, false, "Fail when a step does not have the expected outcome")
	cmd.Flags().Bool(flagIndent, true, "Indent the report")
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		v.BindPFlag(f.Name, f) //nolint:errcheck
	})
	return cmd
}
