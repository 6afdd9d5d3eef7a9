// Command unitc compiles YAML unit descriptions into binary node layouts and
// dumps compiled layouts for inspection.
//
//	unitc compile arm.yaml -o arm.arbn
//	unitc dump arm.arbn
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phanxgames/arbor/config"
	"github.com/phanxgames/arbor/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var level string
	var log *zap.Logger

	root := &cobra.Command{
		Use:           "unitc",
		Short:         "Compile and inspect arbor unit layouts",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			log, err = logging.New(config.LoggingConfig{Level: level, Format: "console"})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if log != nil {
				_ = log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&level, "log-level", "info", "log level (debug, info, warn, error)")

	logger := func() *zap.Logger {
		if log == nil {
			return zap.NewNop()
		}
		return log
	}
	root.AddCommand(
		newCompileCmd(logger),
		newDumpCmd(),
	)
	return root
}
