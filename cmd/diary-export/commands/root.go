package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"diary-export/lib/restyutil"
	"diary-export/lib/scrapers/myfitnesspal"
	"diary-export/lib/telemetry"

	"github.com/spf13/cobra"
)

var configPath string
var verbose bool

var tel telemetry.Telemetry

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json5", "The config file to read credentials and defaults from.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug messages and dump http messages to <dev_state>/resty.")
}

var rootCmd = &cobra.Command{
	Use:           "diary-export",
	Short:         "diary-export exports a MyFitnessPal food diary to csv and summarizes it.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(verbose)

		var err error
		tel, err = telemetry.SetupFromEnv(cmd.Context(), "diary-export")
		if err != nil {
			return fmt.Errorf("setup telemetry: %w", err)
		}
		if tel.Enabled() {
			telemetry.InstrumentPerfStats(cmd.Context(), time.Second*15)
		}

		if verbose {
			out, err := restyutil.NewFilesystemOutput("<dev_state>/resty/myfitnesspal")
			if err != nil {
				slog.Warn("failed to create http message output", "err", err)
				return nil
			}
			myfitnesspal.SetRestyInstrumentOutput(out)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		err := tel.Shutdown(ctx)
		if err != nil {
			slog.Warn("failed to flush telemetry", "err", err)
		}
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
