package commands

import (
	"diary-export/lib/exporter"
	"diary-export/lib/serviceutil"

	"github.com/spf13/cobra"
)

var extractFlags struct {
	html string
	user string
	out  string
}

func init() {
	extractCmd.Flags().StringVar(&extractFlags.html, "html", "", "A saved printable diary report.")
	extractCmd.Flags().StringVar(&extractFlags.user, "user", "", "The user the report belongs to, defaults to analyzed_user in the config.")
	extractCmd.Flags().StringVar(&extractFlags.out, "out", "", "The csv file to write.")
	extractCmd.MarkFlagRequired("html")
	extractCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract --html <path/to/report.html> --out <path/to/diary.csv> [--user <name>]",
	Short: "Exports a saved printable diary report to csv without going online.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := readConfig()
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		exportCfg, err := exporterConfig(cfg, extractFlags.user, "", "", extractFlags.out)
		if err != nil {
			serviceutil.Fatal("invalid arguments", err)
		}

		result, err := exporter.Run(cmd.Context(), exportCfg, exporter.HTMLFileSource{
			Path:      extractFlags.html,
			Selectors: cfg.Selectors,
		})
		if err != nil {
			serviceutil.Fatal("extraction failed", err)
		}
		renderResult(result)
	},
}
