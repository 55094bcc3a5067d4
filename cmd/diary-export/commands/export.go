package commands

import (
	"context"
	"fmt"
	"log/slog"

	devenv "diary-export/dev/env"
	"diary-export/lib/exporter"
	"diary-export/lib/scrapers/myfitnesspal"
	"diary-export/lib/serviceutil"

	"github.com/dgraph-io/badger/v4"
	"github.com/spf13/cobra"
)

var exportFlags struct {
	user    string
	start   string
	end     string
	out     string
	noCache bool
}

func init() {
	exportCmd.Flags().StringVar(&exportFlags.user, "user", "", "The user whose diary is exported, defaults to analyzed_user in the config.")
	exportCmd.Flags().StringVar(&exportFlags.start, "start", "", "The first day to export (YYYY-MM-DD), defaults to today.")
	exportCmd.Flags().StringVar(&exportFlags.end, "end", "", "The last day to export (YYYY-MM-DD), defaults to today.")
	exportCmd.Flags().StringVar(&exportFlags.out, "out", "", "The csv file to write.")
	exportCmd.Flags().BoolVar(&exportFlags.noCache, "no-cache", false, "Always fetch diary reports from the site.")
	exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}

func openCache(cfg CacheConfig) (*badger.DB, error) {
	if cfg.Disabled || exportFlags.noCache {
		return nil, nil
	}
	path := cfg.Path
	if path == "" {
		path = "<dev_state>/cache"
	}
	path, err := devenv.ResolvePath(path)
	if err != nil {
		return nil, err
	}
	return myfitnesspal.OpenCache(path)
}

func createClient(ctx context.Context, cfg Config, cache *badger.DB) (*myfitnesspal.Client, error) {
	client, err := myfitnesspal.NewClient(ctx, myfitnesspal.ClientOptions{
		BaseUrl:   cfg.BaseUrl,
		Cache:     cache,
		Selectors: cfg.Selectors,
	})
	if err != nil {
		return nil, err
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("username and password must be set in %s", configPath)
	}
	err = client.LoginUsernamePassword(ctx, cfg.Username, cfg.Password)
	if err != nil {
		return nil, fmt.Errorf("login as %s: %w", cfg.Username, err)
	}
	return client, nil
}

func exporterConfig(cfg Config, user, start, end, out string) (exporter.Config, error) {
	if user == "" {
		user = cfg.AnalyzedUser
	}
	startDate, err := parseDateFlag(start)
	if err != nil {
		return exporter.Config{}, fmt.Errorf("--start: %w", err)
	}
	endDate, err := parseDateFlag(end)
	if err != nil {
		return exporter.Config{}, fmt.Errorf("--end: %w", err)
	}
	return exporter.Config{
		AnalyzedUser: user,
		Start:        startDate,
		End:          endDate,
		OutputPath:   out,
		DateLayouts:  cfg.DateLayouts,
	}, nil
}

var exportCmd = &cobra.Command{
	Use:   "export --out <path/to/diary.csv> [--user <name>] [--start <date>] [--end <date>]",
	Short: "Logs in and exports a food diary to csv.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		cfg, err := readConfig()
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		exportCfg, err := exporterConfig(cfg, exportFlags.user, exportFlags.start, exportFlags.end, exportFlags.out)
		if err != nil {
			serviceutil.Fatal("invalid arguments", err)
		}

		cache, err := openCache(cfg.Cache)
		if err != nil {
			serviceutil.Fatal("failed to open page cache", err)
		}
		if cache != nil {
			defer cache.Close()
		}

		slog.Info("logging in", "username", cfg.Username)
		client, err := createClient(ctx, cfg, cache)
		if err != nil {
			if cache != nil {
				cache.Close()
			}
			serviceutil.Fatal("failed to create client", err)
		}

		result, err := exporter.Run(ctx, exportCfg, client)
		if err != nil {
			if cache != nil {
				cache.Close()
			}
			serviceutil.Fatal("export failed", err)
		}
		renderResult(result)
	},
}
