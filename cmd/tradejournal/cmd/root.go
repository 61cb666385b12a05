package cmd

import (
	"fmt"

	"github.com/rustyeddy/tradejournal/analysis"
	"github.com/rustyeddy/tradejournal/app"
	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/metrics"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tradejournal",
	Short: "A trading journal with performance stats and AI trade review",
	Long: `Tradejournal records closed trades and reports on them.

It provides tools for:
  - Logging trades with entry model, outcome and R:R
  - Filtering history by date range or month
  - Win rate, net R and per-model performance
  - AI critique of a trade from its chart screenshot
  - Import and export of the journal snapshot

Complete documentation is available at https://github.com/rustyeddy/tradejournal`,
	SilenceUsage: true,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if !showMetrics {
			return nil
		}
		return metrics.WriteText(cmd.ErrOrStderr())
	},
}

var (
	cfgFile     string
	dbPath      string
	showMetrics bool
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON, default settings when empty)")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "SQLite journal DB, overrides the config")
	rootCmd.PersistentFlags().BoolVar(&showMetrics, "metrics", false, "dump metrics to stderr on exit")
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		var err error
		if cfg, err = config.LoadFromFile(cfgFile); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	if dbPath != "" {
		cfg.Journal.Type = "sqlite"
		cfg.Journal.DBPath = dbPath
	}
	return cfg, nil
}

// openSession loads the journal described by the flags and config. The
// caller must Close the session.
func openSession() (*app.Session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	store, err := cfg.OpenStore()
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	var reviewer *analysis.Service
	if cfg.Analysis.Enabled {
		client := analysis.NewGeminiClient(cfg.APIKey(),
			analysis.WithModel(cfg.Analysis.Model),
			analysis.WithEndpoint(cfg.Analysis.Endpoint),
		)
		reviewer = analysis.NewService(client, analysis.WithTimeout(cfg.Timeout()))
	}
	return app.Open(store, reviewer, app.WithLocation(loc)), nil
}

func warnf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.ErrOrStderr(), "warning: "+format+"\n", args...)
}
