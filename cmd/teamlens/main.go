// teamlens syncs issue-tracker data into SQLite and computes five-pillar
// engineering health snapshots at org, domain, and team scope.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/teamlens/teamlens/internal/config"
	"github.com/teamlens/teamlens/internal/domainmap"
	"github.com/teamlens/teamlens/internal/logger"
	"github.com/teamlens/teamlens/internal/metrics"
	"github.com/teamlens/teamlens/internal/prodsource"
	"github.com/teamlens/teamlens/internal/storage"
)

var (
	cfgPath string
	dbPath  string
	debug   bool

	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "teamlens",
	Short: "Engineering health metrics from your issue tracker",
	Long: `teamlens syncs issues, projects, and engineers from Linear into a local
SQLite database and computes five-pillar health snapshots (workload,
delivery, quality, hygiene, productivity) at org, domain, and team scope.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.DBPath = dbPath
		}
		log = logger.New(cmd.Name() != "serve", debug)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// openStore opens the configured SQLite database.
func openStore(ctx context.Context) (storage.Storage, error) {
	store, err := storage.NewStorage(ctx, &storage.Config{Path: cfg.DBPath})
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", cfg.DBPath, err)
	}
	return store, nil
}

// buildEngine assembles the snapshot engine from configuration.
func buildEngine(store metrics.SnapshotStore) (*metrics.Engine, error) {
	domains, err := domainmap.Load(cfg.DomainsPath)
	if err != nil {
		return nil, err
	}

	var prod metrics.ProductivitySource
	if cfg.Productivity.URL != "" {
		prod = prodsource.NewClient(cfg.Productivity.URL, cfg.Productivity.APIKey)
	}

	engineCfg := metrics.Config{
		EngineerTeams:         cfg.Capture.EngineerTeams,
		ThroughputTarget:      cfg.Capture.ThroughputTarget,
		ProductivityTeamNames: cfg.Capture.ProductivityTeamNames,
	}
	return metrics.NewEngine(store, domains, prod, engineCfg, log), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
