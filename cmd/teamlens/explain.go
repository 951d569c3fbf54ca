package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teamlens/teamlens/internal/ai"
	"github.com/teamlens/teamlens/internal/types"
)

var (
	explainLevel string
	explainID    string
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Generate an AI narrative digest of the latest snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		level := string(types.ParseSnapshotLevel(explainLevel))
		snap, err := store.GetLatestSnapshot(ctx, level, explainID)
		if err != nil {
			return err
		}
		if snap == nil {
			fmt.Fprintf(os.Stderr, "No snapshot for %s/%s. Run 'teamlens capture' first.\n", level, explainID)
			os.Exit(1)
		}

		digester, err := ai.NewDigester(cfg.AI.APIKey, cfg.AI.Model)
		if err != nil {
			return err
		}

		digest, err := digester.Digest(ctx, snap)
		if err != nil {
			return err
		}

		fmt.Println(digest)
		return nil
	},
}

func init() {
	explainCmd.Flags().StringVar(&explainLevel, "level", "org", "scope level: org, domain, or team")
	explainCmd.Flags().StringVar(&explainID, "id", "org", "scope identifier (domain name or team key)")
	rootCmd.AddCommand(explainCmd)
}
