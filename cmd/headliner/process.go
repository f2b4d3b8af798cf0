package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"headliner/internal/news"
)

func processCmd(flags *rootFlags) *cobra.Command {
	var ef engineFlags
	var showStats bool
	cmd := &cobra.Command{
		Use:   "process <news.json>...",
		Short: "Convert news items into game events (JSON on stdout)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, flags, ef, args, showStats)
		},
	}
	ef.register(cmd)
	cmd.Flags().BoolVar(&showStats, "stats", false, "Print pipeline statistics to stderr")
	return cmd
}

func runProcess(cmd *cobra.Command, flags *rootFlags, ef engineFlags, paths []string, showStats bool) error {
	ctx := context.Background()

	var items []news.Item
	for _, path := range paths {
		batch, err := news.ReadFile(path)
		if err != nil {
			return err
		}
		items = append(items, batch...)
	}

	eng, err := buildEngine(ctx, flags, ef)
	if err != nil {
		return err
	}

	events := eng.pipeline.ProcessBatch(items)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(events); err != nil {
		return fmt.Errorf("writing events: %w", err)
	}

	if showStats {
		stats := eng.pipeline.Stats()
		fmt.Fprintf(os.Stderr, "processed=%d succeeded=%d fallback_events=%d fallback_templates=%d mean=%s\n",
			stats.Processed, stats.Succeeded, stats.FallbackEvents, stats.FallbackTemplates, stats.MeanDuration)
		if stats.LastFailure != "" {
			fmt.Fprintf(os.Stderr, "last failure: %s\n", stats.LastFailure)
		}
	}
	return nil
}
