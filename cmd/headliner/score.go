package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"headliner/internal/news"
)

func scoreCmd(flags *rootFlags) *cobra.Command {
	var ef engineFlags
	var limit int
	cmd := &cobra.Command{
		Use:   "score <news.json>",
		Short: "Explain how each candidate template scores against news items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd, flags, ef, args[0], limit)
		},
	}
	ef.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most this many candidates per item")
	return cmd
}

func runScore(cmd *cobra.Command, flags *rootFlags, ef engineFlags, path string, limit int) error {
	ctx := context.Background()

	items, err := news.ReadFile(path)
	if err != nil {
		return err
	}
	eng, err := buildEngine(ctx, flags, ef)
	if err != nil {
		return err
	}
	threshold := eng.cfg.Scoring.MinMatchThreshold

	out := cmd.OutOrStdout()
	for i, item := range items {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s  %s [%s, impact %.1f]\n", item.ID, item.Headline, item.PrimaryCategory, item.ImpactScore)

		ranked := eng.pipeline.Rank(item)
		if len(ranked) == 0 {
			fmt.Fprintln(out, "  no candidate templates; a fallback event would be produced")
			continue
		}
		if limit > 0 && len(ranked) > limit {
			ranked = ranked[:limit]
		}

		tw := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
		fmt.Fprintln(tw, "  TEMPLATE\tFINAL\tENTITY\tSENTIMENT\tOFFICE\tCONTROVERSY\tRECENCY\tBONUS\tPENALTY")
		for _, c := range ranked {
			b := c.Breakdown
			marker := ""
			if c.Score < threshold {
				marker = " (below threshold)"
			}
			fmt.Fprintf(tw, "  %s%s\t%.3f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\n",
				c.Template.ID, marker, b.Final, b.Entity, b.Sentiment, b.Office, b.Controversy, b.Recency, b.KeywordBonus, b.ImpactPenalty)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
