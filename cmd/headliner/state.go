package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"headliner/internal/config"
	"headliner/internal/gamestate"
)

func stateCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Manage stored game-state snapshots",
	}
	cmd.AddCommand(stateSetCmd(flags))
	cmd.AddCommand(stateShowCmd(flags))
	cmd.AddCommand(stateListCmd(flags))
	cmd.AddCommand(stateDeleteCmd(flags))
	return cmd
}

func stateSetCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "set <snapshot.yaml>",
		Short: "Store a snapshot file under its player_id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			snap, err := gamestate.LoadSnapshot(args[0])
			if err != nil {
				return err
			}
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			db, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close(ctx)

			if err := db.SaveSnapshot(ctx, snap); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored snapshot for %s (turn %d).\n", snap.PlayerID, snap.Turn)
			return nil
		},
	}
}

func stateShowCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <player-id>",
		Short: "Print a stored snapshot as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			db, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close(ctx)

			snap, err := db.LoadSnapshot(ctx, args[0])
			if err != nil {
				return err
			}
			if snap == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "No snapshot stored for %q.\n", args[0])
				return nil
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(snap)
		},
	}
}

func stateListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			db, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close(ctx)

			summaries, err := db.ListSnapshots(ctx)
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No snapshots stored.")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
			fmt.Fprintln(tw, "PLAYER\tNAME\tTITLE\tTIER\tTURN\tUPDATED")
			for _, s := range summaries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n", s.PlayerID, s.Name, s.Title, s.Tier, s.Turn, s.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}
}

func stateDeleteCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <player-id>",
		Short: "Remove a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			db, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close(ctx)

			deleted, err := db.DeleteSnapshot(ctx, args[0])
			if err != nil {
				return err
			}
			if !deleted {
				return fmt.Errorf("no snapshot stored for %q", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted snapshot for %s.\n", args[0])
			return nil
		},
	}
}
