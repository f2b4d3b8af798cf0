package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"headliner/internal/templates"
)

var version = "dev"

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print headliner version and builtin template count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := templates.Builtin()
			if err != nil {
				return fmt.Errorf("loading builtin templates: %w", err)
			}
			cmd.Printf("headliner %s (%d builtin templates)\n", version, len(set))
			return nil
		},
	}
}
