package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	verbose    bool
}

func main() {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "headliner",
		Short:         "Turn analyzed news into playable political game events",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if flags.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "headliner.yaml", "Project config file")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.AddCommand(processCmd(flags))
	root.AddCommand(scoreCmd(flags))
	root.AddCommand(templatesCmd(flags))
	root.AddCommand(validateCmd(flags))
	root.AddCommand(stateCmd(flags))
	root.AddCommand(serveCmd(flags))
	root.AddCommand(initCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
