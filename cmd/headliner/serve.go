package main

import (
	"context"

	"github.com/spf13/cobra"

	"headliner/internal/mcp"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd(flags *rootFlags) *cobra.Command {
	var ef engineFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, err := buildEngine(ctx, flags, ef)
			if err != nil {
				return err
			}
			server := mcp.NewServer(eng.pipeline, eng.registry, version)
			return server.Run(ctx, &sdk.StdioTransport{})
		},
	}
	ef.register(cmd)
	return cmd
}
