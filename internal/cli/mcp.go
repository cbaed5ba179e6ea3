package cli

import (
	"github.com/akolanti/ContractAPI/internal/mcpServer"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the analyze_contract and search_clauses tools over MCP stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := components(cmd.Context(), nil)
		if err != nil {
			return err
		}
		server, err := mcpServer.NewServer(c.Service)
		if err != nil {
			return err
		}
		return server.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
