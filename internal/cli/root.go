package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/akolanti/ContractAPI/internal/bootstrap"
	"github.com/akolanti/ContractAPI/internal/config"
	"github.com/akolanti/ContractAPI/pkg/logger_i"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	settings *config.Settings

	// buildComponents is swapped in tests
	buildComponents = bootstrap.Build
)

var rootCmd = &cobra.Command{
	Use:   "contract-cli",
	Short: "Analyze contracts from the command line",
	Long: `contract-cli chunks and indexes a contract, routes the query to a summary,
question answering, clause search or risk scan handler, and prints the result.

Example usage:
  contract-cli analyze --doc msa.pdf --query "What is the notice period?"
  contract-cli index "contracts/**/*.pdf"
  contract-cli drop msa
  contract-cli mcp`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		settings, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		config.SetCurrent(settings)
		// stdout belongs to command output and the MCP transport
		logger_i.InitWithWriter(settings, os.Stderr)
		return nil
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "contracts.yaml", "config file")
}

func components(ctx context.Context, progress func(done, total int)) (*bootstrap.Components, error) {
	c, err := buildComponents(ctx, settings, progress)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	return c, nil
}
