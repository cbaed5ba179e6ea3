package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dropCmd = &cobra.Command{
	Use:   "drop <collection>",
	Short: "Delete a stored index collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := components(cmd.Context(), nil)
		if err != nil {
			return err
		}
		if err := c.Service.DropCollection(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("drop %s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Dropped collection %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dropCmd)
}
