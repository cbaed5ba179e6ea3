package cli

import (
	"encoding/json"
	"fmt"

	"github.com/akolanti/ContractAPI/internal/domain/analysisModel"
	"github.com/akolanti/ContractAPI/internal/domain/commonModels"
	"github.com/spf13/cobra"
)

var (
	analyzeDoc   string
	analyzeQuery string
	analyzeJSON  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze one contract with a query",
	Example: `  contract-cli analyze --doc msa.pdf --query "Give me an executive summary"
  contract-cli analyze --doc lease.docx --query "find the termination clause" --json`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeDoc, "doc", "", "path to the contract (PDF, DOCX or TXT)")
	analyzeCmd.Flags().StringVarP(&analyzeQuery, "query", "q", "", "question or instruction")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the full response as JSON")
	_ = analyzeCmd.MarkFlagRequired("doc")
	_ = analyzeCmd.MarkFlagRequired("query")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	c, err := components(cmd.Context(), nil)
	if err != nil {
		return err
	}

	res, err := c.Service.Analyze(cmd.Context(), analysisModel.AnalysisRequest{
		Document:  commonModels.DocumentRef{Name: analyzeDoc, Path: analyzeDoc},
		QueryText: analyzeQuery,
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if analyzeJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	d := res.Decision
	fmt.Fprintf(out, "Category: %s (%s, confidence %.2f)\n", d.Category, d.Source, d.Confidence)
	fmt.Fprintf(out, "Collection: %s, %d chunks\n\n", res.CollectionId, res.ChunkCount)
	fmt.Fprintln(out, res.ResponseText)
	return nil
}
