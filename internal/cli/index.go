package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/akolanti/ContractAPI/internal/domain/commonModels"
	"github.com/akolanti/ContractAPI/internal/rag/chunker"
	"github.com/akolanti/ContractAPI/internal/rag/index"
	"github.com/akolanti/ContractAPI/internal/rag/ingest"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index <glob>...",
	Short: "Pre-build index collections for many contracts",
	Long: `Extract, chunk and embed every matching contract so later analyses reuse the
stored collection. Patterns support ** for recursive matching.

Examples:
  contract-cli index contracts/*.pdf
  contract-cli index "archive/**/*.{pdf,docx}"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

// embedProgress redraws one bar per document. Populate reports from concurrent batches.
type embedProgress struct {
	mu    sync.Mutex
	out   io.Writer
	label string
	bar   *progressbar.ProgressBar
}

func (p *embedProgress) reset(label string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.label = label
	p.bar = nil
}

func (p *embedProgress) update(done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar == nil {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.out),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowBytes(false),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetDescription("[cyan]Embedding[reset] "+p.label),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(p.out)
			}),
		)
	}
	_ = p.bar.Set(done)
}

func runIndex(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	files, err := expandPatterns(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files match %v", args)
	}
	if clashes := collectionClashes(files); len(clashes) > 0 {
		for _, c := range clashes {
			fmt.Fprintf(out, "  - %s\n", c)
		}
		return fmt.Errorf("%d collection ids are shared by several files, rename them or index them separately", len(clashes))
	}

	progress := &embedProgress{out: cmd.ErrOrStderr()}
	c, err := components(cmd.Context(), progress.update)
	if err != nil {
		return err
	}

	start := time.Now()
	var indexed, reused int
	var failures []string
	for _, path := range files {
		progress.reset(filepath.Base(path))
		res, err := indexFile(cmd, c.Index, c.Extractor, path)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		indexed++
		if res.Reused {
			reused++
		}
	}

	fmt.Fprintf(out, "\nIndexing complete in %s:\n", time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(out, "  Documents indexed: %d\n", indexed)
	fmt.Fprintf(out, "  Reused unchanged:  %d\n", reused)
	if len(failures) > 0 {
		fmt.Fprintf(out, "\nWarnings:\n")
		for _, f := range failures {
			fmt.Fprintf(out, "  - %s\n", f)
		}
		return fmt.Errorf("%d of %d documents failed", len(failures), len(files))
	}
	return nil
}

func indexFile(cmd *cobra.Command, idx *index.SemanticIndex, ex ingest.Extractor, path string) (index.PopulateResult, error) {
	ctx := cmd.Context()
	text, err := ex.Extract(ctx, commonModels.DocumentRef{Name: path, Path: path})
	if err != nil {
		return index.PopulateResult{}, err
	}
	if text == nil {
		return index.PopulateResult{}, fmt.Errorf("no text extracted")
	}
	chunks, err := chunker.Chunk(text.Text, settings.Chunking.Size, settings.Chunking.Overlap)
	if err != nil {
		return index.PopulateResult{}, err
	}
	doc, err := idx.OpenOrCreate(ctx, index.CollectionIdFor(path))
	if err != nil {
		return index.PopulateResult{}, err
	}
	return idx.Populate(ctx, doc, chunks)
}

// collectionClashes lists the collection ids more than one file maps to. The id keeps only the
// base name, so a later file would replace an earlier one.
func collectionClashes(files []string) []string {
	byId := make(map[string][]string)
	var ids []string
	for _, f := range files {
		id := index.CollectionIdFor(f)
		if _, ok := byId[id]; !ok {
			ids = append(ids, id)
		}
		byId[id] = append(byId[id], f)
	}

	var clashes []string
	for _, id := range ids {
		if paths := byId[id]; len(paths) > 1 {
			clashes = append(clashes, fmt.Sprintf("%s: %s", id, strings.Join(paths, ", ")))
		}
	}
	return clashes
}

// expandPatterns resolves the globs to a sorted, de-duplicated file list.
func expandPatterns(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}
