// Package ingest turns uploaded contract files into plain text for the chunker.
package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/akolanti/ContractAPI/internal/domain/commonModels"
	"github.com/akolanti/ContractAPI/internal/metrics"
	"github.com/akolanti/ContractAPI/internal/rag/ragErrors"
	"github.com/akolanti/ContractAPI/pkg/logger_i"
)

type rawPage struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

var logger = logger_i.NewLogger("Document Ingestion")

// Extractor is the extraction collaborator the pipeline depends on.
type Extractor interface {
	Extract(ctx context.Context, doc commonModels.DocumentRef) (*commonModels.ExtractedText, error)
}

type FileExtractor struct{}

func NewFileExtractor() *FileExtractor {
	return &FileExtractor{}
}

// Extract reads the document at doc.Path. Pages are joined with "--- Page N ---" marker lines.
// A readable document without text is returned as empty text, not an error.
func (FileExtractor) Extract(ctx context.Context, doc commonModels.DocumentRef) (*commonModels.ExtractedText, error) {
	log := logger.WithTrace(ctx)
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("text_extraction", time.Since(start)) }()

	docType := getDocType(doc.Path)
	log.Debug("Processing document", "filename", doc.Name, "path", doc.Path, "type", docType)

	pages, err := extractText(doc.Path, docType)
	if err != nil {
		log.Error("Error extracting document content", "error", err)
		return nil, fmt.Errorf("%w: %s: %w", ragErrors.ErrExtraction, doc.Name, err)
	}

	return &commonModels.ExtractedText{
		Text:      joinPages(pages, docType == commonModels.PDF),
		PageCount: len(pages),
	}, nil
}

func joinPages(pages []rawPage, withMarkers bool) string {
	var b strings.Builder
	for i, page := range pages {
		if withMarkers {
			fmt.Fprintf(&b, "--- Page %d ---\n", page.Number)
		}
		b.WriteString(strings.TrimSpace(page.Content))
		if i < len(pages)-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

func getDocType(docPath string) commonModels.DocType {
	ext := strings.ToLower(filepath.Ext(docPath))
	switch ext {
	case ".pdf":
		return commonModels.PDF
	case ".docx", ".odt", ".rtf":
		return commonModels.DOCX
	case ".txt", ".md":
		return commonModels.TXT
	default:
		return commonModels.ERR
	}
}

func extractText(path string, contentType commonModels.DocType) ([]rawPage, error) {
	switch contentType {
	case commonModels.PDF:
		return extractPDF(path)
	case commonModels.DOCX, commonModels.TXT:
		return extractdocxTxtRtf(path)
	default:
		return nil, fmt.Errorf("unsupported content type for %s", filepath.Base(path))
	}
}
