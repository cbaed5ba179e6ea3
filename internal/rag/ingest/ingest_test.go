package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/akolanti/ContractAPI/internal/domain/commonModels"
	"github.com/akolanti/ContractAPI/internal/rag/ragErrors"
)

func TestGetDocType(t *testing.T) {
	tests := []struct {
		path     string
		expected commonModels.DocType
	}{
		{"test.pdf", commonModels.PDF},
		{"DOC.DOCX", commonModels.DOCX},
		{"notes.txt", commonModels.TXT},
		{"image.png", commonModels.ERR},
	}

	for _, tt := range tests {
		if got := getDocType(tt.path); got != tt.expected {
			t.Errorf("getDocType(%s) = %v; want %v", tt.path, got, tt.expected)
		}
	}
}

func TestJoinPages(t *testing.T) {
	pages := []rawPage{
		{Number: 1, Content: "Page one content.\n"},
		{Number: 3, Content: "Page three content."},
	}

	got := joinPages(pages, true)
	want := "--- Page 1 ---\nPage one content.\n\n--- Page 3 ---\nPage three content."
	if got != want {
		t.Errorf("joinPages = %q; want %q", got, want)
	}
	if plain := joinPages(pages, false); plain != "Page one content.\n\nPage three content." {
		t.Errorf("joinPages without markers = %q", plain)
	}
	if empty := joinPages(nil, true); empty != "" {
		t.Errorf("no pages should give empty text, got %q", empty)
	}
}

func TestExtract_PlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lease.txt")
	if err := os.WriteFile(path, []byte("The tenant shall pay rent monthly."), 0o644); err != nil {
		t.Fatal(err)
	}

	text, err := NewFileExtractor().Extract(context.Background(), commonModels.DocumentRef{Name: "lease.txt", Path: path})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !strings.Contains(text.Text, "The tenant shall pay rent monthly.") || text.PageCount != 1 {
		t.Errorf("unexpected extraction %+v", text)
	}
}

func TestExtract_Failures(t *testing.T) {
	dir := t.TempDir()
	unsupported := filepath.Join(dir, "scan.png")
	_ = os.WriteFile(unsupported, []byte{0x89, 0x50}, 0o644)

	tests := []struct {
		name string
		path string
	}{
		{"unsupported type", unsupported},
		{"missing pdf", filepath.Join(dir, "missing.pdf")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFileExtractor().Extract(context.Background(), commonModels.DocumentRef{Name: tt.name, Path: tt.path})
			if !errors.Is(err, ragErrors.ErrExtraction) {
				t.Errorf("err = %v; want ErrExtraction", err)
			}
		})
	}
}
