package chunker

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/akolanti/ContractAPI/internal/domain/commonModels"
)

func wordText(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%03d", i)
	}
	return strings.Join(words, " ")
}

func TestChunk_EmptyInput(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\n \t"} {
		chunks, err := Chunk(text, 100, 10)
		if err != nil {
			t.Fatalf("Chunk(%q) returned error: %v", text, err)
		}
		if chunks == nil || len(chunks) != 0 {
			t.Errorf("Chunk(%q) = %v; want empty non-nil slice", text, chunks)
		}
	}
}

func TestChunk_InvalidParams(t *testing.T) {
	tests := []struct{ size, overlap int }{
		{0, 0},
		{10, 10},
		{10, 11},
		{10, -1},
	}
	for _, tt := range tests {
		_, err := Chunk("some text", tt.size, tt.overlap)
		if !errors.Is(err, ErrInvalidChunkParams) {
			t.Errorf("Chunk(size=%d, overlap=%d) err = %v; want ErrInvalidChunkParams", tt.size, tt.overlap, err)
		}
	}
}

func TestChunk_Deterministic(t *testing.T) {
	text := "Section 1. Definitions.\n\n" + wordText(300) + "\nThe parties agree. Payment is due monthly."
	first, err := Chunk(text, 120, 20)
	if err != nil {
		t.Fatal(err)
	}
	second, _ := Chunk(text, 120, 20)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("re-chunking identical text produced a different sequence")
	}
	for i, c := range first {
		if c.Id != fmt.Sprintf("chunk_%d", i) || c.Ordinal != i {
			t.Errorf("chunk %d has id %s ordinal %d", i, c.Id, c.Ordinal)
		}
		if c.Kind != "text" {
			t.Errorf("chunk %d kind = %s", i, c.Kind)
		}
	}
}

func TestChunk_SizeBound(t *testing.T) {
	text := "Intro paragraph.\n\n" + wordText(500) + "\n\nClosing line one.\nClosing line two."
	chunks, err := Chunk(text, 50, 10)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range chunks {
		if n := utf8.RuneCountInString(c.Content); n > 50 {
			t.Errorf("%s has %d runes, limit 50: %q", c.Id, n, c.Content)
		}
	}
}

func TestChunk_OverlapCarriesTrailingWords(t *testing.T) {
	// 5 runes per word including the space, overlap 10 keeps two words
	chunks, err := Chunk(wordText(200), 50, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) < 3 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}
	if chunks[0].Content != wordText(10) {
		t.Errorf("first chunk = %q", chunks[0].Content)
	}
	if !strings.HasPrefix(chunks[1].Content, "w008 w009 w010") {
		t.Errorf("second chunk should start with the overlap, got %q", chunks[1].Content)
	}
	for i := 0; i+1 < len(chunks); i++ {
		prev := strings.Fields(chunks[i].Content)
		next := strings.Fields(chunks[i+1].Content)
		tail := strings.Join(prev[len(prev)-2:], " ")
		head := strings.Join(next[:2], " ")
		if tail != head {
			t.Errorf("boundary %d: tail %q != head %q", i, tail, head)
		}
	}
}

func TestChunk_NoOverlap(t *testing.T) {
	chunks, _ := Chunk(wordText(40), 50, 0)
	seen := map[string]bool{}
	for _, c := range chunks {
		for _, w := range strings.Fields(c.Content) {
			if seen[w] {
				t.Errorf("word %s repeated with zero overlap", w)
			}
			seen[w] = true
		}
	}
	if len(seen) != 40 {
		t.Errorf("expected all 40 words, got %d", len(seen))
	}
}

func TestChunk_ParagraphsFirst(t *testing.T) {
	text := "Para one.\n\nPara two.\n\nPara three."
	chunks, _ := Chunk(text, 12, 0)
	got := contents(chunks)
	want := []string{"Para one.", "Para two.", "Para three."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q; want %q", got, want)
	}
}

func TestChunk_RecursesIntoSentences(t *testing.T) {
	text := "Short intro.\n\nThis sentence is long enough. And this one follows it. Final bit here."
	chunks, _ := Chunk(text, 30, 0)
	got := contents(chunks)
	want := []string{"Short intro.", "This sentence is long enough.", "And this one follows it.", "Final bit here."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q; want %q", got, want)
	}
}

func TestChunk_CharacterBoundary(t *testing.T) {
	chunks, _ := Chunk("abcdefghijklmnopqrstuvwxy", 10, 0)
	got := contents(chunks)
	want := []string{"abcdefghij", "klmnopqrst", "uvwxy"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q; want %q", got, want)
	}
}

func TestChunk_PositionHints(t *testing.T) {
	t.Run("without page markers the hint is the ordinal", func(t *testing.T) {
		chunks, _ := Chunk(wordText(100), 50, 0)
		for i, c := range chunks {
			if c.PositionHint != i+1 {
				t.Errorf("chunk %d hint = %d", i, c.PositionHint)
			}
		}
	})

	t.Run("with page markers the hint stays within the page count", func(t *testing.T) {
		text := "--- Page 1 ---\n" + wordText(60) + "\n--- Page 2 ---\n" + wordText(60)
		chunks, _ := Chunk(text, 50, 0)
		if chunks[0].PositionHint != 1 {
			t.Errorf("first hint = %d", chunks[0].PositionHint)
		}
		last := chunks[len(chunks)-1].PositionHint
		if last != 2 {
			t.Errorf("last hint = %d; want 2", last)
		}
		for i := 1; i < len(chunks); i++ {
			if chunks[i].PositionHint < chunks[i-1].PositionHint {
				t.Errorf("hints not monotonic at %d", i)
			}
		}
	})
}

func contents(chunks []commonModels.Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Content
	}
	return out
}
