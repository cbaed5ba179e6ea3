package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/akolanti/ContractAPI/internal/domain/analysisModel"
	"github.com/akolanti/ContractAPI/internal/domain/commonModels"
	"github.com/akolanti/ContractAPI/internal/rag/ragErrors"
)

type mockLLM struct {
	onGenerate func(ctx context.Context, system, prompt string) (string, error)
	calls      int
	lastPrompt string
}

func (m *mockLLM) Generate(ctx context.Context, system, prompt string) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	if m.onGenerate != nil {
		return m.onGenerate(ctx, system, prompt)
	}
	return "- generated", nil
}

func (m *mockLLM) GenerateStructured(ctx context.Context, system, prompt string) (string, error) {
	return "", errors.New("not used")
}

type mockRetriever struct {
	results []analysisModel.RetrievalResult
	err     error
	lastK   int
}

func (m *mockRetriever) Query(ctx context.Context, text string, k int) ([]analysisModel.RetrievalResult, error) {
	m.lastK = k
	return m.results, m.err
}

func chunksOf(contents ...string) []commonModels.Chunk {
	out := make([]commonModels.Chunk, len(contents))
	for i, c := range contents {
		out[i] = commonModels.Chunk{Id: fmt.Sprintf("chunk_%d", i), Ordinal: i, Content: c, PositionHint: i + 1, Kind: "text"}
	}
	return out
}

func scored(score float64, id string, page int, content string) analysisModel.RetrievalResult {
	return analysisModel.RetrievalResult{Chunk: commonModels.Chunk{Id: id, PositionHint: page, Content: content}, Score: score}
}

func TestSummarize_UsesFirstTenChunks(t *testing.T) {
	contents := make([]string, 12)
	for i := range contents {
		contents[i] = fmt.Sprintf("clause-%02d", i)
	}
	m := &mockLLM{}
	out, err := NewSet(m).Summarize(context.Background(), chunksOf(contents...))
	if err != nil || out == "" {
		t.Fatalf("Summarize = %q, %v", out, err)
	}
	if !strings.Contains(m.lastPrompt, "clause-09") || strings.Contains(m.lastPrompt, "clause-10") {
		t.Errorf("prompt should hold exactly chunks 0..9: %q", m.lastPrompt)
	}
}

func TestSummarize_NoChunks(t *testing.T) {
	m := &mockLLM{}
	out, err := NewSet(m).Summarize(context.Background(), nil)
	if err != nil || out != noTextToSummarize || m.calls != 0 {
		t.Errorf("got %q, %v, %d calls", out, err, m.calls)
	}
}

func TestAnswerQuestion(t *testing.T) {
	t.Run("no results states inability without generating", func(t *testing.T) {
		m := &mockLLM{}
		r := &mockRetriever{}
		out, err := NewSet(m).AnswerQuestion(context.Background(), r, "When is payment due?")
		if err != nil || out != cannotAnswer || m.calls != 0 {
			t.Errorf("got %q, %v, %d calls", out, err, m.calls)
		}
		if r.lastK != 5 {
			t.Errorf("k = %d; want 5", r.lastK)
		}
	})

	t.Run("context is annotated with chunk ids", func(t *testing.T) {
		m := &mockLLM{onGenerate: func(ctx context.Context, system, prompt string) (string, error) {
			return "Payment is due on the 1st [chunk_4].", nil
		}}
		r := &mockRetriever{results: []analysisModel.RetrievalResult{scored(0.9, "chunk_4", 2, "Rent is due on the 1st.")}}
		out, err := NewSet(m).AnswerQuestion(context.Background(), r, "When is payment due?")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(m.lastPrompt, "[chunk_4] Rent is due on the 1st.") {
			t.Errorf("prompt missing annotated context: %q", m.lastPrompt)
		}
		if strings.Contains(out, "Sources:") {
			t.Errorf("answer already cites, no sources line expected: %q", out)
		}
	})

	t.Run("uncited answer gets a sources line", func(t *testing.T) {
		m := &mockLLM{onGenerate: func(ctx context.Context, system, prompt string) (string, error) {
			return "Payment is due on the 1st.", nil
		}}
		r := &mockRetriever{results: []analysisModel.RetrievalResult{scored(0.9, "chunk_4", 2, "x"), scored(0.7, "chunk_1", 1, "y")}}
		out, _ := NewSet(m).AnswerQuestion(context.Background(), r, "q")
		if !strings.HasSuffix(out, "Sources: [chunk_4], [chunk_1]") {
			t.Errorf("got %q", out)
		}
	})

	t.Run("retrieval failure surfaces", func(t *testing.T) {
		r := &mockRetriever{err: ragErrors.Index(errors.New("down"))}
		_, err := NewSet(&mockLLM{}).AnswerQuestion(context.Background(), r, "q")
		if !errors.Is(err, ragErrors.ErrIndex) {
			t.Errorf("err = %v", err)
		}
	})
}

func TestSearchClauses(t *testing.T) {
	t.Run("all at or below floor gives explicit no-match", func(t *testing.T) {
		r := &mockRetriever{results: []analysisModel.RetrievalResult{scored(0.3, "chunk_0", 1, "a"), scored(0.1, "chunk_1", 1, "b")}}
		out, err := SearchClauses(context.Background(), r, "termination")
		if err != nil {
			t.Fatal(err)
		}
		if out != "No clauses found matching 'termination'." {
			t.Errorf("got %q", out)
		}
		if r.lastK != 8 {
			t.Errorf("k = %d; want 8", r.lastK)
		}
	})

	t.Run("no results gives explicit no-match", func(t *testing.T) {
		out, _ := SearchClauses(context.Background(), &mockRetriever{}, "indemnity")
		if !strings.HasPrefix(out, "No clauses found") {
			t.Errorf("got %q", out)
		}
	})

	t.Run("survivors are ranked and formatted", func(t *testing.T) {
		r := &mockRetriever{results: []analysisModel.RetrievalResult{
			scored(0.82, "chunk_7", 3, "Either party may terminate."),
			scored(0.25, "chunk_2", 1, "unrelated"),
			scored(0.41, "chunk_9", 4, "Termination for cause."),
		}}
		out, _ := SearchClauses(context.Background(), r, "termination")
		for _, want := range []string{
			"**CLAUSES MATCHING 'TERMINATION'**",
			"**Match 1:** chunk_7 (Page 3)",
			"**Relevance Score:** 0.82",
			"**Content:** Either party may terminate.",
			"**Match 2:** chunk_9 (Page 4)",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
		if strings.Contains(out, "chunk_2") {
			t.Errorf("below-floor result leaked into output:\n%s", out)
		}
	})
}

func TestScanRisks(t *testing.T) {
	t.Run("no risk keywords skips generation", func(t *testing.T) {
		m := &mockLLM{}
		out, err := NewSet(m).ScanRisks(context.Background(), chunksOf("The sky is blue.", "Payment by wire."))
		if err != nil || out != noRisksFound || m.calls != 0 {
			t.Errorf("got %q, %v, %d calls", out, err, m.calls)
		}
	})

	t.Run("at most five risky chunks reach the generator", func(t *testing.T) {
		m := &mockLLM{}
		chunks := chunksOf("A Penalty applies.", "plain", "Breach of contract.", "Liability is capped.",
			"Force Majeure events.", "Warranty disclaimed.", "Damages excluded.")
		out, err := NewSet(m).ScanRisks(context.Background(), chunks)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(out, "**RISK ASSESSMENT**") {
			t.Errorf("got %q", out)
		}
		for _, id := range []string{"[chunk_0]", "[chunk_2]", "[chunk_3]", "[chunk_4]", "[chunk_5]"} {
			if !strings.Contains(m.lastPrompt, id) {
				t.Errorf("prompt missing %s", id)
			}
		}
		if strings.Contains(m.lastPrompt, "[chunk_6]") || strings.Contains(m.lastPrompt, "[chunk_1]") {
			t.Errorf("prompt has chunks beyond the limit or without keywords: %q", m.lastPrompt)
		}
	})
}

func TestGenerationFailures(t *testing.T) {
	cause := errors.New("provider down")
	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{"provider error", "", cause},
		{"empty output", "   ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockLLM{onGenerate: func(ctx context.Context, system, prompt string) (string, error) {
				return tt.reply, tt.err
			}}
			_, err := NewSet(m).Summarize(context.Background(), chunksOf("text"))
			if !errors.Is(err, ragErrors.ErrGeneration) {
				t.Errorf("err = %v; want ErrGeneration", err)
			}
			if tt.err != nil && !errors.Is(err, cause) {
				t.Error("cause not preserved")
			}
		})
	}
}

func TestHandleDispatch(t *testing.T) {
	m := &mockLLM{}
	set := NewSet(m)
	in := Input{Query: "find termination", Chunks: chunksOf("Either party may terminate."), Retriever: &mockRetriever{}}

	out, err := set.Handle(context.Background(), analysisModel.CategoryClauseSearch, in)
	if err != nil || !strings.HasPrefix(out, "No clauses found") || m.calls != 0 {
		t.Errorf("clause search: %q %v %d", out, err, m.calls)
	}
	if _, err := set.Handle(context.Background(), analysisModel.RouteCategory("other"), in); err == nil {
		t.Error("unknown category should error")
	}
}
