package googleEmbedding

import (
	"errors"
	"net/http"
	"testing"

	"github.com/akolanti/ContractAPI/pkg/logger_i"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestGetContent(t *testing.T) {
	got := getContent([]string{"a", "b"})
	if len(got) != 2 || got[1].Parts[0].Text != "b" {
		t.Errorf("unexpected contents %+v", got)
	}
}

func TestDoRetry(t *testing.T) {
	log := logger_i.NewLogger("test")
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"api rate limit", genai.APIError{Code: http.StatusTooManyRequests}, true},
		{"grpc exhausted", status.Error(codes.ResourceExhausted, "quota"), true},
		{"bad request", genai.APIError{Code: http.StatusBadRequest}, false},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := doRetry(tt.err, log); got != tt.want {
				t.Errorf("doRetry = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestDownloadAnswerWithoutDestination(t *testing.T) {
	if _, err := downloadAnswerFromClient(&genai.BatchJob{}, 1); err == nil {
		t.Error("a job without a destination must fail")
	}
}
