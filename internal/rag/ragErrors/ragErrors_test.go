package ragErrors

import (
	"context"
	"errors"
	"testing"

	"github.com/akolanti/ContractAPI/internal/domain/analysisModel"
)

func TestStageErrorUnwrap(t *testing.T) {
	cause := context.DeadlineExceeded
	err := error(NewStageError(analysisModel.StageHandled, ErrGeneration, cause))

	if !errors.Is(err, ErrGeneration) {
		t.Error("expected the failure class to match")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("expected the cause to be preserved")
	}

	var se *StageError
	if !errors.As(err, &se) || se.Stage != analysisModel.StageHandled {
		t.Errorf("errors.As gave %+v", se)
	}
}

func TestRetryable(t *testing.T) {
	if !Retryable(Generation(errors.New("503"))) {
		t.Error("generation failures are retryable")
	}
	if Retryable(ErrExtraction) {
		t.Error("extraction failures are not retryable")
	}
}
