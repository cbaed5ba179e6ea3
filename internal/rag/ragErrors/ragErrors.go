// Package ragErrors holds the failure classes of the analysis pipeline.
package ragErrors

import (
	"errors"
	"fmt"

	"github.com/akolanti/ContractAPI/internal/domain/analysisModel"
)

var (
	// ErrExtraction means no text object could be produced for the document.
	ErrExtraction = errors.New("extraction failure")
	// ErrIndex covers embedding and persistence failures during populate or query.
	ErrIndex = errors.New("index failure")
	// ErrGeneration means the text generation capability failed or returned nothing.
	ErrGeneration = errors.New("generation failure")
	// ErrClassification never leaves the router; the fallback absorbs it.
	ErrClassification = errors.New("classification failure")

	ErrIndexNotReady = errors.New("index not ready")
)

// StageError records which pipeline stage aborted the request.
type StageError struct {
	Stage analysisModel.Stage
	Kind  error
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v: %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func NewStageError(stage analysisModel.Stage, kind error, err error) *StageError {
	return &StageError{Stage: stage, Kind: kind, Err: err}
}

// Generation wraps a provider failure so callers can test for ErrGeneration and still reach
// the cause.
func Generation(err error) error {
	return fmt.Errorf("%w: %w", ErrGeneration, err)
}

func Index(err error) error {
	return fmt.Errorf("%w: %w", ErrIndex, err)
}

// Retryable reports whether resubmitting the same request could succeed.
func Retryable(err error) bool {
	return errors.Is(err, ErrGeneration) || errors.Is(err, ErrIndex)
}
