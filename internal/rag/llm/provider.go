package llm

import "context"

type Provider interface {
	// Generate returns free text for the given system instructions and prompt.
	Generate(ctx context.Context, systemInstruction string, prompt string) (string, error)
	// GenerateStructured asks the model for a JSON document. Callers still validate the output.
	GenerateStructured(ctx context.Context, systemInstruction string, prompt string) (string, error)
}
