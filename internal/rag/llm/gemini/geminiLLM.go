package gemini

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/akolanti/ContractAPI/internal/config"
	"github.com/akolanti/ContractAPI/internal/customHttpClient"
	"github.com/akolanti/ContractAPI/internal/rag/llm"
	"github.com/akolanti/ContractAPI/pkg/logger_i"
	"google.golang.org/genai"
)

type llmClient struct {
	client      *genai.Client
	modelName   string
	temperature float32
	timeout     time.Duration
}

var logger *logger_i.Logger
var geminiClient *llmClient
var once sync.Once

func GetGeminiClient(ctx context.Context, settings config.GenerationSettings) (llm.Provider, error) {
	var initErr error
	once.Do(func() {
		logger = logger_i.NewLogger("llm_gemini")
		initErr = newGeminiClient(ctx, settings)
	})

	if geminiClient == nil {
		if initErr == nil {
			initErr = errors.New("gemini client unavailable")
		}
		return nil, initErr
	}
	return &llmClient{
		client:      geminiClient.client,
		modelName:   geminiClient.modelName,
		temperature: geminiClient.temperature,
		timeout:     geminiClient.timeout,
	}, nil
}

func newGeminiClient(ctx context.Context, settings config.GenerationSettings) error {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     settings.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: customHttpClient.GetClient(),
	})
	if err != nil {
		logger.Error("Error creating Gemini client:", "error", err)
		return err
	}
	geminiClient = &llmClient{
		client:      c,
		modelName:   settings.Model,
		temperature: settings.Temperature,
		timeout:     settings.Timeout,
	}
	logger.Debug("Gemini client created", "model", settings.Model)
	logger.Info("Gemini client created")
	go closeClient(ctx)
	return nil
}

func (c *llmClient) Generate(ctx context.Context, systemInstruction string, prompt string) (string, error) {
	return c.generate(ctx, systemInstruction, prompt, "")
}

func (c *llmClient) GenerateStructured(ctx context.Context, systemInstruction string, prompt string) (string, error) {
	return c.generate(ctx, systemInstruction, prompt, "application/json")
}

func (c *llmClient) generate(ctx context.Context, systemInstruction string, prompt string, mimeType string) (string, error) {
	log := logger.WithTrace(ctx)
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr(c.temperature),
		ResponseMIMEType:  mimeType,
	}

	result, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(prompt), contentConfig)
	if err != nil {
		log.Error("Gemini generation failed", "error", err)
		return "", err
	}
	return result.Text(), nil
}

func closeClient(ctx context.Context) {
	<-ctx.Done()
	logger.Info("Closing Gemini client")
}
