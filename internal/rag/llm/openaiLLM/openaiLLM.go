package openaiLLM

import (
	"context"
	"errors"
	"time"

	"github.com/akolanti/ContractAPI/internal/config"
	"github.com/akolanti/ContractAPI/internal/customHttpClient"
	"github.com/akolanti/ContractAPI/internal/rag/llm"
	"github.com/akolanti/ContractAPI/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type llmClient struct {
	api         openai.Client
	modelName   string
	temperature float32
	timeout     time.Duration
	logger      *logger_i.Logger
}

func NewOpenAIClient(settings config.GenerationSettings, opts ...option.RequestOption) llm.Provider {
	base := []option.RequestOption{
		option.WithAPIKey(settings.APIKey),
		option.WithHTTPClient(customHttpClient.GetClient()),
	}
	return &llmClient{
		api:         openai.NewClient(append(base, opts...)...),
		modelName:   settings.Model,
		temperature: settings.Temperature,
		timeout:     settings.Timeout,
		logger:      logger_i.NewLogger("llm_openai"),
	}
}

func (c *llmClient) Generate(ctx context.Context, systemInstruction string, prompt string) (string, error) {
	return c.generate(ctx, systemInstruction, prompt, false)
}

func (c *llmClient) GenerateStructured(ctx context.Context, systemInstruction string, prompt string) (string, error) {
	return c.generate(ctx, systemInstruction, prompt, true)
}

func (c *llmClient) generate(ctx context.Context, systemInstruction string, prompt string, jsonMode bool) (string, error) {
	log := c.logger.WithTrace(ctx)
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemInstruction),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(float64(c.temperature)),
	}
	if jsonMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		}
	}

	completion, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		log.Error("OpenAI generation failed", "error", err)
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}
