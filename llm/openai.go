package llm

import (
	"context"
	"fmt"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"go.uber.org/zap"
)

// OpenAIClient ist die produktive Client-Implementierung über die
// OpenAI Chat-Completion-API.
type OpenAIClient struct {
	client openai.Client
	model  string
	logger *zap.Logger
}

// NewOpenAIClient erstellt den Client. Der API-Key kommt aus der Config,
// nicht aus dem Prozess-Environment, damit Tests Fakes injizieren können.
func NewOpenAIClient(apiKey, model string, logger *zap.Logger) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		logger: logger,
	}
}

// Complete implementiert das Client-Interface.
//
// Nutzerinhalte werden strukturell in die User-/Assistant-Slots der API
// gelegt statt in den System-Prompt hineinformatiert. Das ist keine
// Sanitisierung: Rollen-/Problemtexte fließen wörtlich ins Prompt, eine
// Prompt-Injection-Garantie gibt es nicht.
func (o *OpenAIClient) Complete(ctx context.Context, system string, conversation []Message) (string, error) {
	chatRequestsTotal.Inc()

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.model),
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(conversation)+1),
	}
	if system != "" {
		params.Messages = append(params.Messages, openai.SystemMessage(system))
	}
	for _, m := range conversation {
		switch m.Role {
		case "assistant":
			params.Messages = append(params.Messages, openai.AssistantMessage(m.Content))
		case "system":
			params.Messages = append(params.Messages, openai.SystemMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		chatFailuresTotal.Inc()
		o.logger.Error("Chat completion request failed", zap.String("model", o.model), zap.Error(err))
		return "", err
	}
	if len(resp.Choices) == 0 {
		chatFailuresTotal.Inc()
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
