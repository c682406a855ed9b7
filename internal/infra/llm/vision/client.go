package vision

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	apperrors "github.com/nurturemyplants/plantcare/pkg/errors"
	"github.com/nurturemyplants/plantcare/pkg/metrics"
)

// CompletionRequest describes a single one-shot model call. When ImageBase64
// is set the request is sent as a multimodal message with the image attached
// as a data URI.
type CompletionRequest struct {
	Model       string
	Prompt      string
	ImageBase64 string
	ImageMIME   string
	MaxTokens   int
	Temperature float32
}

// CompletionResult carries the raw model text plus token accounting.
type CompletionResult struct {
	Text  string
	Usage metrics.TokenUsage
}

// Client wraps the OpenAI-compatible chat completions API used for both the
// vision identification call and the care-plan text call.
type Client struct {
	api *openai.Client
}

// NewClient constructs a client. An empty key is tolerated: callers are
// expected to check credentials before issuing requests.
func NewClient(apiKey, baseURL string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if strings.TrimSpace(baseURL) != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &Client{api: openai.NewClientWithConfig(cfg)}
}

// Complete issues one chat completion and returns the first choice's text.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error) {
	message := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if req.ImageBase64 != "" {
		mime := req.ImageMIME
		if mime == "" {
			mime = "image/jpeg"
		}
		message.MultiContent = []openai.ChatMessagePart{
			{
				Type: openai.ChatMessagePartTypeText,
				Text: req.Prompt,
			},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL: fmt.Sprintf("data:%s;base64,%s", mime, req.ImageBase64),
				},
			},
		}
	} else {
		message.Content = req.Prompt
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    []openai.ChatCompletionMessage{message},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return CompletionResult{}, mapUpstreamError(err)
	}
	if len(resp.Choices) == 0 {
		return CompletionResult{}, apperrors.Wrap("llm_error", "model returned no choices", nil)
	}

	return CompletionResult{
		Text: resp.Choices[0].Message.Content,
		Usage: metrics.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// mapUpstreamError folds provider failures into the service error taxonomy.
// A 429 from the provider becomes a retryable rate_limited condition; the
// caller decides whether to re-invoke, the server never retries.
func mapUpstreamError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return apperrors.Wrap("rate_limited", "model provider rate limit hit, retry later", err)
		}
	}
	if strings.Contains(strings.ToLower(err.Error()), "rate_limit") {
		return apperrors.Wrap("rate_limited", "model provider rate limit hit, retry later", err)
	}
	return apperrors.Wrap("llm_error", "model request failed", err)
}
