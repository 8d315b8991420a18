package gateway

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIClient calls the OpenAI chat completions API
type OpenAIClient struct {
	client       openai.Client
	model        string
	systemPrompt string
}

// NewOpenAIClient creates an OpenAI-backed completion gateway
func NewOpenAIClient(apiKey, model, systemPrompt string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = defaultOpenAIModel
	}

	return &OpenAIClient{
		client:       openai.NewClient(option.WithAPIKey(apiKey)),
		model:        model,
		systemPrompt: systemPrompt,
	}, nil
}

// Complete sends the ordered segments to OpenAI and returns the answer text
func (c *OpenAIClient) Complete(ctx context.Context, segments []Segment) (string, error) {
	if len(segments) == 0 {
		return "", NewError(FailureInvalidInput, "no segments provided", nil)
	}

	var parts []openai.ChatCompletionContentPartUnionParam
	for _, segment := range segments {
		switch segment.Kind {
		case SegmentText:
			parts = append(parts, openai.TextContentPart(segment.Text))
		case SegmentImage:
			uri := fmt.Sprintf("data:%s;base64,%s", segment.MIME, base64.StdEncoding.EncodeToString(segment.Data))
			parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL: uri,
			}))
		default:
			return "", NewError(FailureInvalidInput, fmt.Sprintf("unsupported segment kind %q", segment.Kind), nil)
		}
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if c.systemPrompt != "" {
		messages = append(messages, openai.SystemMessage(c.systemPrompt))
	}
	messages = append(messages, openai.UserMessage(parts))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", NewError(FailureUnknown, "no completions returned", nil)
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return "", NewError(FailureUnknown, "no completions returned", nil)
	}

	return answer, nil
}

// classifyOpenAIError maps SDK failures onto the gateway failure taxonomy
func classifyOpenAIError(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(FailureTimeout, "openai request timed out", err)
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusBadRequest:
			return NewError(FailureInvalidInput, "openai rejected the request", err)
		case apiErr.StatusCode == http.StatusRequestTimeout:
			return NewError(FailureTimeout, "openai request timed out", err)
		case apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= http.StatusInternalServerError:
			return NewError(FailureUnavailable, "openai is unavailable", err)
		}
	}

	return NewError(FailureUnknown, "openai request failed", err)
}
