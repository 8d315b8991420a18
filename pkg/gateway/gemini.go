package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-1.5-flash"

// GeminiClient calls the Gemini API through the google.golang.org/genai SDK
type GeminiClient struct {
	client       *genai.Client
	model        string
	systemPrompt string
}

// NewGeminiClient creates a Gemini-backed completion gateway
func NewGeminiClient(ctx context.Context, apiKey, model, systemPrompt string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiClient{
		client:       client,
		model:        model,
		systemPrompt: systemPrompt,
	}, nil
}

// Complete sends the ordered segments to Gemini and returns the answer text
func (c *GeminiClient) Complete(ctx context.Context, segments []Segment) (string, error) {
	if len(segments) == 0 {
		return "", NewError(FailureInvalidInput, "no segments provided", nil)
	}

	var parts []*genai.Part
	for _, segment := range segments {
		switch segment.Kind {
		case SegmentText:
			parts = append(parts, &genai.Part{Text: segment.Text})
		case SegmentImage:
			parts = append(parts, &genai.Part{
				InlineData: &genai.Blob{
					MIMEType: segment.MIME,
					Data:     segment.Data,
				},
			})
		default:
			return "", NewError(FailureInvalidInput, fmt.Sprintf("unsupported segment kind %q", segment.Kind), nil)
		}
	}

	config := &genai.GenerateContentConfig{}
	if c.systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: c.systemPrompt}},
			Role:  "system",
		}
	}

	contents := []*genai.Content{{Parts: parts, Role: "user"}}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", classifyGeminiError(err)
	}

	answer := strings.TrimSpace(result.Text())
	if answer == "" {
		return "", NewError(FailureUnknown, "no completions returned", nil)
	}

	return answer, nil
}

// classifyGeminiError maps SDK failures onto the gateway failure taxonomy
func classifyGeminiError(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(FailureTimeout, "gemini request timed out", err)
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusBadRequest:
			return NewError(FailureInvalidInput, "gemini rejected the request", err)
		case apiErr.Code == http.StatusRequestTimeout:
			return NewError(FailureTimeout, "gemini request timed out", err)
		case apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError:
			return NewError(FailureUnavailable, "gemini is unavailable", err)
		}
	}

	return NewError(FailureUnknown, "gemini request failed", err)
}
