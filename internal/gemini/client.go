package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/2beens/fitplanner/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"
)

const apiVersion = "v1beta"

var (
	ErrAPIKeyNotSet  = errors.New("gemini api key not set")
	ErrEmptyResponse = errors.New("model returned no content")
	ErrBlocked       = errors.New("prompt blocked by the model")
)

// UpstreamError is a non 2xx answer of the generateContent endpoint.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("gemini upstream error [%d]: %s", e.StatusCode, e.Message)
}

type ClientParams struct {
	// Endpoint is the API base URL, e.g. https://generativelanguage.googleapis.com/
	Endpoint   string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

type Client struct {
	models *genai.Models
	model  string
}

func NewClient(ctx context.Context, params ClientParams) (*Client, error) {
	if params.Model == "" {
		return nil, errors.New("gemini model not set")
	}
	if params.APIKey == "" {
		return nil, ErrAPIKeyNotSet
	}

	httpClient := params.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	httpOptions := genai.HTTPOptions{APIVersion: apiVersion}
	if params.Endpoint != "" {
		endpoint := params.Endpoint
		if !strings.HasSuffix(endpoint, "/") {
			endpoint += "/"
		}
		httpOptions.BaseURL = endpoint
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      params.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  httpClient,
		HTTPOptions: httpOptions,
	})
	if err != nil {
		return nil, fmt.Errorf("new genai client: %w", err)
	}

	return &Client{
		models: client.Models,
		model:  params.Model,
	}, nil
}

// GenerateText sends a single user prompt and returns the text of the first candidate.
func (c *Client) GenerateText(ctx context.Context, prompt string) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "gemini.generatetext")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(
		attribute.String("model", c.model),
		attribute.Int("prompt-length", len(prompt)),
	)

	contents := []*genai.Content{
		{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: prompt}},
		},
	}
	resp, err := c.models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("generate content: %w", ctxErr)
		}
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", &UpstreamError{StatusCode: apiErr.Code, Message: apiErr.Message}
		}
		return "", fmt.Errorf("generate content: %w", err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		log.Warnf("gemini prompt blocked: %s", resp.PromptFeedback.BlockReason)
		return "", fmt.Errorf("%w: %s", ErrBlocked, resp.PromptFeedback.BlockReason)
	}

	text := firstCandidateText(resp)
	if text == "" {
		return "", ErrEmptyResponse
	}
	span.SetAttributes(attribute.Int("response-length", len(text)))

	return text, nil
}

func firstCandidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return ""
	}
	return candidate.Content.Parts[0].Text
}
