// Package gemini wraps the Gemini API as a content generation provider.
// Callers describe the shape they want back; the adapter hands back the raw
// serialized value and leaves decoding and validation to them.
package gemini

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ErrGeneration reports that the provider failed to produce usable content:
// unreachable, empty response, or output that callers could not decode.
var ErrGeneration = errors.New("content generation failed")

const DefaultModel = "gemini-2.5-flash"

type Client struct {
	client *genai.Client
	model  string
}

func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	if model == "" {
		model = DefaultModel
	}
	return &Client{
		client: client,
		model:  model,
	}, nil
}

func (c *Client) Close() {
	c.client.Close()
}

// Generate returns the model's free-text reply to prompt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return firstText(resp)
}

// GenerateStructured returns a JSON value serialized to match shape. The
// shape's examples and ranges are generation hints only; the provider may
// still return something that violates them, so callers must validate what
// they decode.
func (c *Client) GenerateStructured(ctx context.Context, prompt string, shape Shape) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = shape.schema()

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return firstText(resp)
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: no content returned from Gemini", ErrGeneration)
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("%w: unexpected response type from Gemini", ErrGeneration)
	}
	return string(text), nil
}
