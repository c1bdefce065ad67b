// Package openai provides a Narrator implementation using OpenAI.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/ersonp/trust-core/internal/domain/ports"
	"github.com/ersonp/trust-core/internal/infrastructure/config"
)

const narrationPrompt = `You explain trust scores to non-experts. You receive a JSON document with
an entity's six dimension scores (source, temporal, channel, outcome, network, justice, each 0-100),
its composite and chitty scores, its trust level (L0 lowest to L4 highest), and derived insights and
patterns.

Write at most four plain sentences summarizing how trustworthy the entity appears and why.
Mention the strongest and weakest dimensions and any high-risk pattern. Do not invent facts that
are not in the document. Return plain text only, no markdown.`

// Client implements the Narrator interface using OpenAI.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a new OpenAI narrator client.
func NewClient(cfg config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := "gpt-4o-mini"
	if cfg.Model != "" {
		model = cfg.Model
	}

	return &Client{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}, nil
}

// Summarize returns a short plain-language summary of a score and its analysis.
func (c *Client) Summarize(ctx context.Context, req ports.NarrationRequest) (string, error) {
	if req.Score == nil {
		return "", errors.New("narration requires a score")
	}

	doc, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshaling narration request: %w", err)
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: narrationPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: string(doc),
			},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("calling OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}

	summary := cleanResponse(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", errors.New("empty summary from OpenAI")
	}
	return summary, nil
}

// cleanResponse removes markdown code fences if present.
func cleanResponse(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```text")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}

	return strings.TrimSpace(content)
}
