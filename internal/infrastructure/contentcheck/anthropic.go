// Package contentcheck backs the static_analysis and content_analysis check
// types with an LLM-based reviewer. The assessment engine treats this
// provider as optional and degrades to a neutral score when it is down.
package contentcheck

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/workintel/workintel/pkg/domain/quality"
)

const defaultModel = "claude-sonnet-4-5"

const artifactSystemPrompt = `You are a code and document reviewer. You will receive an artifact and one named check.
Score how well the artifact satisfies the check on a 0-100 scale.
Respond with ONLY the integer score, nothing else.`

const contentSystemPrompt = `You are a technical writing reviewer. You will receive a document and one named check.
Score how well the content satisfies the check on a 0-100 scale, judging completeness, clarity, and correctness of the prose.
Respond with ONLY the integer score, nothing else.`

type messagesAPI interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicProvider scores artifacts by asking Claude for a single numeric
// judgment per check.
type AnthropicProvider struct {
	messages messagesAPI
	model    string
}

var _ quality.CheckProvider = (*AnthropicProvider)(nil)

func NewAnthropicProvider(apiKey, model string) *AnthropicProvider {
	if model == "" {
		model = defaultModel
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicProvider{
		messages: &client.Messages,
		model:    model,
	}
}

func (p *AnthropicProvider) ValidateArtifact(ctx context.Context, artifact quality.Artifact, check quality.CheckConfig) (float64, error) {
	return p.score(ctx, artifactSystemPrompt, artifact, check)
}

func (p *AnthropicProvider) ValidateContent(ctx context.Context, artifact quality.Artifact, check quality.CheckConfig) (float64, error) {
	return p.score(ctx, contentSystemPrompt, artifact, check)
}

func (p *AnthropicProvider) score(ctx context.Context, systemPrompt string, artifact quality.Artifact, check quality.CheckConfig) (float64, error) {
	userPrompt := fmt.Sprintf("Check: %s\nFile: %s (%s)\n\n%s",
		check.Name, artifact.FileName, artifact.FileType, artifact.Content)

	message, err := p.messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: 16,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return 0, fmt.Errorf("anthropic api error: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return parseScore(block.Text)
		}
	}
	return 0, fmt.Errorf("no text content in anthropic response")
}

// parseScore extracts the leading integer from a model reply and clamps it
// to 0-100.
func parseScore(text string) (float64, error) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty score response")
	}
	raw := strings.TrimSuffix(fields[0], ".")
	score, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable score %q", fields[0])
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, nil
}
