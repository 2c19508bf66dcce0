package utils

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type AIConfig struct {
	APIKey     string
	GenModel   string
	EmbedModel string
}

type TokenUsage struct {
	Input  int64
	Output int64
	Total  int64
}

func NewAIClient(ctx context.Context, cfg AIConfig) (*genai.Client, error) {
	return genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
}

func EmbedText(ctx context.Context, client *genai.Client, embedModel, text string) ([]float32, error) {
	m := client.EmbeddingModel(embedModel)
	resp, err := m.EmbedContent(ctx, genai.Text(text))
	if err != nil || resp == nil || resp.Embedding == nil {
		return nil, err
	}
	vec := make([]float32, len(resp.Embedding.Values))
	for i, v := range resp.Embedding.Values {
		vec[i] = float32(v)
	}
	return vec, nil
}

// VectorLiteral formats an embedding as a pgvector literal '[0.1,0.2,...]'.
func VectorLiteral(v []float32) string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = strconv.FormatFloat(float64(f), 'f', -1, 32)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func GenerateText(ctx context.Context, client *genai.Client, model string, parts ...genai.Part) (string, TokenUsage, error) {
	m := client.GenerativeModel(model)
	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return "", TokenUsage{}, err
	}
	var b strings.Builder
	var usage TokenUsage
	if resp != nil {
		for _, c := range resp.Candidates {
			if c == nil || c.Content == nil {
				continue
			}
			for _, p := range c.Content.Parts {
				if t, ok := p.(genai.Text); ok {
					b.WriteString(string(t))
				}
			}
		}
		if resp.UsageMetadata != nil {
			usage = TokenUsage{
				Input:  int64(resp.UsageMetadata.PromptTokenCount),
				Output: int64(resp.UsageMetadata.CandidatesTokenCount),
				Total:  int64(resp.UsageMetadata.TotalTokenCount),
			}
		}
	}
	return strings.TrimSpace(b.String()), usage, nil
}

// ChunkText splits long text on paragraph boundaries into pieces of at most
// size runes, falling back to a hard cut for oversized paragraphs.
func ChunkText(text string, size int) []string {
	paras := strings.Split(text, "\n\n")
	chunks := []string{}
	var cur strings.Builder
	flush := func() {
		s := strings.TrimSpace(cur.String())
		if s != "" {
			chunks = append(chunks, s)
		}
		cur.Reset()
	}
	for _, p := range paras {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		for len([]rune(p)) > size {
			r := []rune(p)
			flush()
			chunks = append(chunks, string(r[:size]))
			p = string(r[size:])
		}
		if cur.Len() > 0 && len([]rune(cur.String()))+len([]rune(p))+2 > size {
			flush()
		}
		if cur.Len() > 0 {
			cur.WriteString("\n\n")
		}
		cur.WriteString(p)
	}
	flush()
	return chunks
}
