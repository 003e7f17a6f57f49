package sentiment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.0-flash"

const geminiInstruction = `You label the sentiment of customer notes.
Answer with exactly one word: positive, negative or neutral.`

// Gemini classifies text by asking a Gemini model for a one-word label.
type Gemini struct {
	client        *genai.Client
	model         string
	maxTextLength int
}

// NewGemini creates a Gemini classifier. maxTextLength bounds the runes sent per
// text; 0 sends the whole text.
func NewGemini(ctx context.Context, apiKey, model string, maxTextLength int) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Gemini{client: client, model: model, maxTextLength: maxTextLength}, nil
}

// Name identifies the strategy in logs and reports.
func (g *Gemini) Name() string { return "gemini" }

// Classify asks the model for a one-word label at temperature 0.
func (g *Gemini) Classify(ctx context.Context, text string) (Label, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(Truncate(text, g.maxTextLength)),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(geminiInstruction, genai.RoleUser),
			Temperature:       genai.Ptr[float32](0),
			MaxOutputTokens:   5,
		},
	)
	if err != nil {
		return Neutral, fmt.Errorf("gemini generate: %w", err)
	}
	return labelFromReply(resp.Text())
}

// labelFromReply reads the first word of a model answer.
func labelFromReply(reply string) (Label, error) {
	fields := strings.FieldsFunc(reply, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
	})
	if len(fields) == 0 {
		return Neutral, errors.New("gemini returned an empty answer")
	}
	return ParseLabel(fields[0]), nil
}
