package receipt

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const prompt = "Analyze this receipt image. Extract the items purchased. For each item, identify the name, " +
	"quantity (default to 1 if not specified), unit (kg, g, l, ml, un) and the total price for that line item. " +
	"Return ONLY a JSON object."

// GeminiScanner asks a Gemini model for a schema-constrained JSON answer.
type GeminiScanner struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiScanner(ctx context.Context, apiKey, modelName string) (*GeminiScanner, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = receiptSchema()

	return &GeminiScanner{client: client, model: model}, nil
}

func receiptSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"date":  {Type: genai.TypeString, Description: "Date of purchase YYYY-MM-DD"},
			"total": {Type: genai.TypeNumber, Description: "Total amount paid"},
			"items": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":       {Type: genai.TypeString},
						"quantity":   {Type: genai.TypeNumber},
						"unit":       {Type: genai.TypeString},
						"totalPrice": {Type: genai.TypeNumber},
					},
				},
			},
		},
	}
}

func (s *GeminiScanner) Scan(ctx context.Context, mimeType string, image []byte) (*ParsedReceipt, error) {
	resp, err := s.model.GenerateContent(ctx, genai.Blob{MIMEType: mimeType, Data: image}, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, ErrEmptyResponse
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("generated content is not text")
	}

	return Parse([]byte(text))
}

func (s *GeminiScanner) Close() error {
	return s.client.Close()
}
