package diagnosis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/example/repair-dispatch/internal/models"
)

const defaultModelID = "gemini-2.5-flash"

// GeminiClient implements Client against the Gemini API with a constrained
// JSON response schema so the reply unmarshals straight into a Diagnosis.
type GeminiClient struct {
	client  *genai.Client
	modelID string
}

func NewGeminiClient(ctx context.Context, apiKey, modelID string) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("diagnosis: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = defaultModelID
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("diagnosis: create gemini client: %w", err)
	}
	return &GeminiClient{client: client, modelID: modelID}, nil
}

func jobTicketSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"problem_summary": {
				Type:        genai.TypeString,
				Description: "A concise, one-sentence summary of the issue.",
			},
			"likely_cause": {
				Type:        genai.TypeString,
				Description: "A detailed explanation of the probable root cause of the problem, written for a technician.",
			},
			"required_parts": {
				Type:        genai.TypeArray,
				Description: "Specific parts, materials, or tools needed for the repair, each with an estimated price in dollars.",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":            {Type: genai.TypeString},
						"estimated_price": {Type: genai.TypeNumber},
					},
					Required: []string{"name", "estimated_price"},
				},
			},
			"estimated_labor_hours": {
				Type:        genai.TypeNumber,
				Description: "Estimated hours of on-site labor for a qualified technician.",
			},
		},
		Required: []string{"problem_summary", "likely_cause", "required_parts", "estimated_labor_hours"},
	}
}

func (c *GeminiClient) Diagnose(ctx context.Context, category, description string, image *Image) (models.Diagnosis, error) {
	model := c.client.GenerativeModel(c.modelID)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = jobTicketSchema()

	prompt := fmt.Sprintf(`You are "Repair Guru", an expert AI diagnostic assistant for home and appliance repair. Analyze the user's problem description and/or image to create a detailed and precise job ticket for a service technician.

The user has selected the category: %q.
The user's description is: %q.

Diagnose the problem and fill the response schema. Analyze any provided image for model numbers, signs of wear, leaks, cracks, or any other visual clues. If the information is insufficient, make a reasonable and common assumption based on the category.`, category, description)

	parts := []genai.Part{genai.Text(prompt)}
	if image != nil {
		parts = append(parts, genai.Blob{MIMEType: image.MIMEType, Data: image.Data})
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return models.Diagnosis{}, fmt.Errorf("diagnosis: gemini call: %w", err)
	}
	text, err := responseText(resp)
	if err != nil {
		return models.Diagnosis{}, err
	}

	var d models.Diagnosis
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &d); err != nil {
		return models.Diagnosis{}, fmt.Errorf("diagnosis: decode response: %w", err)
	}
	return d, nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("diagnosis: empty gemini response")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if b.Len() == 0 {
		return "", errors.New("diagnosis: no text in gemini response")
	}
	return b.String(), nil
}
