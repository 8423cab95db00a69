package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/aegisai/backend/internal/config"
	"google.golang.org/genai"
)

// GenAIClient wraps the Gemini SDK for vision analysis, plan generation
// and text embedding. All prompt text is owned by the agent layer.
type GenAIClient struct {
	client         *genai.Client
	model          string
	embeddingModel string
	temperature    float32
}

func NewGenAIClient(cfg config.GeminiConfig) (*GenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, err
	}
	return &GenAIClient{
		client:         client,
		model:          cfg.Model,
		embeddingModel: cfg.EmbeddingModel,
		temperature:    float32(cfg.Temperature),
	}, nil
}

func (c *GenAIClient) ModelName() string {
	return c.model
}

// AnalyzeImage - JPEG 바이트와 프롬프트로 vision 분석 요청
//
// system instruction과 JSON 응답 MIME 타입을 고정해서 호출합니다.
func (c *GenAIClient) AnalyzeImage(ctx context.Context, imageBytes []byte, userPrompt, systemPrompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(userPrompt),
			genai.NewPartFromBytes(imageBytes, "image/jpeg"),
		}, genai.RoleUser),
	}

	res, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(c.temperature),
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return "", err
	}
	return res.Text(), nil
}

// GenerateText - planner 등 텍스트 전용 호출 (JSON 응답 고정)
func (c *GenAIClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	res, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(c.temperature),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", err
	}
	return res.Text(), nil
}

// EmbedText - incident reasoning 임베딩 (유사 incident 검색용)
func (c *GenAIClient) EmbedText(ctx context.Context, text string) ([]float32, string, error) {
	res, err := c.client.Models.EmbedContent(ctx, c.embeddingModel, genai.Text(text), nil)
	if err != nil {
		return nil, c.embeddingModel, err
	}
	if res == nil || len(res.Embeddings) == 0 || res.Embeddings[0] == nil {
		return nil, c.embeddingModel, fmt.Errorf("empty embedding result")
	}
	return res.Embeddings[0].Values, c.embeddingModel, nil
}

// CleanJSONResponse strips markdown code fences the model sometimes wraps
// around JSON output, e.g. ```json\n{...}\n```.
func CleanJSONResponse(text string) string {
	cleaned := strings.TrimSpace(text)

	if strings.HasPrefix(cleaned, "```") {
		parts := strings.Split(cleaned, "```")
		if len(parts) >= 2 {
			cleaned = parts[1]
			cleaned = strings.TrimPrefix(cleaned, "json")
		}
	}

	return strings.Trim(cleaned, "` \n\r\t")
}
