// Vision Agent - 프레임 단위 보안 분석
//
// 처리 흐름:
//  1. base64 이미지 디코딩 (data URI prefix / 패딩 보정 포함)
//  2. 최근 프레임 이력을 temporal context로 프롬프트에 포함
//  3. Gemini 호출 후 JSON 파싱 및 정규화
//
// 어떤 실패에도 에러를 올리지 않고 안전한 기본 Assessment를 반환합니다.

package agent

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/aegisai/backend/internal/client"
	"github.com/aegisai/backend/internal/model"
)

// 직전 10개 프레임만 temporal context로 유지
const maxFrameHistory = 10

// visionModel - 테스트에서 교체 가능한 최소 인터페이스
type visionModel interface {
	AnalyzeImage(ctx context.Context, imageBytes []byte, userPrompt, systemPrompt string) (string, error)
	ModelName() string
}

// VisionAgentOptions - 명시적 설정 (기본값은 NewVisionAgent에서 채움)
type VisionAgentOptions struct {
	ConfidenceThreshold int
}

type VisionAgent struct {
	client    visionModel
	threshold int
	stats     perfStats

	// frame history는 동시 호출자 간 공유되므로 별도 뮤텍스로 직렬화
	historyMu sync.Mutex
	history   []string
}

func NewVisionAgent(genai visionModel, opts VisionAgentOptions) *VisionAgent {
	threshold := opts.ConfidenceThreshold
	if threshold <= 0 {
		threshold = 70
	}
	return &VisionAgent{
		client:    genai,
		threshold: threshold,
		history:   make([]string, 0, maxFrameHistory),
	}
}

// Process - 프레임 1장 분석
//
// 반환되는 Assessment는 항상 모든 필드가 채워진 완전한 값입니다.
func (a *VisionAgent) Process(ctx context.Context, base64Image string, frameNumber int) model.Assessment {
	start := time.Now()

	imageBytes, err := decodeBase64Image(base64Image)
	if err != nil {
		log.Printf("[VisionAgent] Image preparation failed: %v", err)
		a.stats.record(time.Since(start), true)
		return model.DefaultAssessment(fmt.Sprintf("Image Error: %v", err))
	}

	userPrompt := "Analyze the input based on the security protocol."
	if contextText := a.buildContext(); contextText != "" {
		userPrompt += "\n\nTEMPORAL CONTEXT:\n" + contextText
	}

	raw, err := a.client.AnalyzeImage(ctx, imageBytes, userPrompt, visionSystemPrompt)
	if err != nil {
		log.Printf("[VisionAgent] Vision API error: %v", err)
		a.stats.record(time.Since(start), true)
		return model.DefaultAssessment(classifyUpstreamError(err))
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(client.CleanJSONResponse(raw)), &parsed); err != nil {
		log.Printf("[VisionAgent] JSON parse error: %v", err)
		a.stats.record(time.Since(start), true)
		return model.DefaultAssessment("JSON parsing failed")
	}

	assessment := model.NormalizeAssessment(parsed, a.threshold)
	a.updateHistory(frameNumber, assessment)
	a.stats.record(time.Since(start), false)
	return assessment
}

// Stats - /api/agents/stats용 성능 지표
func (a *VisionAgent) Stats() model.AgentStats {
	return a.stats.snapshot("VisionAgent", a.client.ModelName())
}

func (a *VisionAgent) buildContext() string {
	a.historyMu.Lock()
	defer a.historyMu.Unlock()
	return strings.Join(a.history, "\n")
}

func (a *VisionAgent) updateHistory(frameNumber int, assessment model.Assessment) {
	summary := fmt.Sprintf("Frame %d: %s (%s, %d%% conf)",
		frameNumber, assessment.Type, assessment.Severity, assessment.Confidence)

	a.historyMu.Lock()
	defer a.historyMu.Unlock()
	a.history = append(a.history, summary)
	if len(a.history) > maxFrameHistory {
		a.history = a.history[len(a.history)-maxFrameHistory:]
	}
}

// decodeBase64Image - data URI prefix 제거, 패딩 보정 후 디코딩
func decodeBase64Image(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("no valid image source provided")
	}

	if idx := strings.LastIndex(s, ","); idx >= 0 {
		s = s[idx+1:]
	}

	if missing := len(s) % 4; missing != 0 {
		s += strings.Repeat("=", 4-missing)
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("base64 decode failed: %w", err)
	}
	return data, nil
}

// classifyUpstreamError - 에러 메시지 내용으로 사람이 읽을 수 있는 사유 생성
func classifyUpstreamError(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED"):
		return "API quota exceeded - try a lighter model"
	case strings.Contains(msg, "503") || strings.Contains(msg, "UNAVAILABLE"):
		return "API temporarily unavailable - retrying..."
	case strings.Contains(msg, "401") || strings.Contains(msg, "UNAUTHENTICATED"):
		return "API authentication error - check API key"
	default:
		return "API Error: " + msg
	}
}
