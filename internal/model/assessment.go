package model

import (
	"fmt"
	"strconv"
	"strings"
)

// 심각도 레벨 (인식 불가 값은 low로 강등)
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Assessment - 프레임 1장에 대한 정규화된 분석 결과
//
// 다운스트림이 엄격한 스키마 검증을 하기 때문에
// 일곱 필드 모두 항상 존재해야 하며 null이 될 수 없습니다.
type Assessment struct {
	Incident           bool     `json:"incident"`
	Type               string   `json:"type"`
	Severity           string   `json:"severity"`
	Confidence         int      `json:"confidence"`
	Reasoning          string   `json:"reasoning"`
	Subjects           []string `json:"subjects"`
	RecommendedActions []string `json:"recommended_actions"`
}

// NormalizeAssessment - 신뢰할 수 없는 업스트림 판정을 Assessment로 정규화
//
// confidence가 threshold 미만이면 incident는 무조건 false로 강등됩니다.
// 어떤 입력이 와도 실패하지 않습니다.
func NormalizeAssessment(raw map[string]any, threshold int) Assessment {
	confidence := NormalizeConfidence(raw["confidence"])

	incident, _ := raw["incident"].(bool)
	if confidence < threshold {
		incident = false
	}

	return Assessment{
		Incident:           incident,
		Type:               normalizeString(raw["type"], "unknown"),
		Severity:           NormalizeSeverity(raw["severity"]),
		Confidence:         confidence,
		Reasoning:          normalizeString(raw["reasoning"], "No explanation provided"),
		Subjects:           NormalizeStringList(raw["subjects"]),
		RecommendedActions: NormalizeStringList(raw["recommended_actions"]),
	}
}

// DefaultAssessment - 업스트림 호출 자체가 실패했을 때의 안전한 기본값
func DefaultAssessment(reason string) Assessment {
	return Assessment{
		Incident:           false,
		Type:               "error",
		Severity:           SeverityLow,
		Confidence:         0,
		Reasoning:          reason,
		Subjects:           []string{},
		RecommendedActions: []string{},
	}
}

// NormalizeConfidence - 숫자 변환 실패 시 0, 결과는 [0,100]으로 클램프
func NormalizeConfidence(v any) int {
	n := 0
	switch val := v.(type) {
	case float64:
		n = int(val)
	case int:
		n = val
	case int64:
		n = int(val)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		n = int(parsed)
	case fmt.Stringer:
		parsed, err := strconv.ParseFloat(val.String(), 64)
		if err != nil {
			return 0
		}
		n = int(parsed)
	default:
		return 0
	}

	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// NormalizeSeverity - 소문자 변환 후 4개 레벨 외에는 low
func NormalizeSeverity(v any) string {
	s, ok := v.(string)
	if !ok {
		return SeverityLow
	}
	switch strings.ToLower(s) {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return strings.ToLower(s)
	default:
		return SeverityLow
	}
}

// NormalizeStringList - 시퀀스가 아니면 빈 슬라이스
func NormalizeStringList(v any) []string {
	switch val := v.(type) {
	case []string:
		if val == nil {
			return []string{}
		}
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			} else {
				out = append(out, fmt.Sprintf("%v", item))
			}
		}
		return out
	default:
		return []string{}
	}
}

func normalizeString(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}
