// Planner Agent - 대응 계획 생성
//
// 기본 경로는 Gemini 호출이고, 파싱 실패/빈 결과/호출 실패 시에는
// 심각도 기반 결정적 fallback 계획으로 전환합니다.
// 어느 경로든 출력은 반드시 검증(sanitize)을 거칩니다.

package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/aegisai/backend/internal/client"
	"github.com/aegisai/backend/internal/model"
)

type plannerModel interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	ModelName() string
}

type PlannerAgent struct {
	client plannerModel
	stats  perfStats
}

func NewPlannerAgent(genai plannerModel) *PlannerAgent {
	return &PlannerAgent{client: genai}
}

// Plan - Assessment를 우선순위가 매겨진 대응 계획으로 변환
//
// 호출자에게 에러를 올리지 않습니다. 모든 실패는 fallback으로 흡수됩니다.
func (a *PlannerAgent) Plan(ctx context.Context, assessment model.Assessment) model.ResponsePlan {
	start := time.Now()

	prompt := fmt.Sprintf(plannerPromptTemplate,
		assessment.Type, assessment.Severity, assessment.Reasoning, assessment.Confidence)

	raw, err := a.client.GenerateText(ctx, prompt)
	if err != nil {
		log.Printf("[PlannerAgent] Plan generation failed: %v", err)
		a.stats.record(time.Since(start), true)
		return a.fallbackPlan(assessment)
	}

	var steps []map[string]any
	if err := json.Unmarshal([]byte(client.CleanJSONResponse(raw)), &steps); err != nil || len(steps) == 0 {
		log.Printf("[PlannerAgent] Plan parsing failed or empty, using fallback")
		a.stats.record(time.Since(start), true)
		return a.fallbackPlan(assessment)
	}

	plan := SanitizePlan(decodeRawPlan(steps))
	log.Printf("[PlannerAgent] ✅ Generated %d-step plan", len(plan))
	a.stats.record(time.Since(start), false)
	return plan
}

// Stats - /api/agents/stats용 성능 지표
func (a *PlannerAgent) Stats() model.AgentStats {
	return a.stats.snapshot("PlannerAgent", a.client.ModelName())
}

// decodeRawPlan - 오라클 출력(맵 배열)을 타입 있는 스텝으로 변환
//
// 여기서는 변환만 하고 방어적 정규화는 SanitizePlan이 담당합니다.
func decodeRawPlan(raw []map[string]any) model.ResponsePlan {
	plan := make(model.ResponsePlan, 0, len(raw))
	for _, step := range raw {
		action, _ := step["action"].(string)
		priority, _ := step["priority"].(string)
		reasoning, _ := step["reasoning"].(string)

		stepNum := 0
		if n, ok := step["step"].(float64); ok {
			stepNum = int(n)
		}

		var params map[string]any
		if p, ok := step["parameters"].(map[string]any); ok {
			params = p
		}

		plan = append(plan, model.ActionStep{
			Step:       stepNum,
			Action:     model.Action(action),
			Priority:   model.Priority(priority),
			Parameters: params,
			Reasoning:  reasoning,
		})
	}
	return plan
}

// SanitizePlan - 신뢰할 수 없는 계획을 안전한 형태로 정규화
//
// 멱등: SanitizePlan(SanitizePlan(p)) == SanitizePlan(p).
// 입력 순서를 보존합니다 (실행 순서 결정은 executor의 몫).
func SanitizePlan(plan model.ResponsePlan) model.ResponsePlan {
	sanitized := make(model.ResponsePlan, 0, len(plan))
	for i, step := range plan {
		action, ok := model.ParseAction(string(step.Action))
		if !ok {
			log.Printf("[PlannerAgent] ⚠️ Invalid action %q replaced with %q", step.Action, model.ActionLogIncident)
		}

		params := step.Parameters
		if params == nil {
			params = map[string]any{}
		}

		stepNum := step.Step
		if stepNum <= 0 {
			stepNum = i + 1
		}

		reasoning := step.Reasoning
		if reasoning == "" {
			reasoning = "Standard security procedure"
		}

		sanitized = append(sanitized, model.ActionStep{
			Step:       stepNum,
			Action:     action,
			Priority:   model.ParsePriority(string(step.Priority)),
			Parameters: params,
			Reasoning:  reasoning,
		})
	}
	return sanitized
}

// fallbackPlan - LLM 실패 시 심각도 기반 결정적 계획 생성
//
//	low/medium:   증거 보존 + 기록
//	high:         + 즉시 알림
//	critical:     + 에스컬레이션
//	물리적 위협:   + 모니터링 (우선순위는 심각도와 무관하게 high 고정)
func (a *PlannerAgent) fallbackPlan(assessment model.Assessment) model.ResponsePlan {
	severity := assessment.Severity
	incidentType := assessment.Type
	confidence := assessment.Confidence
	highSeverity := severity == model.SeverityHigh || severity == model.SeverityCritical

	log.Printf("[PlannerAgent] Creating fallback plan for %s severity incident", severity)

	plan := model.ResponsePlan{}
	stepNum := 1

	// 1단계: 증거 보존이 항상 먼저
	evidencePriority := model.PriorityHigh
	if highSeverity {
		evidencePriority = model.PriorityImmediate
	}
	plan = append(plan, model.ActionStep{
		Step:     stepNum,
		Action:   model.ActionSaveEvidence,
		Priority: evidencePriority,
		Parameters: map[string]any{
			"incident_type": incidentType,
			"confidence":    confidence,
		},
		Reasoning: "Preserve forensic evidence for investigation",
	})
	stepNum++

	// 2단계: high/critical은 즉시 알림
	if highSeverity {
		plan = append(plan, model.ActionStep{
			Step:     stepNum,
			Action:   model.ActionSendAlert,
			Priority: model.PriorityImmediate,
			Parameters: map[string]any{
				"severity":      severity,
				"incident_type": incidentType,
			},
			Reasoning: "Immediate notification required for high-severity threat",
		})
		stepNum++
	}

	// 3단계: 항상 기록
	logPriority := model.PriorityMedium
	if highSeverity {
		logPriority = model.PriorityHigh
	}
	plan = append(plan, model.ActionStep{
		Step:     stepNum,
		Action:   model.ActionLogIncident,
		Priority: logPriority,
		Parameters: map[string]any{
			"severity":      severity,
			"incident_type": incidentType,
			"confidence":    confidence,
		},
		Reasoning: "Document incident in security log for audit trail",
	})
	stepNum++

	// 4단계: critical은 사람에게 에스컬레이션
	if severity == model.SeverityCritical {
		plan = append(plan, model.ActionStep{
			Step:     stepNum,
			Action:   model.ActionEscalate,
			Priority: model.PriorityImmediate,
			Parameters: map[string]any{
				"target":        "security_team",
				"incident_type": incidentType,
			},
			Reasoning: "Critical threat requires immediate human intervention",
		})
		stepNum++
	}

	// 5단계: 물리적 위협은 모니터링 유지
	switch incidentType {
	case "intrusion", "theft", "violence", "vandalism":
		plan = append(plan, model.ActionStep{
			Step:     stepNum,
			Action:   model.ActionMonitor,
			Priority: model.PriorityHigh,
			Parameters: map[string]any{
				"duration":      300,
				"incident_type": incidentType,
			},
			Reasoning: "Continue monitoring for threat escalation or resolution",
		})
	}

	log.Printf("[PlannerAgent] ✅ Fallback plan created with %d steps", len(plan))
	return SanitizePlan(plan)
}
