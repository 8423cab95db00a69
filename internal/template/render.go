// Package template provides webhook body template rendering.
//
// 지원하는 변수 형식:
//
//	{{incident.id}}, {{incident.type}}, {{incident.severity}},
//	{{incident.confidence}}, {{incident.status}}, {{incident.reasoning}},
//	{{incident.evidence_path}}, {{incident.created_at}}
package template

import (
	"strconv"
	"strings"
	"time"

	"github.com/aegisai/backend/internal/model"
)

// IncidentData - 템플릿 렌더링에 사용할 Incident 데이터
type IncidentData struct {
	ID           int64
	Type         string
	Severity     string
	Confidence   int
	Status       string
	Reasoning    string
	EvidencePath string
	CreatedAt    time.Time
}

// IncidentDataFromModel - model.Incident에서 IncidentData 생성
func IncidentDataFromModel(inc *model.Incident) IncidentData {
	return IncidentData{
		ID:           inc.ID,
		Type:         inc.Type,
		Severity:     inc.Severity,
		Confidence:   inc.Confidence,
		Status:       inc.Status,
		Reasoning:    inc.Reasoning,
		EvidencePath: inc.EvidencePath,
		CreatedAt:    inc.CreatedAt,
	}
}

// RenderBody - webhook body 템플릿의 변수를 실제 값으로 치환
//
// incident가 nil이면 모든 변수는 빈 문자열로 치환됩니다.
func RenderBody(body string, incident *IncidentData) string {
	pairs := make([]string, 0, 16)

	if incident != nil {
		createdAt := ""
		if !incident.CreatedAt.IsZero() {
			createdAt = incident.CreatedAt.Format(time.RFC3339)
		}
		pairs = append(pairs,
			"{{incident.id}}", strconv.FormatInt(incident.ID, 10),
			"{{incident.type}}", incident.Type,
			"{{incident.severity}}", incident.Severity,
			"{{incident.confidence}}", strconv.Itoa(incident.Confidence),
			"{{incident.status}}", incident.Status,
			"{{incident.reasoning}}", incident.Reasoning,
			"{{incident.evidence_path}}", incident.EvidencePath,
			"{{incident.created_at}}", createdAt,
		)
	} else {
		pairs = append(pairs,
			"{{incident.id}}", "",
			"{{incident.type}}", "",
			"{{incident.severity}}", "",
			"{{incident.confidence}}", "",
			"{{incident.status}}", "",
			"{{incident.reasoning}}", "",
			"{{incident.evidence_path}}", "",
			"{{incident.created_at}}", "",
		)
	}

	return strings.NewReplacer(pairs...).Replace(body)
}
