package model

import "time"

// ============================================================================
// Incident 모델 (보안 이벤트 단위)
// ============================================================================

// Incident 상태값
//
// active에서 시작해 사람의 조치 또는 executor 부수효과로 전이됩니다.
// 종결 상태는 없으며 이후 명시적 갱신으로 언제든 덮어쓸 수 있습니다.
const (
	StatusActive     = "active"
	StatusResolved   = "resolved"
	StatusEscalated  = "escalated"
	StatusDismissed  = "dismissed"
	StatusLogged     = "logged"
	StatusMonitoring = "monitoring"
)

// IsValidStatus - 상태 갱신 API에서 허용하는 값인지 확인
func IsValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusResolved, StatusEscalated,
		StatusDismissed, StatusLogged, StatusMonitoring:
		return true
	default:
		return false
	}
}

// Incident - 영속화되는 보안 이벤트 레코드
//
// 생성 이후에는 status만 변경되며 삭제는 보존기간 일괄 정리로만 일어납니다.
type Incident struct {
	ID                 int64        `json:"id"`
	Type               string       `json:"type"`
	Severity           string       `json:"severity"`
	Confidence         int          `json:"confidence"`
	Reasoning          string       `json:"reasoning"`
	Subjects           []string     `json:"subjects"`
	RecommendedActions []string     `json:"recommended_actions"`
	EvidencePath       string       `json:"evidence_path"`
	ResponsePlan       ResponsePlan `json:"response_plan"`
	Status             string       `json:"status"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// ActionExecutionRecord - 액션 1건의 실행 기록 (append-only)
type ActionExecutionRecord struct {
	ID         int64          `json:"id,omitempty"`
	IncidentID int64          `json:"incident_id"`
	Action     Action         `json:"action"`
	Status     string         `json:"status"` // completed, failed
	Priority   Priority       `json:"priority"`
	Parameters map[string]any `json:"parameters"`
	Error      string         `json:"error,omitempty"`
	ExecutedAt time.Time      `json:"executed_at"`
}

// 실행 기록 상태값
const (
	ExecutionCompleted = "completed"
	ExecutionFailed    = "failed"
)

// IncidentFilter - 목록 조회 필터
type IncidentFilter struct {
	Limit    int
	Severity string
	Status   string
	Type     string
}

// SimilarIncident - 임베딩 거리 기반 유사 incident 조회 결과
type SimilarIncident struct {
	IncidentID int64   `json:"incident_id"`
	Type       string  `json:"type"`
	Severity   string  `json:"severity"`
	Reasoning  string  `json:"reasoning"`
	Distance   float64 `json:"distance"`
}
