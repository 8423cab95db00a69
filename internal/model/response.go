package model

type ErrorResponse struct {
	Error string `json:"error"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type PingResponse struct {
	Message string `json:"message"`
}

type RootResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

// HealthResponse - 컴포넌트별 상태 포함 헬스체크 응답
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
	Timestamp  string            `json:"timestamp"`
}

// AnalyzeRequest - 프레임 분석 요청 (base64 인코딩 이미지)
type AnalyzeRequest struct {
	Image       string `json:"image" binding:"required"`
	FrameNumber int    `json:"frame_number"`
}

// AnalyzeResponse - Assessment에 저장된 incident id를 덧붙인 응답
type AnalyzeResponse struct {
	Assessment
	IncidentID int64 `json:"incident_id,omitempty"`
}

// SystemStats - 시스템 통계
type SystemStats struct {
	TotalIncidents    int64            `json:"total_incidents"`
	ActiveIncidents   int64            `json:"active_incidents"`
	SeverityBreakdown map[string]int64 `json:"severity_breakdown"`
	Recent24h         int64            `json:"recent_24h"`
	TopIncidentTypes  map[string]int64 `json:"top_incident_types"`
	AvgConfidence     float64          `json:"avg_confidence"`
	TotalActions      int64            `json:"total_actions"`
	ActionSuccessRate float64          `json:"action_success_rate"`
}

type StatsResponse struct {
	SystemStats
	SystemStatus string `json:"system_status"`
}

// HourlyTrend - 시간대별 incident 추이
type HourlyTrend struct {
	Hour          string  `json:"hour"`
	Count         int64   `json:"count"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// AgentStats - 에이전트별 성능 지표
type AgentStats struct {
	Agent           string  `json:"agent"`
	Model           string  `json:"model"`
	TotalCalls      int64   `json:"total_calls"`
	TotalErrors     int64   `json:"total_errors"`
	SuccessRate     float64 `json:"success_rate"`
	AvgResponseTime float64 `json:"avg_response_time"`
}

type AgentStatsResponse struct {
	VisionAgent  AgentStats `json:"vision_agent"`
	PlannerAgent AgentStats `json:"planner_agent"`
}

// UpdateStatusRequest - incident 상태 변경 요청
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdateStatusResponse struct {
	Success    bool   `json:"success"`
	IncidentID int64  `json:"incident_id"`
	Status     string `json:"status"`
}

type CleanupResponse struct {
	Success      bool  `json:"success"`
	DeletedCount int64 `json:"deleted_count"`
	Days         int   `json:"days"`
}

// LoginRequest - 운영자 로그인 요청
type LoginRequest struct {
	LoginID  string `json:"login_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}
