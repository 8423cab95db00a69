package service

import (
	"context"

	"github.com/aegisai/backend/internal/model"
)

// incidentRepo - DB 인터페이스
type incidentRepo interface {
	GetRecentIncidents(ctx context.Context, filter model.IncidentFilter) ([]model.Incident, error)
	GetIncidentByID(ctx context.Context, incidentID int64) (*model.Incident, error)
	UpdateIncidentStatus(ctx context.Context, incidentID int64, status string) bool
	CleanupOldIncidents(ctx context.Context, days int) int64
	GetActionsForIncident(ctx context.Context, incidentID int64) ([]model.ActionExecutionRecord, error)
	GetStatistics(ctx context.Context) (model.SystemStats, error)
	GetHourlyTrend(ctx context.Context, hours int) ([]model.HourlyTrend, error)
}

// IncidentService - incident 조회/관리 비즈니스 로직
type IncidentService struct {
	db incidentRepo
}

func NewIncidentService(db incidentRepo) *IncidentService {
	return &IncidentService{db: db}
}

// ListIncidents - 최신순 목록 조회 (선택 필터)
func (s *IncidentService) ListIncidents(ctx context.Context, filter model.IncidentFilter) ([]model.Incident, error) {
	return s.db.GetRecentIncidents(ctx, filter)
}

// GetIncident - 단건 조회, 없으면 (nil, nil)
func (s *IncidentService) GetIncident(ctx context.Context, incidentID int64) (*model.Incident, error) {
	return s.db.GetIncidentByID(ctx, incidentID)
}

// UpdateStatus - 상태 갱신, 대상 없음/실패 시 false
func (s *IncidentService) UpdateStatus(ctx context.Context, incidentID int64, status string) bool {
	return s.db.UpdateIncidentStatus(ctx, incidentID, status)
}

// Cleanup - 보존기간이 지난 incident 일괄 삭제
func (s *IncidentService) Cleanup(ctx context.Context, days int) int64 {
	return s.db.CleanupOldIncidents(ctx, days)
}

// ActionsForIncident - incident에 연결된 실행 기록 조회
func (s *IncidentService) ActionsForIncident(ctx context.Context, incidentID int64) ([]model.ActionExecutionRecord, error) {
	return s.db.GetActionsForIncident(ctx, incidentID)
}

// Statistics - 대시보드용 시스템 통계
func (s *IncidentService) Statistics(ctx context.Context) (model.SystemStats, error) {
	return s.db.GetStatistics(ctx)
}

// HourlyTrend - 최근 N시간 시간대별 incident 추이
func (s *IncidentService) HourlyTrend(ctx context.Context, hours int) ([]model.HourlyTrend, error) {
	if hours <= 0 || hours > 168 {
		hours = 24
	}
	return s.db.GetHourlyTrend(ctx, hours)
}
