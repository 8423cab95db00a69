package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/aegisai/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres - incident 저장소
//
// 영속성 실패는 예외 대신 센티널 값으로 돌려줍니다
// (SaveIncident/SaveAction → -1, UpdateIncidentStatus → false).
// 파이프라인은 이를 치명적이지 않은 실패로 취급하되 크게 로그를 남깁니다.
type Postgres struct {
	Pool *pgxpool.Pool
}

// EnsureIncidentSchema - incidents / actions / evidence_metadata 테이블 생성
func (db *Postgres) EnsureIncidentSchema(ctx context.Context) error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS incidents (
			id BIGSERIAL PRIMARY KEY,
			incident_type TEXT NOT NULL DEFAULT 'unknown',
			severity TEXT NOT NULL DEFAULT 'low',
			confidence INT NOT NULL DEFAULT 0,
			reasoning TEXT NOT NULL DEFAULT '',
			subjects JSONB NOT NULL DEFAULT '[]',
			recommended_actions JSONB NOT NULL DEFAULT '[]',
			evidence_path TEXT NOT NULL DEFAULT '',
			response_plan JSONB NOT NULL DEFAULT '[]',
			status TEXT NOT NULL DEFAULT 'active',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
		`
		CREATE TABLE IF NOT EXISTS actions (
			id BIGSERIAL PRIMARY KEY,
			incident_id BIGINT REFERENCES incidents(id) ON DELETE CASCADE,
			action_type TEXT NOT NULL,
			action_data JSONB NOT NULL DEFAULT '{}',
			priority TEXT NOT NULL DEFAULT 'medium',
			status TEXT NOT NULL DEFAULT 'completed',
			error TEXT NOT NULL DEFAULT '',
			executed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
		`
		CREATE TABLE IF NOT EXISTS evidence_metadata (
			id BIGSERIAL PRIMARY KEY,
			incident_id BIGINT REFERENCES incidents(id) ON DELETE CASCADE,
			file_path TEXT NOT NULL,
			file_type TEXT NOT NULL DEFAULT '',
			file_size BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
		`CREATE INDEX IF NOT EXISTS idx_incidents_created ON incidents(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_incidents_severity ON incidents(severity)`,
		`CREATE INDEX IF NOT EXISTS idx_incidents_status ON incidents(status)`,
		`CREATE INDEX IF NOT EXISTS idx_actions_incident ON actions(incident_id)`,
	}

	for _, query := range queries {
		if _, err := db.Pool.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to ensure incident schema: %w", err)
		}
	}
	return nil
}

// ============================================================================
// Incident 조작
// ============================================================================

// SaveIncident - incident 1건 삽입, 실패 시 -1
func (db *Postgres) SaveIncident(ctx context.Context, incident *model.Incident) int64 {
	subjects, err := json.Marshal(incident.Subjects)
	if err != nil {
		subjects = []byte("[]")
	}
	recommended, err := json.Marshal(incident.RecommendedActions)
	if err != nil {
		recommended = []byte("[]")
	}
	plan, err := json.Marshal(incident.ResponsePlan)
	if err != nil {
		plan = []byte("[]")
	}

	status := incident.Status
	if status == "" {
		status = model.StatusActive
	}

	query := `
		INSERT INTO incidents (
			incident_type, severity, confidence, reasoning,
			subjects, recommended_actions, evidence_path, response_plan, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	var id int64
	err = db.Pool.QueryRow(ctx, query,
		incident.Type,
		incident.Severity,
		incident.Confidence,
		incident.Reasoning,
		subjects,
		recommended,
		incident.EvidencePath,
		plan,
		status,
	).Scan(&id)
	if err != nil {
		log.Printf("[DB] ❌ Failed to save incident: %v", err)
		return -1
	}

	log.Printf("[DB] ✅ Saved incident #%d: %s", id, incident.Type)
	return id
}

const incidentColumns = `
	id, incident_type, severity, confidence, reasoning,
	subjects, recommended_actions, evidence_path, response_plan,
	status, created_at, updated_at`

// GetRecentIncidents - 최신순 목록 조회 (선택 필터)
func (db *Postgres) GetRecentIncidents(ctx context.Context, filter model.IncidentFilter) ([]model.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE 1=1`
	args := []any{}
	argN := 1

	if filter.Severity != "" {
		query += fmt.Sprintf(" AND severity = $%d", argN)
		args = append(args, filter.Severity)
		argN++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argN)
		args = append(args, filter.Status)
		argN++
	}
	if filter.Type != "" {
		query += fmt.Sprintf(" AND incident_type = $%d", argN)
		args = append(args, filter.Type)
		argN++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argN)
	args = append(args, limit)

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Incident{}
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, incident)
	}
	return list, rows.Err()
}

// GetIncidentByID - 단건 조회, 없으면 (nil, nil)
func (db *Postgres) GetIncidentByID(ctx context.Context, incidentID int64) (*model.Incident, error) {
	row := db.Pool.QueryRow(ctx, `SELECT `+incidentColumns+` FROM incidents WHERE id = $1`, incidentID)
	incident, err := scanIncident(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &incident, nil
}

// UpdateIncidentStatus - 상태 갱신, 대상 없음/실패 시 false
func (db *Postgres) UpdateIncidentStatus(ctx context.Context, incidentID int64, status string) bool {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE incidents
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, incidentID)
	if err != nil {
		log.Printf("[DB] ❌ Failed to update incident #%d: %v", incidentID, err)
		return false
	}

	if tag.RowsAffected() == 0 {
		return false
	}

	log.Printf("[DB] ✅ Updated incident #%d status to: %s", incidentID, status)
	return true
}

// CleanupOldIncidents - 보존기간이 지난 incident 일괄 삭제, 삭제 건수 반환
func (db *Postgres) CleanupOldIncidents(ctx context.Context, days int) int64 {
	cutoff := time.Now().AddDate(0, 0, -days)
	tag, err := db.Pool.Exec(ctx, `DELETE FROM incidents WHERE created_at < $1`, cutoff)
	if err != nil {
		log.Printf("[DB] ❌ Cleanup failed: %v", err)
		return 0
	}

	deleted := tag.RowsAffected()
	log.Printf("[DB] 🧹 Cleaned up %d incidents older than %d days", deleted, days)
	return deleted
}

// SaveEvidenceMetadata - 증거 파일 메타데이터 기록
func (db *Postgres) SaveEvidenceMetadata(ctx context.Context, incidentID int64, filePath, fileType string, fileSize int64) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO evidence_metadata (incident_id, file_path, file_type, file_size)
		VALUES ($1, $2, $3, $4)
	`, incidentID, filePath, fileType, fileSize)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIncident(row rowScanner) (model.Incident, error) {
	var incident model.Incident
	var subjects, recommended, plan []byte

	err := row.Scan(
		&incident.ID,
		&incident.Type,
		&incident.Severity,
		&incident.Confidence,
		&incident.Reasoning,
		&subjects,
		&recommended,
		&incident.EvidencePath,
		&plan,
		&incident.Status,
		&incident.CreatedAt,
		&incident.UpdatedAt,
	)
	if err != nil {
		return incident, err
	}

	if err := json.Unmarshal(subjects, &incident.Subjects); err != nil || incident.Subjects == nil {
		incident.Subjects = []string{}
	}
	if err := json.Unmarshal(recommended, &incident.RecommendedActions); err != nil || incident.RecommendedActions == nil {
		incident.RecommendedActions = []string{}
	}
	if err := json.Unmarshal(plan, &incident.ResponsePlan); err != nil || incident.ResponsePlan == nil {
		incident.ResponsePlan = model.ResponsePlan{}
	}

	return incident, nil
}
