package db

import (
	"context"
	"encoding/json"
	"log"

	"github.com/aegisai/backend/internal/model"
)

// SaveAction - 액션 실행 기록 삽입 (append-only), 실패 시 -1
func (db *Postgres) SaveAction(ctx context.Context, incidentID int64, actionType string, record model.ActionExecutionRecord) int64 {
	params, err := json.Marshal(record.Parameters)
	if err != nil {
		params = []byte("{}")
	}

	query := `
		INSERT INTO actions (incident_id, action_type, action_data, priority, status, error, executed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	err = db.Pool.QueryRow(ctx, query,
		incidentID,
		actionType,
		params,
		string(record.Priority),
		record.Status,
		record.Error,
		record.ExecutedAt,
	).Scan(&id)
	if err != nil {
		log.Printf("[DB] ❌ Failed to save action: %v", err)
		return -1
	}
	return id
}

// GetActionsForIncident - incident에 연결된 실행 기록을 실행순으로 조회
func (db *Postgres) GetActionsForIncident(ctx context.Context, incidentID int64) ([]model.ActionExecutionRecord, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, incident_id, action_type, action_data, priority, status, error, executed_at
		FROM actions
		WHERE incident_id = $1
		ORDER BY executed_at ASC
	`, incidentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []model.ActionExecutionRecord{}
	for rows.Next() {
		var record model.ActionExecutionRecord
		var actionType string
		var priority string
		var params []byte

		if err := rows.Scan(
			&record.ID,
			&record.IncidentID,
			&actionType,
			&params,
			&priority,
			&record.Status,
			&record.Error,
			&record.ExecutedAt,
		); err != nil {
			return nil, err
		}

		record.Action = model.Action(actionType)
		record.Priority = model.Priority(priority)
		if err := json.Unmarshal(params, &record.Parameters); err != nil || record.Parameters == nil {
			record.Parameters = map[string]any{}
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
