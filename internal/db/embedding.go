package db

import (
	"context"
	"fmt"

	"github.com/aegisai/backend/internal/model"
	"github.com/pgvector/pgvector-go"
)

// EnsureEmbeddingSchema - incident_embeddings 테이블 생성
//
// pgvector 확장이 설치되어 있지 않으면 에러를 반환하며,
// 호출 측(main)은 유사 incident 검색 기능을 비활성화하고 계속 기동합니다.
func (db *Postgres) EnsureEmbeddingSchema(ctx context.Context) error {
	queries := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`
		CREATE TABLE IF NOT EXISTS incident_embeddings (
			id BIGSERIAL PRIMARY KEY,
			incident_id BIGINT REFERENCES incidents(id) ON DELETE CASCADE,
			embedding vector(768) NOT NULL,
			model TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
		`CREATE INDEX IF NOT EXISTS idx_incident_embeddings_incident ON incident_embeddings(incident_id)`,
	}

	for _, query := range queries {
		if _, err := db.Pool.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to ensure embedding schema: %w", err)
		}
	}
	return nil
}

// InsertEmbedding - incident reasoning 임베딩 저장
func (db *Postgres) InsertEmbedding(ctx context.Context, incidentID int64, modelName string, vector []float32) (int64, error) {
	var id int64
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO incident_embeddings (incident_id, embedding, model)
		VALUES ($1, $2, $3)
		RETURNING id
	`, incidentID, pgvector.NewVector(vector), modelName).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert embedding: %w", err)
	}
	return id, nil
}

// SimilarIncidents - 코사인 거리 기준 유사 incident 조회 (자기 자신 제외)
func (db *Postgres) SimilarIncidents(ctx context.Context, incidentID int64, vector []float32, limit int) ([]model.SimilarIncident, error) {
	if limit <= 0 {
		limit = 5
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT i.id, i.incident_type, i.severity, i.reasoning,
			e.embedding <=> $1 AS distance
		FROM incident_embeddings e
		JOIN incidents i ON i.id = e.incident_id
		WHERE e.incident_id != $2
		ORDER BY distance ASC
		LIMIT $3
	`, pgvector.NewVector(vector), incidentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	similar := []model.SimilarIncident{}
	for rows.Next() {
		var s model.SimilarIncident
		if err := rows.Scan(&s.IncidentID, &s.Type, &s.Severity, &s.Reasoning, &s.Distance); err != nil {
			return nil, err
		}
		similar = append(similar, s)
	}
	return similar, rows.Err()
}

// GetEmbeddingForIncident - incident의 저장된 임베딩 조회, 없으면 (nil, nil)
func (db *Postgres) GetEmbeddingForIncident(ctx context.Context, incidentID int64) ([]float32, error) {
	var vec pgvector.Vector
	err := db.Pool.QueryRow(ctx, `
		SELECT embedding FROM incident_embeddings
		WHERE incident_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, incidentID).Scan(&vec)
	if err != nil {
		return nil, nil
	}
	return vec.Slice(), nil
}
