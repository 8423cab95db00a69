package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aegisai/backend/internal/model"
)

// embeddingModel - 임베딩 생성 클라이언트 인터페이스
type embeddingModel interface {
	EmbedText(ctx context.Context, text string) ([]float32, string, error)
}

// embeddingRepo - pgvector 저장소 인터페이스
type embeddingRepo interface {
	InsertEmbedding(ctx context.Context, incidentID int64, modelName string, vector []float32) (int64, error)
	SimilarIncidents(ctx context.Context, incidentID int64, vector []float32, limit int) ([]model.SimilarIncident, error)
	GetEmbeddingForIncident(ctx context.Context, incidentID int64) ([]float32, error)
}

// EmbeddingService - incident reasoning 임베딩 인덱싱과 유사 incident 검색
//
// 인덱싱은 best-effort입니다. 실패해도 파이프라인 본 흐름에는 영향이 없습니다.
type EmbeddingService struct {
	client embeddingModel
	db     embeddingRepo
}

func NewEmbeddingService(client embeddingModel, db embeddingRepo) *EmbeddingService {
	return &EmbeddingService{client: client, db: db}
}

// IndexIncident - incident의 판정 내용을 임베딩으로 저장
func (s *EmbeddingService) IndexIncident(ctx context.Context, incidentID int64, assessment model.Assessment) error {
	text := fmt.Sprintf("%s | %s | %s", assessment.Type, assessment.Severity, assessment.Reasoning)

	vector, modelName, err := s.client.EmbedText(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to embed incident #%d: %w", incidentID, err)
	}

	if _, err := s.db.InsertEmbedding(ctx, incidentID, modelName, vector); err != nil {
		return err
	}

	log.Printf("[Embedding] Indexed incident #%d (%d dims)", incidentID, len(vector))
	return nil
}

// SimilarIncidents - 저장된 임베딩 기준 유사 incident 검색
//
// 해당 incident의 임베딩이 없으면 빈 목록을 반환합니다.
func (s *EmbeddingService) SimilarIncidents(ctx context.Context, incidentID int64, limit int) ([]model.SimilarIncident, error) {
	vector, err := s.db.GetEmbeddingForIncident(ctx, incidentID)
	if err != nil {
		return nil, err
	}
	if vector == nil {
		return []model.SimilarIncident{}, nil
	}
	return s.db.SimilarIncidents(ctx, incidentID, vector, limit)
}
