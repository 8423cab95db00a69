// 프레임 분석 파이프라인 오케스트레이션
//
// 흐름: 프레임 판정 → (incident일 때) 증거 저장 → incident 영속화
//   → 대응 계획 수립 → 계획 실행 → 임베딩 인덱싱 / webhook 알림 (best-effort)

package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aegisai/backend/internal/config"
	"github.com/aegisai/backend/internal/model"
	"github.com/google/uuid"
)

// frameAnalyzer - 프레임 판정 에이전트 인터페이스
type frameAnalyzer interface {
	Process(ctx context.Context, base64Image string, frameNumber int) model.Assessment
}

// responsePlanner - 대응 계획 수립 에이전트 인터페이스
type responsePlanner interface {
	Plan(ctx context.Context, assessment model.Assessment) model.ResponsePlan
}

// planExecutor - 대응 계획 실행기 인터페이스
type planExecutor interface {
	ExecutePlan(ctx context.Context, plan model.ResponsePlan, incidentID int64, evidencePath string)
}

// analysisRepo - 파이프라인이 사용하는 저장소 인터페이스
type analysisRepo interface {
	SaveIncident(ctx context.Context, incident *model.Incident) int64
	SaveEvidenceMetadata(ctx context.Context, incidentID int64, filePath, fileType string, fileSize int64) error
}

// incidentIndexer - 임베딩 인덱서 (nil 허용)
type incidentIndexer interface {
	IndexIncident(ctx context.Context, incidentID int64, assessment model.Assessment) error
}

// incidentNotifier - webhook 전송기 (nil 허용)
type incidentNotifier interface {
	Deliver(incident *model.Incident)
}

// AnalysisService - 프레임 1장을 incident 대응까지 끌고 가는 파이프라인
type AnalysisService struct {
	vision   frameAnalyzer
	planner  responsePlanner
	executor planExecutor
	db       analysisRepo
	indexer  incidentIndexer
	notifier incidentNotifier
	storage  config.StorageConfig
}

func NewAnalysisService(
	vision frameAnalyzer,
	planner responsePlanner,
	executor planExecutor,
	db analysisRepo,
	indexer incidentIndexer,
	notifier incidentNotifier,
	storage config.StorageConfig,
) *AnalysisService {
	return &AnalysisService{
		vision:   vision,
		planner:  planner,
		executor: executor,
		db:       db,
		indexer:  indexer,
		notifier: notifier,
		storage:  storage,
	}
}

// Analyze - 프레임 분석 및 incident 대응 파이프라인 실행
//
// 판정(Assessment)은 어떤 실패에도 항상 반환됩니다.
// incident 저장 실패 시에는 계획 실행을 건너뛰고 판정만 돌려줍니다
// (실행 기록을 연결할 incident id가 없기 때문).
func (s *AnalysisService) Analyze(ctx context.Context, req model.AnalyzeRequest) model.AnalyzeResponse {
	assessment := s.vision.Process(ctx, req.Image, req.FrameNumber)
	if !assessment.Incident {
		return model.AnalyzeResponse{Assessment: assessment}
	}

	log.Printf("[Pipeline] 🚨 Incident detected: %s (%s, %d%% conf)",
		assessment.Type, assessment.Severity, assessment.Confidence)

	evidencePath, evidenceSize := s.saveEvidence(req.Image)

	plan := s.planner.Plan(ctx, assessment)

	incident := &model.Incident{
		Type:               assessment.Type,
		Severity:           assessment.Severity,
		Confidence:         assessment.Confidence,
		Reasoning:          assessment.Reasoning,
		Subjects:           assessment.Subjects,
		RecommendedActions: assessment.RecommendedActions,
		EvidencePath:       evidencePath,
		ResponsePlan:       plan,
		Status:             model.StatusActive,
	}

	incidentID := s.db.SaveIncident(ctx, incident)
	if incidentID < 0 {
		log.Printf("[Pipeline] ❌ Incident persistence failed - skipping response execution (data loss risk)")
		return model.AnalyzeResponse{Assessment: assessment}
	}
	incident.ID = incidentID

	if evidencePath != "" {
		if err := s.db.SaveEvidenceMetadata(ctx, incidentID, evidencePath, "image/jpeg", evidenceSize); err != nil {
			log.Printf("[Pipeline] ⚠️ Failed to record evidence metadata: %v", err)
		}
	}

	s.executor.ExecutePlan(ctx, plan, incidentID, evidencePath)

	if s.indexer != nil {
		if err := s.indexer.IndexIncident(ctx, incidentID, assessment); err != nil {
			log.Printf("[Pipeline] ⚠️ Embedding indexing failed: %v", err)
		}
	}

	if s.notifier != nil {
		go s.notifier.Deliver(incident)
	}

	return model.AnalyzeResponse{Assessment: assessment, IncidentID: incidentID}
}

// saveEvidence - 프레임 이미지를 증거 파일로 저장
//
// 실패해도 파이프라인은 계속 진행합니다 (빈 경로 반환).
func (s *AnalysisService) saveEvidence(base64Image string) (string, int64) {
	data, err := decodeImagePayload(base64Image)
	if err != nil {
		log.Printf("[Pipeline] ⚠️ Evidence decode failed: %v", err)
		return "", 0
	}

	if err := os.MkdirAll(s.storage.EvidenceDir, 0o755); err != nil {
		log.Printf("[Pipeline] ⚠️ Evidence directory unavailable: %v", err)
		return "", 0
	}

	filename := fmt.Sprintf("incident_%s_%s.jpg",
		time.Now().UTC().Format("20060102_150405"), uuid.NewString()[:8])
	path := filepath.Join(s.storage.EvidenceDir, filename)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("[Pipeline] ⚠️ Evidence write failed: %v", err)
		return "", 0
	}

	log.Printf("[Pipeline] 💾 Evidence saved: %s (%d bytes)", path, len(data))
	return path, int64(len(data))
}

// decodeImagePayload - data URI prefix 제거, 패딩 보정 후 디코딩
func decodeImagePayload(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("no valid image source provided")
	}

	if idx := strings.LastIndex(s, ","); idx >= 0 {
		s = s[idx+1:]
	}
	if missing := len(s) % 4; missing != 0 {
		s += strings.Repeat("=", 4-missing)
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("base64 decode failed: %w", err)
	}
	return data, nil
}
