package agent

import (
	"math"
	"sync"
	"time"

	"github.com/aegisai/backend/internal/model"
)

// perfStats - 에이전트 호출 횟수/에러/평균 응답시간 추적
//
// 여러 파이프라인 호출이 에이전트 인스턴스를 공유하므로 뮤텍스로 보호합니다.
type perfStats struct {
	mu              sync.Mutex
	totalCalls      int64
	totalErrors     int64
	avgResponseTime float64 // seconds
}

func (s *perfStats) record(elapsed time.Duration, failed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalCalls++
	if failed {
		s.totalErrors++
	}
	// 누적 평균 갱신
	s.avgResponseTime = (s.avgResponseTime*float64(s.totalCalls-1) + elapsed.Seconds()) / float64(s.totalCalls)
}

func (s *perfStats) snapshot(agentName, modelName string) model.AgentStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	successRate := 0.0
	if s.totalCalls > 0 {
		successRate = float64(s.totalCalls-s.totalErrors) / float64(s.totalCalls) * 100
	}

	return model.AgentStats{
		Agent:           agentName,
		Model:           modelName,
		TotalCalls:      s.totalCalls,
		TotalErrors:     s.totalErrors,
		SuccessRate:     math.Round(successRate*100) / 100,
		AvgResponseTime: math.Round(s.avgResponseTime*1000) / 1000,
	}
}
