package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/aegisai/backend/internal/model"
	tmpl "github.com/aegisai/backend/internal/template"
)

// webhookConfigReader - DB 인터페이스 (delivery 전용)
type webhookConfigReader interface {
	GetWebhookConfigs(ctx context.Context) ([]model.WebhookConfig, error)
}

// WebhookDeliveryService - 사용자 설정 Webhook으로 incident 알림을 전송하는 서비스
type WebhookDeliveryService struct {
	configDB   webhookConfigReader
	httpClient *http.Client
}

// NewWebhookDeliveryService 생성자
func NewWebhookDeliveryService(configDB webhookConfigReader) *WebhookDeliveryService {
	return &WebhookDeliveryService{
		configDB: configDB,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Deliver - 저장된 모든 webhook config에 렌더링된 body를 HTTP로 전송
//
// 파이프라인 응답 경로와 독립적으로 동작합니다 (보통 goroutine에서 호출).
// 개별 config 실패 시 로그만 남기고 나머지는 계속 전송합니다.
func (s *WebhookDeliveryService) Deliver(incident *model.Incident) {
	ctx := context.Background()

	configs, err := s.configDB.GetWebhookConfigs(ctx)
	if err != nil {
		log.Printf("[WebhookDelivery] Failed to load webhook configs: %v", err)
		return
	}
	if len(configs) == 0 {
		return
	}

	var data *tmpl.IncidentData
	if incident != nil {
		d := tmpl.IncidentDataFromModel(incident)
		data = &d
	}

	for _, cfg := range configs {
		if cfg.URL == "" {
			log.Printf("[WebhookDelivery] Skipping config id=%d: URL is empty", cfg.ID)
			continue
		}

		rendered := tmpl.RenderBody(cfg.Body, data)

		if err := s.sendHTTP(ctx, cfg, rendered); err != nil {
			log.Printf("[WebhookDelivery] Failed to deliver to %s (config id=%d): %v", cfg.URL, cfg.ID, err)
		} else {
			log.Printf("[WebhookDelivery] Delivered to %s (config id=%d)", cfg.URL, cfg.ID)
		}
	}
}

// sendHTTP - 단일 webhook config로 HTTP 요청 전송
func (s *WebhookDeliveryService) sendHTTP(ctx context.Context, cfg model.WebhookConfig, body string) error {
	req, err := http.NewRequestWithContext(ctx, cfg.Method, cfg.URL, bytes.NewBufferString(body))
	if err != nil {
		return err
	}

	// Content-Type 기본값 설정 (없으면 application/json)
	hasContentType := false
	for _, h := range cfg.Headers {
		if h.Key != "" {
			req.Header.Set(h.Key, h.Value)
		}
		if http.CanonicalHeaderKey(h.Key) == "Content-Type" {
			hasContentType = true
		}
	}
	if !hasContentType {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}
