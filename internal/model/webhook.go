package model

import "time"

// ============================================================================
// 사용자 설정 Webhook (incident 생성 시 fan-out 전송)
// ============================================================================

// WebhookHeader - 전송 시 붙일 HTTP 헤더 1개
type WebhookHeader struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// WebhookConfig - 저장된 webhook 설정
//
// Body는 internal/template이 렌더링하는 템플릿 문자열입니다.
type WebhookConfig struct {
	ID        int             `json:"id"`
	URL       string          `json:"url"`
	Method    string          `json:"method"`
	Headers   []WebhookHeader `json:"headers"`
	Body      string          `json:"body"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// WebhookConfigRequest - webhook 설정 생성/수정 요청
type WebhookConfigRequest struct {
	URL     string          `json:"url" binding:"required"`
	Method  string          `json:"method"`
	Headers []WebhookHeader `json:"headers"`
	Body    string          `json:"body"`
}

type WebhookConfigListResponse struct {
	Status string          `json:"status"`
	Data   []WebhookConfig `json:"data"`
}

type WebhookConfigEnvelope struct {
	Status string         `json:"status"`
	Data   *WebhookConfig `json:"data"`
}

type WebhookConfigCreateResponse struct {
	Status string `json:"status"`
	ID     int    `json:"id"`
}
