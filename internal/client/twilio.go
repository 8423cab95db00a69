// Twilio SMS 알림 클라이언트
//
// 환경변수:
//   - TWILIO_ACCOUNT_SID / TWILIO_AUTH_TOKEN
//   - TWILIO_PHONE: 발신 번호
//   - ALERT_PHONE: 수신 번호

package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aegisai/backend/internal/config"
	"github.com/aegisai/backend/internal/model"
)

const twilioAPIBase = "https://api.twilio.com/2010-04-01"

type TwilioClient struct {
	accountSID string
	authToken  string
	fromPhone  string
	toPhone    string
	httpClient *http.Client
}

func NewTwilioClient(cfg config.AlertConfig) *TwilioClient {
	return &TwilioClient{
		accountSID: cfg.TwilioAccountSID,
		authToken:  cfg.TwilioAuthToken,
		fromPhone:  cfg.TwilioPhone,
		toPhone:    cfg.AlertPhone,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *TwilioClient) IsConfigured() bool {
	return c.accountSID != "" && c.authToken != "" && c.fromPhone != "" && c.toPhone != ""
}

// SendSMSAlert - incident 요약을 SMS로 전송
func (c *TwilioClient) SendSMSAlert(ctx context.Context, incident *model.Incident) error {
	if !c.IsConfigured() {
		return fmt.Errorf("twilio configuration incomplete")
	}

	body := fmt.Sprintf(
		"🚨 AegisAI Alert #%d: %s | Severity: %s | Confidence: %d%% | Time: %s",
		incident.ID,
		strings.ToUpper(incident.Type),
		strings.ToUpper(incident.Severity),
		incident.Confidence,
		incident.CreatedAt.Format(time.RFC3339),
	)

	form := url.Values{}
	form.Set("From", c.fromPhone)
	form.Set("To", c.toPhone)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", twilioAPIBase, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("twilio returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
