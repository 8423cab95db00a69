// Slack 직원 알림 클라이언트
//
// 환경변수:
//   - SLACK_BOT_TOKEN: Bot User OAuth Token (xoxb-...)
//   - SLACK_CHANNEL_ID: 알림을 보낼 채널 ID
//
// notify_staff / escalate 액션이 이 클라이언트를 통해 전송됩니다.

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aegisai/backend/internal/config"
	"github.com/aegisai/backend/internal/model"
)

const slackPostMessageURL = "https://slack.com/api/chat.postMessage"

type SlackClient struct {
	botToken   string
	channelID  string
	httpClient *http.Client
}

type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type SlackAttachment struct {
	Color      string       `json:"color"`
	Title      string       `json:"title"`
	Text       string       `json:"text"`
	Fields     []SlackField `json:"fields,omitempty"`
	Footer     string       `json:"footer"`
	FooterIcon string       `json:"footer_icon,omitempty"`
	Ts         int64        `json:"ts"`
}

type SlackMessage struct {
	Channel     string            `json:"channel"`
	Text        string            `json:"text,omitempty"`
	Attachments []SlackAttachment `json:"attachments,omitempty"`
}

type slackResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	TS    string `json:"ts"`
}

func NewSlackClient(cfg config.SlackConfig) *SlackClient {
	return &SlackClient{
		botToken:  cfg.BotToken,
		channelID: cfg.ChannelID,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *SlackClient) IsConfigured() bool {
	return c.botToken != "" && c.channelID != ""
}

// NotifyStaff - 현장 직원 대상 단문 알림 전송
func (c *SlackClient) NotifyStaff(ctx context.Context, incidentID int64, group, message string) error {
	if !c.IsConfigured() {
		return fmt.Errorf("slack bot token or channel ID not configured")
	}

	msg := SlackMessage{
		Channel: c.channelID,
		Text:    fmt.Sprintf("👥 [%s] %s (incident #%d)", group, message, incidentID),
	}
	return c.send(ctx, msg)
}

// NotifyIncident - incident 상세를 attachment 형태로 전송 (escalate용)
func (c *SlackClient) NotifyIncident(ctx context.Context, incident *model.Incident, target string) error {
	if !c.IsConfigured() {
		return fmt.Errorf("slack bot token or channel ID not configured")
	}

	msg := SlackMessage{
		Channel: c.channelID,
		Attachments: []SlackAttachment{
			{
				Color: colorBySeverity(incident.Severity),
				Title: fmt.Sprintf("⬆️ [%s] Incident #%d escalated to %s", incident.Severity, incident.ID, target),
				Text:  incident.Reasoning,
				Fields: []SlackField{
					{Title: "Type", Value: incident.Type, Short: true},
					{Title: "Severity", Value: incident.Severity, Short: true},
					{Title: "Confidence", Value: fmt.Sprintf("%d%%", incident.Confidence), Short: true},
					{Title: "Status", Value: incident.Status, Short: true},
				},
				Footer: "aegis-ai",
				Ts:     time.Now().Unix(),
			},
		},
	}
	return c.send(ctx, msg)
}

func (c *SlackClient) send(ctx context.Context, msg SlackMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, slackPostMessageURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+c.botToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send slack message: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read slack response: %w", err)
	}

	var slackResp slackResponse
	if err := json.Unmarshal(body, &slackResp); err != nil {
		return fmt.Errorf("failed to parse slack response: %w", err)
	}
	if !slackResp.OK {
		return fmt.Errorf("slack API error: %s", slackResp.Error)
	}
	return nil
}

func colorBySeverity(severity string) string {
	switch severity {
	case model.SeverityCritical:
		return "#E01E5A"
	case model.SeverityHigh:
		return "#ECB22E"
	case model.SeverityMedium:
		return "#36C5F0"
	default:
		return "#2EB67D"
	}
}
