// SMTP 이메일 알림 클라이언트
//
// 환경변수:
//   - SMTP_HOST / SMTP_PORT (default: 587)
//   - SMTP_USER / SMTP_PASSWORD
//   - ALERT_EMAIL: 수신 주소
//
// Gmail 사용 시 앱 비밀번호가 필요합니다.

package client

import (
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/aegisai/backend/internal/config"
	"github.com/aegisai/backend/internal/model"
)

type EmailClient struct {
	host     string
	port     string
	user     string
	password string
	to       string
}

func NewEmailClient(cfg config.AlertConfig) *EmailClient {
	return &EmailClient{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		to:       cfg.AlertEmail,
	}
}

func (c *EmailClient) IsConfigured() bool {
	return c.host != "" && c.user != "" && c.password != "" && c.to != ""
}

// SendIncidentAlert - incident 상세를 담은 알림 메일 전송
func (c *EmailClient) SendIncidentAlert(incident *model.Incident) error {
	if !c.IsConfigured() {
		return fmt.Errorf("email configuration incomplete")
	}

	subject := fmt.Sprintf("🚨 AegisAI Alert: %s - Incident #%d",
		strings.ToUpper(incident.Type), incident.ID)

	subjects := strings.Join(incident.Subjects, ", ")
	if subjects == "" {
		subjects = "None identified"
	}

	body := fmt.Sprintf(`=================================================
AegisAI SECURITY ALERT
=================================================

INCIDENT DETAILS:
-------------------------------------------------
Incident ID:    #%d
Type:           %s
Severity:       %s
Confidence:     %d%%
Status:         %s
Timestamp:      %s

ANALYSIS:
-------------------------------------------------
%s

SUBJECTS IDENTIFIED:
-------------------------------------------------
%s

RESPONSE PLAN:
-------------------------------------------------
%d action(s) initiated

EVIDENCE:
-------------------------------------------------
Evidence Path: %s

=================================================
This is an automated alert from AegisAI Security System.
Please review the incident details and take appropriate action.
=================================================
`,
		incident.ID,
		strings.ToUpper(incident.Type),
		strings.ToUpper(incident.Severity),
		incident.Confidence,
		strings.ToUpper(incident.Status),
		incident.CreatedAt.Format("2006-01-02 15:04:05"),
		incident.Reasoning,
		subjects,
		len(incident.ResponsePlan),
		incident.EvidencePath,
	)

	msg := strings.Join([]string{
		"From: " + c.user,
		"To: " + c.to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	addr := net.JoinHostPort(c.host, c.port)
	auth := smtp.PlainAuth("", c.user, c.password, c.host)

	// smtp.SendMail은 서버가 STARTTLS를 지원하면 자동으로 TLS로 전환합니다.
	if err := smtp.SendMail(addr, auth, c.user, []string{c.to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email alert: %w", err)
	}
	return nil
}
