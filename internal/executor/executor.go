// Action Executor - 대응 계획 실행기
//
// 실행 순서: (priority rank, step) 기준 안정 정렬. 같은 우선순위면 step 오름차순.
// 각 스텝은 독립적인 실패 경계를 가지며, 실패해도 나머지 계획은 계속 실행됩니다.
// 성공/실패 기록은 다음 스텝으로 넘어가기 전에 동기적으로 영속화합니다.

package executor

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aegisai/backend/internal/config"
	"github.com/aegisai/backend/internal/model"
)

// ActionStore - 실행 기록과 상태 갱신에 필요한 최소 저장소 인터페이스
type ActionStore interface {
	SaveAction(ctx context.Context, incidentID int64, actionType string, record model.ActionExecutionRecord) int64
	UpdateIncidentStatus(ctx context.Context, incidentID int64, status string) bool
	GetIncidentByID(ctx context.Context, incidentID int64) (*model.Incident, error)
}

// EmailSender / SMSSender / StaffNotifier - 알림 채널 (nil 허용)
type EmailSender interface {
	SendIncidentAlert(incident *model.Incident) error
	IsConfigured() bool
}

type SMSSender interface {
	SendSMSAlert(ctx context.Context, incident *model.Incident) error
	IsConfigured() bool
}

type StaffNotifier interface {
	NotifyStaff(ctx context.Context, incidentID int64, group, message string) error
	NotifyIncident(ctx context.Context, incident *model.Incident, target string) error
	IsConfigured() bool
}

type ActionExecutor struct {
	store ActionStore
	email EmailSender
	sms   SMSSender
	staff StaffNotifier
	cfg   config.AlertConfig

	mu       sync.Mutex
	executed []model.ActionExecutionRecord
}

func NewActionExecutor(store ActionStore, email EmailSender, sms SMSSender, staff StaffNotifier, cfg config.AlertConfig) *ActionExecutor {
	return &ActionExecutor{
		store: store,
		email: email,
		sms:   sms,
		staff: staff,
		cfg:   cfg,
	}
}

// ExecutePlan - 계획 전체 실행
//
// 같은 incident에 대한 동시 호출은 허용되지 않습니다 (호출자가 직렬화).
func (e *ActionExecutor) ExecutePlan(ctx context.Context, plan model.ResponsePlan, incidentID int64, evidencePath string) {
	if len(plan) == 0 {
		log.Printf("[ActionExecutor] ⚠️ No plan provided for incident #%d", incidentID)
		return
	}

	log.Printf("[ActionExecutor] 🚀 Executing %d-step response plan for incident #%d", len(plan), incidentID)

	ordered := make(model.ResponsePlan, len(plan))
	copy(ordered, plan)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority.Rank() != ordered[j].Priority.Rank() {
			return ordered[i].Priority.Rank() < ordered[j].Priority.Rank()
		}
		return ordered[i].Step < ordered[j].Step
	})

	for _, step := range ordered {
		if !isKnownAction(step.Action) {
			// 검증을 건너뛴 호출자 대비 방어선
			log.Printf("[ActionExecutor] ⚠️ Unknown action type: %s", step.Action)
			continue
		}

		record := model.ActionExecutionRecord{
			IncidentID: incidentID,
			Action:     step.Action,
			Priority:   step.Priority,
			Parameters: step.Parameters,
			ExecutedAt: time.Now().UTC(),
		}

		if err := e.executeAction(ctx, step.Action, incidentID, evidencePath, step.Parameters); err != nil {
			record.Status = model.ExecutionFailed
			record.Error = err.Error()
			log.Printf("[ActionExecutor] ❌ Action %q failed for incident #%d: %v", step.Action, incidentID, err)
		} else {
			record.Status = model.ExecutionCompleted
			log.Printf("[ActionExecutor] ✅ [%s] Executed %q for incident #%d",
				strings.ToUpper(string(step.Priority)), step.Action, incidentID)
		}

		// 크래시가 나도 감사 추적이 남도록 스텝마다 동기 저장
		if id := e.store.SaveAction(ctx, incidentID, string(step.Action), record); id < 0 {
			log.Printf("[ActionExecutor] ❌ Failed to persist execution record for incident #%d (data loss risk)", incidentID)
		}

		e.mu.Lock()
		e.executed = append(e.executed, record)
		e.mu.Unlock()
	}

	log.Printf("[ActionExecutor] ✅ Response plan execution completed for incident #%d", incidentID)
}

// executeAction - 액션 타입별 디스패치
//
// Action이 닫힌 enum이라 case 누락이 곧 컴파일 리뷰에서 걸리는 구조입니다.
func (e *ActionExecutor) executeAction(ctx context.Context, action model.Action, incidentID int64, evidencePath string, params map[string]any) error {
	switch action {
	case model.ActionSaveEvidence:
		return e.saveEvidence(incidentID, evidencePath)
	case model.ActionSendAlert:
		return e.sendAlert(ctx, incidentID, evidencePath, params)
	case model.ActionLogIncident:
		return e.logIncident(ctx, incidentID)
	case model.ActionLockDoor:
		return e.lockDoor(params)
	case model.ActionSoundAlarm:
		return e.soundAlarm(params)
	case model.ActionContactAuthorities:
		return e.contactAuthorities(incidentID, params)
	case model.ActionMonitor:
		return e.monitor(ctx, incidentID, params)
	case model.ActionEscalate:
		return e.escalate(ctx, incidentID, params)
	case model.ActionNotifyStaff:
		return e.notifyStaff(ctx, incidentID, params)
	case model.ActionRecordVideo:
		return e.recordVideo(incidentID, params)
	case model.ActionCaptureSnapshot:
		return e.captureSnapshot(incidentID, evidencePath, params)
	default:
		return fmt.Errorf("unknown action type: %s", action)
	}
}

// ============================================================================
// 액션 핸들러
// ============================================================================

func (e *ActionExecutor) saveEvidence(incidentID int64, evidencePath string) error {
	if evidencePath == "" {
		log.Printf("[ActionExecutor] ⚠️ Evidence path not found or invalid: %q", evidencePath)
		return nil
	}
	info, err := os.Stat(evidencePath)
	if err != nil {
		log.Printf("[ActionExecutor] ⚠️ Evidence path not found or invalid: %q", evidencePath)
		return nil
	}
	log.Printf("[ActionExecutor] 💾 Evidence saved: %s (%d bytes)", evidencePath, info.Size())
	return nil
}

func (e *ActionExecutor) sendAlert(ctx context.Context, incidentID int64, evidencePath string, params map[string]any) error {
	channels := paramStringList(params, "channels", []string{"console", "email"})

	var incident *model.Incident
	needIncident := containsChannel(channels, "email") || containsChannel(channels, "sms")
	if needIncident {
		var err error
		incident, err = e.store.GetIncidentByID(ctx, incidentID)
		if err != nil || incident == nil {
			log.Printf("[ActionExecutor] ❌ Incident #%d not found for alert delivery", incidentID)
		}
	}

	if containsChannel(channels, "email") && e.cfg.EnableEmailAlerts {
		if e.email == nil || !e.email.IsConfigured() {
			log.Printf("[ActionExecutor] ⚠️ Email configuration incomplete - skipping email alert")
		} else if incident != nil {
			if err := e.email.SendIncidentAlert(incident); err != nil {
				log.Printf("[ActionExecutor] ❌ Email alert failed: %v", err)
			} else {
				log.Printf("[ActionExecutor] ✅ Email alert sent for incident #%d", incidentID)
			}
		}
	}

	if containsChannel(channels, "sms") && e.cfg.EnableSMSAlerts {
		if e.sms == nil || !e.sms.IsConfigured() {
			log.Printf("[ActionExecutor] ⚠️ SMS configuration incomplete - skipping SMS alert")
		} else if incident != nil {
			if err := e.sms.SendSMSAlert(ctx, incident); err != nil {
				log.Printf("[ActionExecutor] ❌ SMS alert failed: %v", err)
			} else {
				log.Printf("[ActionExecutor] ✅ SMS alert sent for incident #%d", incidentID)
			}
		}
	}

	// 콘솔 알림은 항상 출력
	log.Printf("[ActionExecutor] 🚨 [ALERT] SECURITY INCIDENT #%d | Evidence: %s", incidentID, evidencePath)
	return nil
}

func (e *ActionExecutor) logIncident(ctx context.Context, incidentID int64) error {
	if ok := e.store.UpdateIncidentStatus(ctx, incidentID, model.StatusLogged); !ok {
		return fmt.Errorf("failed to update incident #%d status to logged", incidentID)
	}
	log.Printf("[ActionExecutor] 📝 Incident #%d formally logged and documented", incidentID)
	return nil
}

func (e *ActionExecutor) lockDoor(params map[string]any) error {
	doorID := paramString(params, "door_id", "main_entrance")
	if !e.cfg.EnableIoTActions {
		log.Printf("[ActionExecutor] 🔒 [SIMULATED] Door locked: %s", doorID)
		return nil
	}
	// TODO: 실제 IoT 게이트웨이 연동 (시설 측 API 확정 대기)
	log.Printf("[ActionExecutor] 🔒 Door locked via IoT: %s", doorID)
	return nil
}

func (e *ActionExecutor) soundAlarm(params map[string]any) error {
	duration := paramInt(params, "duration", 30)
	alarmType := paramString(params, "type", "intrusion")
	if !e.cfg.EnableIoTActions {
		log.Printf("[ActionExecutor] 🚨 [SIMULATED] Alarm activated: %s (%ds)", alarmType, duration)
		return nil
	}
	log.Printf("[ActionExecutor] 🚨 Alarm activated via IoT: %s for %ds", alarmType, duration)
	return nil
}

func (e *ActionExecutor) contactAuthorities(incidentID int64, params map[string]any) error {
	authorityType := paramString(params, "type", "police")
	urgency := paramString(params, "urgency", "high")

	// 실제 신고는 운영 환경에서 사람의 확인을 거쳐야 함
	log.Printf("[ActionExecutor] 🚔 [SIMULATED] Authorities contacted: %s | Urgency: %s | Incident #%d",
		authorityType, urgency, incidentID)
	return nil
}

func (e *ActionExecutor) monitor(ctx context.Context, incidentID int64, params map[string]any) error {
	duration := paramInt(params, "duration", 300)
	area := paramString(params, "area", "incident_location")

	log.Printf("[ActionExecutor] 👁️ Enhanced monitoring activated for %ds | Area: %s | Incident #%d",
		duration, area, incidentID)

	if ok := e.store.UpdateIncidentStatus(ctx, incidentID, model.StatusMonitoring); !ok {
		return fmt.Errorf("failed to update incident #%d status to monitoring", incidentID)
	}
	return nil
}

func (e *ActionExecutor) escalate(ctx context.Context, incidentID int64, params map[string]any) error {
	target := paramString(params, "target", "security_team")
	reason := paramString(params, "reason", "High severity incident requires human intervention")

	if ok := e.store.UpdateIncidentStatus(ctx, incidentID, model.StatusEscalated); !ok {
		return fmt.Errorf("failed to update incident #%d status to escalated", incidentID)
	}

	log.Printf("[ActionExecutor] ⬆️ Incident #%d escalated to %s | Reason: %s", incidentID, target, reason)

	if e.staff != nil && e.staff.IsConfigured() {
		incident, err := e.store.GetIncidentByID(ctx, incidentID)
		if err == nil && incident != nil {
			if err := e.staff.NotifyIncident(ctx, incident, target); err != nil {
				log.Printf("[ActionExecutor] ❌ Escalation notification failed: %v", err)
			}
		}
	}
	return nil
}

func (e *ActionExecutor) notifyStaff(ctx context.Context, incidentID int64, params map[string]any) error {
	group := paramString(params, "group", "security_team")
	message := paramString(params, "message", fmt.Sprintf("Security incident #%d detected", incidentID))

	if e.staff == nil || !e.staff.IsConfigured() {
		log.Printf("[ActionExecutor] ⚠️ Staff notification channel not configured - skipping")
		return nil
	}
	if err := e.staff.NotifyStaff(ctx, incidentID, group, message); err != nil {
		return fmt.Errorf("staff notification failed: %w", err)
	}
	log.Printf("[ActionExecutor] 👥 Staff notification sent to %s | Message: %s", group, message)
	return nil
}

func (e *ActionExecutor) recordVideo(incidentID int64, params map[string]any) error {
	duration := paramInt(params, "duration", 60)
	cameraID := paramString(params, "camera_id", "main_camera")
	log.Printf("[ActionExecutor] 🎥 Video recording started: %s for %ds | Incident #%d",
		cameraID, duration, incidentID)
	return nil
}

func (e *ActionExecutor) captureSnapshot(incidentID int64, evidencePath string, params map[string]any) error {
	cameraID := paramString(params, "camera_id", "main_camera")
	resolution := paramString(params, "resolution", "high")

	log.Printf("[ActionExecutor] 📸 High-res snapshot captured: %s | Resolution: %s | Incident #%d",
		cameraID, resolution, incidentID)

	// 증거는 파이프라인에서 이미 저장됨, 여기서는 확인만
	if evidencePath != "" {
		if _, err := os.Stat(evidencePath); err == nil {
			log.Printf("[ActionExecutor] ✅ Snapshot confirmed at: %s", evidencePath)
		}
	}
	return nil
}

// ============================================================================
// 실행 이력 조회
// ============================================================================

// ExecutionHistory - 최근 실행 기록 (프로세스 메모리 기준)
func (e *ActionExecutor) ExecutionHistory(limit int) []model.ActionExecutionRecord {
	e.mu.Lock()
	defer e.mu.Unlock()

	if limit <= 0 || limit > len(e.executed) {
		limit = len(e.executed)
	}
	out := make([]model.ActionExecutionRecord, limit)
	copy(out, e.executed[len(e.executed)-limit:])
	return out
}

func isKnownAction(a model.Action) bool {
	parsed, ok := model.ParseAction(string(a))
	return ok && parsed == a
}

// ============================================================================
// 파라미터 헬퍼 (JSON 경유로 타입이 느슨함)
// ============================================================================

func paramString(params map[string]any, key, fallback string) string {
	if v, ok := params[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func paramInt(params map[string]any, key string, fallback int) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}

func paramStringList(params map[string]any, key string, fallback []string) []string {
	switch v := params[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
		return fallback
	default:
		return fallback
	}
}

func containsChannel(channels []string, target string) bool {
	for _, c := range channels {
		if c == target {
			return true
		}
	}
	return false
}
