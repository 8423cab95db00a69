package model

import "strings"

// Action - 실행 가능한 대응 액션 (닫힌 집합)
//
// 허용 목록과 executor의 디스패치 테이블이 갈라지지 않도록
// 문자열 키 맵 대신 타입으로 고정하고, executor에서 exhaustive switch로 처리합니다.
type Action string

const (
	ActionSaveEvidence       Action = "save_evidence"
	ActionSendAlert          Action = "send_alert"
	ActionLogIncident        Action = "log_incident"
	ActionLockDoor           Action = "lock_door"
	ActionSoundAlarm         Action = "sound_alarm"
	ActionContactAuthorities Action = "contact_authorities"
	ActionMonitor            Action = "monitor"
	ActionEscalate           Action = "escalate"
	ActionNotifyStaff        Action = "notify_staff"
	ActionRecordVideo        Action = "record_video"
	ActionCaptureSnapshot    Action = "capture_snapshot"
)

// ParseAction - 대소문자/공백을 정규화한 뒤 허용 목록과 대조
func ParseAction(s string) (Action, bool) {
	normalized := Action(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_"))
	switch normalized {
	case ActionSaveEvidence, ActionSendAlert, ActionLogIncident,
		ActionLockDoor, ActionSoundAlarm, ActionContactAuthorities,
		ActionMonitor, ActionEscalate, ActionNotifyStaff,
		ActionRecordVideo, ActionCaptureSnapshot:
		return normalized, true
	default:
		return ActionLogIncident, false
	}
}

// Description - 프론트엔드 표시용 액션 설명
func (a Action) Description() string {
	switch a {
	case ActionSaveEvidence:
		return "Save frame snapshot to evidence storage"
	case ActionSendAlert:
		return "Send email/SMS alert to security personnel"
	case ActionLogIncident:
		return "Record incident details in system log"
	case ActionLockDoor:
		return "Trigger automated door lock"
	case ActionSoundAlarm:
		return "Activate audible alarm system"
	case ActionContactAuthorities:
		return "Notify law enforcement automatically"
	case ActionMonitor:
		return "Continue active monitoring of area"
	case ActionEscalate:
		return "Escalate to human security team"
	case ActionNotifyStaff:
		return "Send notification to on-site staff"
	case ActionRecordVideo:
		return "Start continuous video recording"
	case ActionCaptureSnapshot:
		return "Capture high-resolution snapshot"
	default:
		return "Execute " + string(a)
	}
}

// Priority - 실행 우선순위
type Priority string

const (
	PriorityImmediate Priority = "immediate"
	PriorityHigh      Priority = "high"
	PriorityMedium    Priority = "medium"
	PriorityLow       Priority = "low"
)

// Rank - 정렬 키 (immediate < high < medium < low)
// 검증을 거치지 않은 값은 medium으로 취급합니다.
func (p Priority) Rank() int {
	switch p {
	case PriorityImmediate:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 2
	}
}

// ParsePriority - 소문자 정규화, 허용 외 값은 medium
func ParsePriority(s string) Priority {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityImmediate:
		return PriorityImmediate
	case PriorityHigh:
		return PriorityHigh
	case PriorityMedium:
		return PriorityMedium
	case PriorityLow:
		return PriorityLow
	default:
		return PriorityMedium
	}
}

// ActionStep - 대응 계획의 한 단계
type ActionStep struct {
	Step       int            `json:"step"`
	Action     Action         `json:"action"`
	Priority   Priority       `json:"priority"`
	Parameters map[string]any `json:"parameters"`
	Reasoning  string         `json:"reasoning"`
}

// ResponsePlan - Assessment 1건에 대한 순서 있는 대응 계획
type ResponsePlan []ActionStep
