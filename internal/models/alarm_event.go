package models

import (
	"time"
)

// AlarmType identifies the rule that raised an alarm.
type AlarmType string

const (
	AlarmHighBurden          AlarmType = "HIGH_BURDEN"
	AlarmCriticalCombination AlarmType = "CRITICAL_COMBINATION"
	AlarmHighCareHours       AlarmType = "HIGH_CARE_HOURS"
	AlarmEmotionalDistress   AlarmType = "EMOTIONAL_DISTRESS"
	AlarmSocialIsolation     AlarmType = "SOCIAL_ISOLATION"
	AlarmPhysicalComplaints  AlarmType = "PHYSICAL_COMPLAINTS"
)

// Urgency ranks alarms for triage. Total order: LOW < MEDIUM < HIGH < CRITICAL.
type Urgency string

const (
	UrgencyLow      Urgency = "LOW"
	UrgencyMedium   Urgency = "MEDIUM"
	UrgencyHigh     Urgency = "HIGH"
	UrgencyCritical Urgency = "CRITICAL"
)

// Rank returns the position of the urgency in the total order.
// Drives default sort and filter semantics in triage views.
func (u Urgency) Rank() int {
	switch u {
	case UrgencyLow:
		return 0
	case UrgencyMedium:
		return 1
	case UrgencyHigh:
		return 2
	case UrgencyCritical:
		return 3
	default:
		return -1
	}
}

// AlarmEvent is a typed, urgency-ranked signal raised when an assessment
// meets an alarm rule (corresponds to the alarm_events table). Events are
// an audit trail: staff toggle handled/reopened and attach notes, but
// events are never deleted.
type AlarmEvent struct {
	EventID      string     `json:"event_id" db:"event_id"`
	AssessmentID string     `json:"assessment_id" db:"assessment_id"`
	SubjectID    string     `json:"subject_id" db:"subject_id"`
	Municipality string     `json:"municipality" db:"municipality"`
	AlarmType    AlarmType  `json:"alarm_type" db:"alarm_type"`
	Urgency      Urgency    `json:"urgency" db:"urgency"`
	Description  string     `json:"description" db:"description"`
	Handled      bool       `json:"handled" db:"handled"`
	HandledAt    *time.Time `json:"handled_at,omitempty" db:"handled_at"`
	Handler      *string    `json:"handler,omitempty" db:"handler"`
	Note         *string    `json:"note,omitempty" db:"note"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// DedupeKey is the identity used to avoid double-inserting the same alarm
// for the same assessment on re-evaluation.
func (e AlarmEvent) DedupeKey() string {
	return e.AssessmentID + ":" + string(e.AlarmType)
}
