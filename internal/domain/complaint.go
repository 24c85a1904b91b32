package domain

import "time"

// Status enumerates lifecycle states for complaints.
type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
	StatusRejected   Status = "Rejected"
)

// Statuses lists every lifecycle state in display order.
var Statuses = []Status{StatusOpen, StatusInProgress, StatusResolved, StatusRejected}

// Valid reports whether the status is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusRejected:
		return true
	default:
		return false
	}
}

// Active reports whether the status counts toward burst detection.
// Resolved and Rejected are terminal.
func (s Status) Active() bool {
	return s == StatusOpen || s == StatusInProgress
}

// Severity enumerates reported and inferred urgency levels.
type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// ImageRefNone is the sentinel stored when a complaint carries no evidence image.
const ImageRefNone = "None"

// Complaint is the sole aggregate: one citizen-filed infrastructure report.
// Citizen-declared fields are immutable after submission; Status and
// AdminRemarks are authority-controlled; the AI* fields belong to the
// classifier and the burst escalator.
type Complaint struct {
	TrackingID       string
	FiledAt          time.Time
	State            string
	City             string
	Area             string
	Category         string
	SeverityReported Severity
	Description      string
	ImageRef         string
	Status           Status
	AdminRemarks     string
	AICategory       string
	AISeverity       Severity
	AIPriorityScore  int
	AIConfidence     float64
	AIReasoning      string
	ClusterFlag      bool
}

// Active reports whether the complaint is still open for burst grouping.
func (c *Complaint) Active() bool {
	return c.Status.Active()
}

// HasEvidence reports whether an evidence image reference is attached.
func (c *Complaint) HasEvidence() bool {
	return c.ImageRef != "" && c.ImageRef != ImageRefNone
}

// Canonical stored field names, in ledger column order. Loaders back-fill
// records missing any of these with type-appropriate defaults.
const (
	FieldTrackingID       = "tracking_id"
	FieldTimestamp        = "timestamp"
	FieldState            = "state"
	FieldCity             = "city"
	FieldArea             = "area"
	FieldCategory         = "category"
	FieldSeverityReported = "severity_reported"
	FieldDescription      = "description"
	FieldImageRef         = "image_ref"
	FieldStatus           = "status"
	FieldAdminRemarks     = "admin_remarks"
	FieldAICategory       = "ai_category"
	FieldAISeverity       = "ai_severity"
	FieldAIPriorityScore  = "ai_priority_score"
	FieldAIConfidence     = "ai_confidence"
	FieldAIReasoning      = "ai_reasoning"
	FieldClusterFlag      = "cluster_flag"
)

// Schema returns the canonical field set in column order.
func Schema() []string {
	return []string{
		FieldTrackingID,
		FieldTimestamp,
		FieldState,
		FieldCity,
		FieldArea,
		FieldCategory,
		FieldSeverityReported,
		FieldDescription,
		FieldImageRef,
		FieldStatus,
		FieldAdminRemarks,
		FieldAICategory,
		FieldAISeverity,
		FieldAIPriorityScore,
		FieldAIConfidence,
		FieldAIReasoning,
		FieldClusterFlag,
	}
}

// PlaceholderValue is the back-fill default for string fields absent from a
// stored record.
const PlaceholderValue = "Unknown"
