package dto

import (
	"time"

	"github.com/civic-kit/complaint-service/internal/domain"
)

// SubmitComplaintRequest payload.
type SubmitComplaintRequest struct {
	State       string           `json:"state"`
	City        string           `json:"city"`
	Area        string           `json:"area"`
	Category    string           `json:"category"`
	Severity    domain.Severity  `json:"severity"`
	Description string           `json:"description"`
	ImageRef    string           `json:"image_ref,omitempty"`
	Evidence    *EvidenceRequest `json:"evidence,omitempty"`
}

// EvidenceRequest carries an inline attachment. Data is base64 on the wire.
type EvidenceRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// ComplaintSummary response for intake confirmations and triage listings.
type ComplaintSummary struct {
	TrackingID       string          `json:"tracking_id"`
	FiledAt          time.Time       `json:"timestamp"`
	State            string          `json:"state"`
	City             string          `json:"city"`
	Area             string          `json:"area"`
	Category         string          `json:"category"`
	SeverityReported domain.Severity `json:"severity_reported"`
	Status           domain.Status   `json:"status"`
	AICategory       string          `json:"ai_category"`
	AISeverity       domain.Severity `json:"ai_severity"`
	AIPriorityScore  int             `json:"ai_priority_score"`
	AIReasoning      string          `json:"ai_reasoning"`
	ClusterFlag      bool            `json:"cluster_flag"`
}

// ComplaintDetailResponse provides the full record.
type ComplaintDetailResponse struct {
	TrackingID       string          `json:"tracking_id"`
	FiledAt          time.Time       `json:"timestamp"`
	State            string          `json:"state"`
	City             string          `json:"city"`
	Area             string          `json:"area"`
	Category         string          `json:"category"`
	SeverityReported domain.Severity `json:"severity_reported"`
	Description      string          `json:"description"`
	ImageRef         string          `json:"image_ref"`
	Status           domain.Status   `json:"status"`
	AdminRemarks     string          `json:"admin_remarks"`
	AICategory       string          `json:"ai_category"`
	AISeverity       domain.Severity `json:"ai_severity"`
	AIPriorityScore  int             `json:"ai_priority_score"`
	AIConfidence     float64         `json:"ai_confidence"`
	AIReasoning      string          `json:"ai_reasoning"`
	ClusterFlag      bool            `json:"cluster_flag"`
	EvidenceURL      string          `json:"evidence_url,omitempty"`
}

// UpdateComplaintRequest payload.
type UpdateComplaintRequest struct {
	Status       domain.Status `json:"status"`
	AdminRemarks *string       `json:"admin_remarks"`
}

// StatsResponse summarizes the ledger for the dashboard.
type StatsResponse struct {
	Total       int `json:"total"`
	Critical    int `json:"critical"`
	Open        int `json:"open"`
	BurstAlerts int `json:"burst_alerts"`
}
