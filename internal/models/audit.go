package models

import "time"

// AuditAction constants represent administrative actions that are logged.
const (
	AuditActionLogin         = "ADMIN_LOGIN"
	AuditActionLoginFailed   = "ADMIN_LOGIN_FAILED"
	AuditActionSurveyUpdate  = "SURVEY_UPDATE"
	AuditActionSurveyDelete  = "SURVEY_DELETE"
	AuditActionHistorySave   = "HISTORY_SAVE"
	AuditActionTimelineClose = "TIMELINE_ARCHIVE"
	AuditActionReportCreate  = "REPORT_CREATE"
)

// AuditLog represents an audit trail record (admin_audit_logs).
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	Actor      string    `db:"actor" json:"actor"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	Payload    []byte    `db:"payload" json:"payload,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
