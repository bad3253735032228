package models

import "time"

// AuditAction constants represent admin actions to be logged.
const (
	AuditActionLogin           = "LOGIN"
	AuditActionClassroomCreate = "CLASSROOM_CREATE"
	AuditActionClassroomDelete = "CLASSROOM_DELETE"
	AuditActionGateOpen        = "GATE_OPEN"
	AuditActionGateClose       = "GATE_CLOSE"
	AuditActionTokenUpdate     = "TOKEN_UPDATE"
	AuditActionLimitUpdate     = "LIMIT_UPDATE"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID        string    `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Action    string    `db:"action" json:"action"`
	Classroom string    `db:"classroom" json:"classroom"`
	Detail    string    `db:"detail" json:"detail,omitempty"`
	IPAddress string    `db:"ip_address" json:"ip_address"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
