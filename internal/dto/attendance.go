package dto

// SubmitAttendanceRequest is the student self-report payload.
type SubmitAttendanceRequest struct {
	Classroom string `json:"classroom" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Roll      string `json:"roll" validate:"required"`
	Token     string `json:"token" validate:"required"`
}

// LedgerView is the admin-facing rendering of a classroom ledger.
type LedgerView struct {
	Classroom string              `json:"classroom"`
	Columns   []string            `json:"columns"`
	Rows      []map[string]string `json:"rows"`
}

// PortalUpdate is the long-poll response for the change signal.
type PortalUpdate struct {
	Signal  string `json:"signal"`
	Changed bool   `json:"changed"`
}
