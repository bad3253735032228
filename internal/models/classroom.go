package models

// ClassroomSettings is the per-classroom gating tuple. A classroom with no
// persisted entry resolves to the defaults: closed portal, empty token,
// limit 1.
type ClassroomSettings struct {
	Classroom string `json:"classroom"`
	Open      bool   `json:"open"`
	Token     string `json:"token"`
	Limit     int    `json:"limit"`
}

// DefaultLimit is the daily capacity applied when no limit was ever set.
const DefaultLimit = 1

// MarkResult describes the outcome of a successful attendance submission.
type MarkResult struct {
	Classroom string `json:"classroom"`
	Roll      string `json:"roll"`
	Name      string `json:"name"`
	Date      string `json:"date"`
	NewRow    bool   `json:"new_row"`
}
