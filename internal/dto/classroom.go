package dto

// CreateClassroomRequest names a new classroom.
type CreateClassroomRequest struct {
	Name string `json:"name" validate:"required"`
}

// UpdateGateRequest opens or closes the attendance portal for a classroom.
type UpdateGateRequest struct {
	Open bool `json:"open"`
}

// UpdateTokenRequest replaces the classroom's attendance token.
type UpdateTokenRequest struct {
	Token string `json:"token"`
}

// UpdateLimitRequest replaces the classroom's daily capacity limit.
type UpdateLimitRequest struct {
	Limit int `json:"limit" validate:"required,min=1"`
}
