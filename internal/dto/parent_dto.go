package dto

import "github.com/noah-isme/school-portal-api/internal/models"

// ParentResponse is a parent profile joined with its user.
type ParentResponse struct {
	ID               uint              `json:"id"`
	User             UserSummary       `json:"user"`
	Occupation       string            `json:"occupation"`
	EmergencyContact string            `json:"emergency_contact"`
	Relationship     string            `json:"relationship"`
	ChildIDs         []uint            `json:"child_ids"`
	Children         []StudentResponse `json:"children,omitempty"`
}

// NewParentResponse converts a parent model with its child references.
func NewParentResponse(parent models.Parent, childIDs []uint) ParentResponse {
	if childIDs == nil {
		childIDs = []uint{}
	}
	return ParentResponse{
		ID:               parent.ID,
		User:             newUserSummary(parent.User),
		Occupation:       parent.Occupation,
		EmergencyContact: parent.EmergencyContact,
		Relationship:     parent.Relationship,
		ChildIDs:         childIDs,
	}
}

// NewChildResponse projects a child with only the name of its user.
func NewChildResponse(student models.Student) StudentResponse {
	return NewStudentResponse(student, NameOnlySummary(student.User))
}
