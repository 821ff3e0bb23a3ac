package models

import "time"

// Parent relationships.
const (
	RelationshipFather   = "father"
	RelationshipMother   = "mother"
	RelationshipGuardian = "guardian"
)

// Parent is the profile of a user with the parent role. Children are weak references;
// only the join rows are owned by the parent.
type Parent struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User             User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Children         []Student `gorm:"many2many:parent_children;" json:"-"`
	Occupation       string    `gorm:"size:255" json:"occupation"`
	EmergencyContact string    `gorm:"size:64" json:"emergency_contact"`
	Relationship     string    `gorm:"size:16;not null;default:father" json:"relationship"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Admin is the profile of a user with the admin role.
type Admin struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User        User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Designation string    `gorm:"size:128;not null" json:"designation"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
