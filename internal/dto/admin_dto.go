package dto

import (
	"time"

	"github.com/noah-isme/school-portal-api/internal/models"
)

// PaginationMeta captures pagination metadata for list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// AdminDashboardResponse is the dashboard counter snapshot.
type AdminDashboardResponse struct {
	TotalStudents int64     `json:"total_students"`
	TotalTeachers int64     `json:"total_teachers"`
	TotalParents  int64     `json:"total_parents"`
	ActiveUsers   int64     `json:"active_users"`
	GeneratedAt   time.Time `json:"generated_at"`
	CacheHit      bool      `json:"cache_hit"`
}

// AdminUserListRequest filters the user listing.
type AdminUserListRequest struct {
	Role   string `validate:"omitempty,oneof=admin teacher student parent"`
	Search string `validate:"omitempty,max=255"`
	Active *bool
}

// AdminActivityListRequest defines filters for retrieving activity logs.
type AdminActivityListRequest struct {
	Page     int    `validate:"gte=0"`
	PageSize int    `validate:"gte=0,lte=100"`
	ActorID  uint
	Role     string `validate:"omitempty,oneof=admin teacher student parent system"`
	Action   string `validate:"omitempty,max=64"`
}

// AdminActivityResponse serializes activity log entries.
type AdminActivityResponse struct {
	ID         uint                   `json:"id"`
	ActorID    uint                   `json:"actor_id"`
	ActorRole  string                 `json:"actor_role"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   *uint                  `json:"entity_id"`
	Metadata   map[string]interface{} `json:"metadata"`
	CreatedAt  time.Time              `json:"created_at"`
}

// AdminActivityListResponse wraps paginated activity logs.
type AdminActivityListResponse struct {
	Items      []AdminActivityResponse `json:"items"`
	Pagination PaginationMeta          `json:"pagination"`
}

// NewAdminActivityResponse converts a model into an activity DTO.
func NewAdminActivityResponse(entry models.ActivityLog) AdminActivityResponse {
	metadata := map[string]interface{}{}
	for key, value := range entry.Metadata {
		metadata[key] = value
	}

	return AdminActivityResponse{
		ID:         entry.ID,
		ActorID:    entry.ActorID,
		ActorRole:  entry.ActorRole,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Metadata:   metadata,
		CreatedAt:  entry.CreatedAt,
	}
}
