package dto

import (
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/observability"
)

// StatsResponse is the admin dashboard payload.
type StatsResponse struct {
	*domain.Stats
	Assistant observability.MetricsSnapshot `json:"assistant"`
}

// RoleUpdateRequest payload for changing a profile's role.
type RoleUpdateRequest struct {
	Role domain.Role `json:"role"`
}

// NewUserResponses maps a profile listing.
func NewUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}
