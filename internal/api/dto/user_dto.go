package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// UserRegisterRequest payload for new employees.
type UserRegisterRequest struct {
	EmployeeID string  `json:"employee_id"`
	FullName   string  `json:"full_name"`
	Email      string  `json:"email"`
	Department *string `json:"department"`
	Phone      *string `json:"phone"`
	Password   string  `json:"password"`
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PasswordChangeRequest payload for authenticated password changes.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse is the public view of a profile.
type UserResponse struct {
	ID                 string      `json:"id"`
	EmployeeID         string      `json:"employee_id"`
	FullName           string      `json:"full_name"`
	Email              string      `json:"email"`
	Department         *string     `json:"department"`
	Phone              *string     `json:"phone"`
	Role               domain.Role `json:"role"`
	GamificationPoints int         `json:"gamification_points"`
	CreatedAt          time.Time   `json:"created_at"`
}

// PointsEventResponse is one entry of a user's point history.
type PointsEventResponse struct {
	ID          string                       `json:"id"`
	EventType   domain.GamificationEventType `json:"event_type"`
	Points      int                          `json:"points"`
	Description *string                      `json:"description"`
	CreatedAt   time.Time                    `json:"created_at"`
}

// PointsResponse is a user's balance and recent events.
type PointsResponse struct {
	Points int                   `json:"points"`
	Events []PointsEventResponse `json:"events"`
}

// NewUserResponse maps a profile, leaving out the password hash.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:                 user.ID,
		EmployeeID:         user.EmployeeID,
		FullName:           user.FullName,
		Email:              user.Email,
		Department:         user.Department,
		Phone:              user.Phone,
		Role:               user.Role,
		GamificationPoints: user.GamificationPoints,
		CreatedAt:          user.CreatedAt,
	}
}
