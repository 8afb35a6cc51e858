package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// StaffService manages profile roles and lists the IT team.
type StaffService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

// StaffDependencies encapsulates repositories required for role management.
type StaffDependencies struct {
	UserRepo repository.UserRepository
	Logger   *zap.Logger
}

// UserListFilters define listing parameters.
type UserListFilters struct {
	Role   *domain.Role
	Limit  int
	Offset int
}

// NewStaffService constructs the service.
func NewStaffService(deps StaffDependencies) *StaffService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaffService{users: deps.UserRepo, logger: logger}
}

func requireAdmin(actor *domain.User) error {
	if actor == nil || actor.Role != domain.RoleITAdmin {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}

// ListStaff returns IT support and IT admin profiles, for example to pick an
// assignee.
func (s *StaffService) ListStaff(ctx context.Context) ([]domain.User, error) {
	return s.list(ctx, repository.UserFilter{
		Roles: []domain.Role{domain.RoleITSupport, domain.RoleITAdmin},
		Limit: 100,
	})
}

// ListUsers returns profiles for administrators.
func (s *StaffService) ListUsers(ctx context.Context, actor *domain.User, filters UserListFilters) ([]domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	filter := repository.UserFilter{Limit: filters.Limit, Offset: filters.Offset}
	if filters.Role != nil {
		if !filters.Role.Valid() {
			return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": *filters.Role})
		}
		filter.Roles = []domain.Role{*filters.Role}
	}
	return s.list(ctx, filter)
}

// SetRole changes a profile's role. Administrators cannot change their own
// role, so the last admin can never lock themselves out.
func (s *StaffService) SetRole(ctx context.Context, actor *domain.User, userID string, role domain.Role) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": role})
	}
	if userID == actor.ID {
		return nil, apperrors.NewConflict("cannot change your own role", nil)
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if user.Role == role {
		return user, nil
	}
	previous := user.Role
	user.Role = role
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("role changed",
		zap.String("user_id", user.ID),
		zap.String("from", string(previous)),
		zap.String("to", string(role)),
		zap.String("by", actor.ID),
	)
	return user, nil
}

func (s *StaffService) list(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}
