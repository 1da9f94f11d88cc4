package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dealerdesk/dealerdesk/internal/domain"
)

// UserUseCase handles admin-only user administration: listing, creation
// against an organizational email-domain allowlist, and role updates.
type UserUseCase struct {
	userRepo UserRepository
	idGen    IDGenerator

	allowedEmailDomains []string
}

// NewUserUseCase creates a new UserUseCase.
func NewUserUseCase(userRepo UserRepository, idGen IDGenerator, allowedEmailDomains []string) *UserUseCase {
	return &UserUseCase{
		userRepo:            userRepo,
		idGen:               idGen,
		allowedEmailDomains: allowedEmailDomains,
	}
}

func requireAdmin(callerRoles []domain.Role) error {
	if !domain.HasAnyRole(callerRoles, domain.RoleAdmin) {
		return domain.ErrForbidden
	}
	return nil
}

// ListUsersInput pages through users.
type ListUsersInput struct {
	CallerRoles []domain.Role
	Limit       int
	Offset      int
}

// ListUsers lists users, admin only.
func (uc *UserUseCase) ListUsers(ctx context.Context, input ListUsersInput) ([]*domain.User, error) {
	if err := requireAdmin(input.CallerRoles); err != nil {
		return nil, err
	}
	return uc.userRepo.List(ctx, input.Limit, input.Offset)
}

// CreateUserInput describes a new user account.
type CreateUserInput struct {
	CallerRoles []domain.Role
	Email       string
	Name        string
	Roles       []domain.Role
}

// CreateUser creates a user, admin only. The email must pass syntax checks
// and, when an allowlist is configured, belong to an allowed domain.
func (uc *UserUseCase) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if err := requireAdmin(input.CallerRoles); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}
	if !domain.EmailDomainAllowed(email, uc.allowedEmailDomains) {
		return nil, domain.ErrEmailDomainNotAllowed
	}

	if existing, err := uc.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, domain.ErrEmailExists
	} else if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:        uc.idGen.Generate(),
		Email:     email,
		Name:      input.Name,
		Roles:     input.Roles,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// UpdateRolesInput replaces a user's role set.
type UpdateRolesInput struct {
	CallerRoles []domain.Role
	UserID      string
	Roles       []domain.Role
}

// UpdateRoles replaces a user's roles, admin only.
func (uc *UserUseCase) UpdateRoles(ctx context.Context, input UpdateRolesInput) (*domain.User, error) {
	if err := requireAdmin(input.CallerRoles); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := uc.userRepo.UpdateRoles(ctx, user.ID, input.Roles, now); err != nil {
		return nil, err
	}

	user.Roles = input.Roles
	user.UpdatedAt = now

	return user, nil
}
