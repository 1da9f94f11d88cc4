package usecase_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/dealerdesk/dealerdesk/internal/domain"
	"github.com/dealerdesk/dealerdesk/internal/usecase"
	"github.com/dealerdesk/dealerdesk/internal/usecase/mocks"
)

func newUserUseCase(ctrl *gomock.Controller, domains []string) (*usecase.UserUseCase, *mocks.MockUserRepository) {
	userRepo := mocks.NewMockUserRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)
	idGen.EXPECT().Generate().Return("user-1").AnyTimes()
	return usecase.NewUserUseCase(userRepo, idGen, domains), userRepo
}

func TestUserUseCase_CreateUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, userRepo := newUserUseCase(ctrl, []string{"dealerdesk.in"})

	userRepo.EXPECT().GetByEmail(gomock.Any(), "ravi@dealerdesk.in").Return(nil, domain.ErrUserNotFound)
	userRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	user, err := uc.CreateUser(context.Background(), usecase.CreateUserInput{
		CallerRoles: []domain.Role{domain.RoleAdmin},
		Email:       "  Ravi@DealerDesk.in ",
		Name:        "Ravi Kumar",
		Roles:       []domain.Role{domain.RoleSales},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "ravi@dealerdesk.in" {
		t.Errorf("expected lowercased email, got %q", user.Email)
	}
	if !user.Active {
		t.Error("expected new user active")
	}
}

func TestUserUseCase_CreateUser_NonAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, _ := newUserUseCase(ctrl, nil)

	_, err := uc.CreateUser(context.Background(), usecase.CreateUserInput{
		CallerRoles: []domain.Role{domain.RoleSales},
		Email:       "x@y.in",
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserUseCase_CreateUser_DomainNotAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, _ := newUserUseCase(ctrl, []string{"dealerdesk.in"})

	_, err := uc.CreateUser(context.Background(), usecase.CreateUserInput{
		CallerRoles: []domain.Role{domain.RoleAdmin},
		Email:       "outsider@gmail.com",
	})
	if !errors.Is(err, domain.ErrEmailDomainNotAllowed) {
		t.Fatalf("expected ErrEmailDomainNotAllowed, got %v", err)
	}
}

func TestUserUseCase_CreateUser_DuplicateEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, userRepo := newUserUseCase(ctrl, nil)

	userRepo.EXPECT().GetByEmail(gomock.Any(), "ravi@dealerdesk.in").Return(&domain.User{ID: "existing"}, nil)

	_, err := uc.CreateUser(context.Background(), usecase.CreateUserInput{
		CallerRoles: []domain.Role{domain.RoleAdmin},
		Email:       "ravi@dealerdesk.in",
	})
	if !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestUserUseCase_ListUsers_NonAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, _ := newUserUseCase(ctrl, nil)

	_, err := uc.ListUsers(context.Background(), usecase.ListUsersInput{
		CallerRoles: []domain.Role{domain.RoleAccounts},
		Limit:       50,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserUseCase_UpdateRoles(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, userRepo := newUserUseCase(ctrl, nil)

	userRepo.EXPECT().GetByID(gomock.Any(), "user-2").Return(&domain.User{
		ID:    "user-2",
		Roles: []domain.Role{domain.RoleSales},
	}, nil)
	userRepo.EXPECT().UpdateRoles(gomock.Any(), "user-2", []domain.Role{domain.RoleSales, domain.RoleAccounts}, gomock.Any()).Return(nil)

	user, err := uc.UpdateRoles(context.Background(), usecase.UpdateRolesInput{
		CallerRoles: []domain.Role{domain.RoleAdmin},
		UserID:      "user-2",
		Roles:       []domain.Role{domain.RoleSales, domain.RoleAccounts},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(user.Roles) != 2 {
		t.Errorf("expected 2 roles, got %d", len(user.Roles))
	}
}

func TestUserUseCase_UpdateRoles_UserNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, userRepo := newUserUseCase(ctrl, nil)

	userRepo.EXPECT().GetByID(gomock.Any(), "ghost").Return(nil, domain.ErrUserNotFound)

	_, err := uc.UpdateRoles(context.Background(), usecase.UpdateRolesInput{
		CallerRoles: []domain.Role{domain.RoleAdmin},
		UserID:      "ghost",
	})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
