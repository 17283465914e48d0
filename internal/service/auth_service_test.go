package service

import (
	"context"
	"errors"
	"testing"

	"github.com/haiminh-dev/drivemaster/internal/dto"
	"github.com/haiminh-dev/drivemaster/internal/model"
)

type fakeUserRepo struct {
	users  []model.User
	nextID int
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for i := range f.users {
		if f.users[i].Username == username {
			return &f.users[i], nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	f.nextID++
	user.ID = f.nextID
	f.users = append(f.users, *user)
	return nil
}

func TestRegisterAndLogin(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{})
	ctx := context.Background()

	user, err := svc.Register(ctx, dto.RegisterDTO{Username: "learner", Password: "password123"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == 0 || user.Username != "learner" {
		t.Errorf("registered user = %+v", user)
	}

	if _, err := svc.Register(ctx, dto.RegisterDTO{Username: "learner", Password: "other-secret"}); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}

	logged, err := svc.Login(ctx, dto.LoginDTO{Username: "learner", Password: "password123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if logged.ID != user.ID {
		t.Errorf("login returned user %d, want %d", logged.ID, user.ID)
	}

	if _, err := svc.Login(ctx, dto.LoginDTO{Username: "learner", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := svc.Login(ctx, dto.LoginDTO{Username: "nobody", Password: "password123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}
