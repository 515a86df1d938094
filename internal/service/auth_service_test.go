package service

import (
	"errors"
	"testing"
	"time"

	"greenquest_backend/internal/config"
	"greenquest_backend/internal/model"
	"greenquest_backend/internal/repository"
	"greenquest_backend/internal/util"
)

func newAuthService(t *testing.T) (*AuthService, *config.Config) {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-not-for-production-use"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repository.NewUserRepository(db), cfg, frozenClock), cfg
}

func TestRegisterDefaultsAndRoleGuard(t *testing.T) {
	auth, _ := newAuthService(t)

	user := &model.User{Name: "greta", Email: "greta@example.org", Password: "hunter22"}
	if err := auth.Register(user); err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != model.Student {
		t.Errorf("role should default to student, got %s", user.Role)
	}
	if user.Password == "hunter22" {
		t.Error("password must be stored hashed")
	}

	for _, role := range []model.UserRole{model.Admin, "superuser"} {
		u := &model.User{Name: "mallory", Email: "mallory@example.org", Password: "hunter22", Role: role}
		if err := auth.Register(u); !errors.Is(err, util.ErrValidation) {
			t.Errorf("role %q: expected validation error, got %v", role, err)
		}
	}

	dup := &model.User{Name: "greta again", Email: "greta@example.org", Password: "hunter22"}
	if err := auth.Register(dup); !errors.Is(err, util.ErrEmailRegistered) {
		t.Errorf("duplicate email: expected registered error, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	auth, cfg := newAuthService(t)

	user := &model.User{Name: "greta", Email: "greta@example.org", Password: "hunter22", Role: model.Teacher}
	if err := auth.Register(user); err != nil {
		t.Fatalf("register: %v", err)
	}

	token, err := auth.Login("greta@example.org", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := util.ParseJWT(token, cfg.JWT.Secret)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != model.Teacher {
		t.Errorf("claims = %+v, want user %d with role teacher", claims, user.ID)
	}

	if _, err := auth.Login("greta@example.org", "wrong"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Errorf("wrong password: expected invalid credentials, got %v", err)
	}
	if _, err := auth.Login("nobody@example.org", "hunter22"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Errorf("unknown email: expected invalid credentials, got %v", err)
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	auth, _ := newAuthService(t)

	user := &model.User{Name: "greta", Email: "greta@example.org", Password: "hunter22"}
	if err := auth.Register(user); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := auth.UserRepo.SetDisabled(user.ID, true); err != nil {
		t.Fatalf("disable: %v", err)
	}

	if _, err := auth.Login("greta@example.org", "hunter22"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Errorf("disabled account must not log in, got %v", err)
	}
}
