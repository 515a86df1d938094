package service

import (
	"errors"
	"fmt"
	"greenquest_backend/internal/model"
	"greenquest_backend/internal/repository"
	"greenquest_backend/internal/util"
	"greenquest_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserService carries the admin-facing account operations: the role
// provider the permission checks depend on needs an authoring surface.
type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) GetUsers(page, limit int) ([]model.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	users, total, err := s.UserRepo.List(page, limit)
	if err != nil {
		return nil, 0, util.WrapInfra(err)
	}
	return users, total, nil
}

func (s *UserService) GetUser(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundf("user %d", id)
		}
		return nil, util.WrapInfra(err)
	}
	return user, nil
}

// SetRole changes a user's role. Only callers holding the manage-users
// capability get here; the admin route group enforces that.
func (s *UserService) SetRole(id uint, role model.UserRole) error {
	if !model.ValidRole(role) {
		return util.Validationf("unknown role %q", role)
	}
	if _, err := s.GetUser(id); err != nil {
		return err
	}
	if err := s.UserRepo.UpdateRole(id, role); err != nil {
		return util.WrapInfra(err)
	}
	return nil
}

func (s *UserService) Disable(id uint) error {
	user, err := s.GetUser(id)
	if err != nil {
		return err
	}
	if user.Role == model.Admin {
		return fmt.Errorf("%w: admin accounts cannot be disabled", util.ErrPermissionDenied)
	}
	if err := s.UserRepo.SetDisabled(id, true); err != nil {
		return util.WrapInfra(err)
	}
	return nil
}

// CreditPoints is the completion-bus subscriber that moves the challenge's
// point reward onto the user's lifetime total.
func (s *UserService) CreditPoints(event ParticipationCompleted) {
	if err := s.UserRepo.AddPoints(event.UserID, int(event.Score)); err != nil {
		logger.Log.Error("points credit failed",
			zap.Uint("userId", event.UserID),
			zap.Error(err))
	}
}
