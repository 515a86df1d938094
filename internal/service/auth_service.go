package service

import (
	"errors"
	"greenquest_backend/internal/config"
	"greenquest_backend/internal/model"
	"greenquest_backend/internal/repository"
	"greenquest_backend/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
	Clock    Clock
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config, clock Clock) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
		Clock:    orDefault(clock),
	}
}

// Register creates a user account. Self-registration may claim any role
// except admin; admin accounts are provisioned through the admin surface.
func (s *AuthService) Register(user *model.User) error {
	if user.Role == "" {
		user.Role = model.Student
	}
	if user.Role == model.Admin || !model.ValidRole(user.Role) {
		return util.Validationf("role %q cannot be self-assigned", user.Role)
	}

	_, err := s.UserRepo.FindByEmail(user.Email)
	if err == nil {
		return util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return util.WrapInfra(err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	if err := s.UserRepo.Create(user); err != nil {
		return util.WrapInfra(err)
	}
	return nil
}

func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		return "", util.ErrInvalidCredentials
	}
	if user.Disabled {
		return "", util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", util.ErrInvalidCredentials
	}

	user.LastLogin = s.Clock()
	if err := s.UserRepo.Update(user); err != nil {
		return "", util.WrapInfra(err)
	}

	return util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, _ := s.UserRepo.FindByID(claims.UserID)
	return user
}
