package repository

import (
	"greenquest_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

// FindByIDs returns the users keyed by id, for annotating leaderboards.
func (r *UserRepository) FindByIDs(ids []uint) (map[uint]model.User, error) {
	var users []model.User
	if len(ids) == 0 {
		return map[uint]model.User{}, nil
	}
	if err := r.DB.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}

func (r *UserRepository) List(page, limit int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	if err := r.DB.Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Order("id").Offset((page - 1) * limit).Limit(limit).Find(&users).Error
	return users, total, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) UpdateRole(id uint, role model.UserRole) error {
	return r.DB.Model(&model.User{}).Where("id = ?", id).Update("role", role).Error
}

func (r *UserRepository) SetDisabled(id uint, disabled bool) error {
	return r.DB.Model(&model.User{}).Where("id = ?", id).Update("disabled", disabled).Error
}

// AddPoints credits reward points atomically.
func (r *UserRepository) AddPoints(id uint, points int) error {
	return r.DB.Model(&model.User{}).Where("id = ?", id).
		Update("points", gorm.Expr("points + ?", points)).Error
}
