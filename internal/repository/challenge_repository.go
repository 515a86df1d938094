package repository

import (
	"greenquest_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type ChallengeRepository struct {
	DB *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{DB: db}
}

func (r *ChallengeRepository) Create(challenge *model.Challenge) error {
	return r.DB.Create(challenge).Error
}

func (r *ChallengeRepository) FindByID(id uint) (*model.Challenge, error) {
	var challenge model.Challenge
	err := r.DB.First(&challenge, id).Error
	return &challenge, err
}

// FindActive returns challenges that are flagged active and whose end date,
// if set, lies after now. Ordered newest first.
func (r *ChallengeRepository) FindActive(now time.Time) ([]model.Challenge, error) {
	var challenges []model.Challenge
	err := r.DB.
		Where("is_active = ?", true).
		Where("end_date IS NULL OR end_date > ?", now).
		Order("created_at DESC").
		Find(&challenges).Error
	return challenges, err
}

func (r *ChallengeRepository) FindByCreator(creatorID uint) ([]model.Challenge, error) {
	var challenges []model.Challenge
	err := r.DB.Where("creator_id = ?", creatorID).Order("created_at DESC").Find(&challenges).Error
	return challenges, err
}

// End soft-ends a challenge: active flag off, end date stamped.
func (r *ChallengeRepository) End(id uint, endedAt time.Time) error {
	return r.DB.Model(&model.Challenge{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active": false,
			"end_date":  endedAt,
		}).Error
}

// ExpireOverdue flips the active flag on every challenge whose end date has
// passed. Used by the background sweep; returns the number of rows touched.
func (r *ChallengeRepository) ExpireOverdue(now time.Time) (int64, error) {
	res := r.DB.Model(&model.Challenge{}).
		Where("is_active = ? AND end_date IS NOT NULL AND end_date <= ?", true, now).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}
