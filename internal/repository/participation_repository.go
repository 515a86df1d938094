package repository

import (
	"greenquest_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type ParticipationRepository struct {
	DB *gorm.DB
}

func NewParticipationRepository(db *gorm.DB) *ParticipationRepository {
	return &ParticipationRepository{DB: db}
}

// Create inserts a participation. The unique (challenge_id, user_id) index
// is the real guard against double joins; callers must map
// gorm.ErrDuplicatedKey to the already-joined failure.
func (r *ParticipationRepository) Create(p *model.Participation) error {
	return r.DB.Create(p).Error
}

func (r *ParticipationRepository) FindByUserAndChallenge(userID, challengeID uint) (*model.Participation, error) {
	var p model.Participation
	err := r.DB.Where("user_id = ? AND challenge_id = ?", userID, challengeID).First(&p).Error
	return &p, err
}

func (r *ParticipationRepository) FindByUser(userID uint) ([]model.Participation, error) {
	var ps []model.Participation
	err := r.DB.Where("user_id = ?", userID).Order("joined_at DESC").Find(&ps).Error
	return ps, err
}

// UpdateProgress writes the clamped progress value. The completed flag is
// monotonic: once set it is never written back to false here.
func (r *ParticipationRepository) UpdateProgress(id uint, progress float64) error {
	return r.DB.Model(&model.Participation{}).Where("id = ?", id).
		Update("current_progress", progress).Error
}

// MarkCompleted sets the completed flag and stamp only if not already
// completed, keeping completed_at at the first completion time.
func (r *ParticipationRepository) MarkCompleted(tx *gorm.DB, id uint, completedAt time.Time) (bool, error) {
	if tx == nil {
		tx = r.DB
	}
	res := tx.Model(&model.Participation{}).
		Where("id = ? AND completed = ?", id, false).
		Updates(map[string]interface{}{
			"completed":    true,
			"completed_at": completedAt,
		})
	return res.RowsAffected > 0, res.Error
}
