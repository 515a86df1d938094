package repository

import (
	"greenquest_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(submission *model.Submission) error {
	return r.DB.Create(submission).Error
}

func (r *SubmissionRepository) FindByID(id uint) (*model.Submission, error) {
	var s model.Submission
	err := r.DB.First(&s, id).Error
	return &s, err
}

func (r *SubmissionRepository) FindByChallenge(challengeID uint) ([]model.Submission, error) {
	var subs []model.Submission
	err := r.DB.Where("challenge_id = ?", challengeID).Order("created_at DESC").Find(&subs).Error
	return subs, err
}

func (r *SubmissionRepository) FindByUserAndChallenge(userID, challengeID uint) ([]model.Submission, error) {
	var subs []model.Submission
	err := r.DB.Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		Order("created_at DESC").Find(&subs).Error
	return subs, err
}

// SettleIfPending is the compare-and-set that closes the verification state
// machine: the row is updated only while still pending, so two racing
// verifiers cannot both win. Returns false when the submission was already
// settled.
func (r *SubmissionRepository) SettleIfPending(tx *gorm.DB, id uint, status model.VerificationStatus, verifierID uint, notes string, verifiedAt time.Time) (bool, error) {
	if tx == nil {
		tx = r.DB
	}
	res := tx.Model(&model.Submission{}).
		Where("id = ? AND verification_status = ?", id, model.VerificationPending).
		Updates(map[string]interface{}{
			"verification_status": status,
			"verification_notes":  notes,
			"verified_by":         verifierID,
			"verified_at":         verifiedAt,
		})
	return res.RowsAffected > 0, res.Error
}
