package repository

import (
	"greenquest_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type LeaderboardRepository struct {
	DB *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) *LeaderboardRepository {
	return &LeaderboardRepository{DB: db}
}

// Upsert inserts or updates the (challenge_id, user_id) row inside one
// transaction, keeping the best score and the earliest completion time.
// The unique index backs this up against concurrent completions.
func (r *LeaderboardRepository) Upsert(challengeID, userID uint, score float64, completedAt time.Time) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var entry model.LeaderboardEntry
		err := tx.Where("challenge_id = ? AND user_id = ?", challengeID, userID).First(&entry).Error
		if err == gorm.ErrRecordNotFound {
			return tx.Create(&model.LeaderboardEntry{
				ChallengeID: challengeID,
				UserID:      userID,
				Score:       score,
				CompletedAt: completedAt,
			}).Error
		}
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if score > entry.Score {
			updates["score"] = score
		}
		if completedAt.Before(entry.CompletedAt) {
			updates["completed_at"] = completedAt
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&entry).Updates(updates).Error
	})
}

// Top returns entries ordered by score descending, ties broken by earliest
// completion.
func (r *LeaderboardRepository) Top(challengeID uint, limit int) ([]model.LeaderboardEntry, error) {
	var entries []model.LeaderboardEntry
	err := r.DB.Where("challenge_id = ?", challengeID).
		Order("score DESC").Order("completed_at ASC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
