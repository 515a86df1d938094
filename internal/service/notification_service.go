package service

import (
	"context"
	"encoding/json"
	"fmt"
	"greenquest_backend/internal/model"
	"greenquest_backend/internal/repository"
	"greenquest_backend/internal/util"
	"greenquest_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const notificationChannel = "greenquest:notifications"

// NotificationService is the fire-and-forget sink. Every publishing method
// logs failures and returns nothing: a lost notification must never fail
// the operation that produced it.
type NotificationService struct {
	NotificationRepo *repository.NotificationRepository
	Redis            *redis.Client
}

func NewNotificationService(notificationRepo *repository.NotificationRepository, rdb *redis.Client) *NotificationService {
	return &NotificationService{
		NotificationRepo: notificationRepo,
		Redis:            rdb,
	}
}

func (s *NotificationService) ChallengeJoined(userID uint, challenge *model.Challenge) {
	s.deliver(&model.Notification{
		UserID:      userID,
		Type:        model.NotificationChallengeJoined,
		Message:     fmt.Sprintf("You joined the challenge %q", challenge.Title),
		ChallengeID: &challenge.ID,
	})
}

func (s *NotificationService) SubmissionVerified(userID uint, challenge *model.Challenge, decision model.VerificationStatus) {
	s.deliver(&model.Notification{
		UserID:      userID,
		Type:        model.NotificationSubmissionVerified,
		Message:     fmt.Sprintf("Your submission for %q was %s", challenge.Title, decision),
		ChallengeID: &challenge.ID,
	})
}

// HandleCompletion is the completion-bus subscriber.
func (s *NotificationService) HandleCompletion(event ParticipationCompleted) {
	s.deliver(&model.Notification{
		UserID:      event.UserID,
		Type:        model.NotificationChallengeCompleted,
		Message:     fmt.Sprintf("Challenge completed! You earned %.0f points", event.Score),
		ChallengeID: &event.ChallengeID,
	})
}

func (s *NotificationService) deliver(n *model.Notification) {
	if s == nil {
		return
	}
	if err := s.NotificationRepo.Create(n); err != nil {
		logger.Log.Warn("notification write failed",
			zap.Uint("userId", n.UserID),
			zap.String("type", string(n.Type)),
			zap.Error(err))
		return
	}

	if s.Redis != nil {
		payload, err := json.Marshal(n)
		if err != nil {
			return
		}
		if err := s.Redis.Publish(context.Background(), notificationChannel, payload).Err(); err != nil {
			logger.Log.Warn("notification publish failed", zap.Error(err))
		}
	}
}

// ListMine returns the caller's latest notifications.
func (s *NotificationService) ListMine(userID uint, limit int) ([]model.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	ns, err := s.NotificationRepo.FindByUser(userID, limit)
	if err != nil {
		return nil, util.WrapInfra(err)
	}
	return ns, nil
}

func (s *NotificationService) MarkRead(id, userID uint) error {
	if err := s.NotificationRepo.MarkRead(id, userID); err != nil {
		return util.WrapInfra(err)
	}
	return nil
}
