package service

import (
	"context"
	"encoding/json"
	"fmt"
	"greenquest_backend/internal/repository"
	"greenquest_backend/internal/util"
	"greenquest_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const leaderboardCacheTTL = 30 * time.Second

// LeaderboardService maintains the per-challenge ranking projection. It is
// fed through the completion bus rather than called by the verification or
// progress code directly.
type LeaderboardService struct {
	LeaderboardRepo *repository.LeaderboardRepository
	UserRepo        *repository.UserRepository
	Redis           *redis.Client
}

func NewLeaderboardService(leaderboardRepo *repository.LeaderboardRepository, userRepo *repository.UserRepository, rdb *redis.Client) *LeaderboardService {
	return &LeaderboardService{
		LeaderboardRepo: leaderboardRepo,
		UserRepo:        userRepo,
		Redis:           rdb,
	}
}

type RankedEntry struct {
	Rank        int       `json:"rank"`
	UserID      uint      `json:"userId"`
	Name        string    `json:"name"`
	Avatar      string    `json:"avatar,omitempty"`
	Score       float64   `json:"score"`
	CompletedAt time.Time `json:"completedAt"`
}

// HandleCompletion is the completion-bus subscriber: upsert the entry and
// drop the cached ranking for that challenge.
func (s *LeaderboardService) HandleCompletion(event ParticipationCompleted) {
	if err := s.Upsert(event.ChallengeID, event.UserID, event.Score, event.CompletedAt); err != nil {
		logger.Log.Error("leaderboard upsert failed",
			zap.Uint("challengeId", event.ChallengeID),
			zap.Uint("userId", event.UserID),
			zap.Error(err))
	}
}

// Upsert inserts or refreshes the (challenge, user) row, keeping the best
// score when called more than once for the same pair.
func (s *LeaderboardService) Upsert(challengeID, userID uint, score float64, completedAt time.Time) error {
	if err := s.LeaderboardRepo.Upsert(challengeID, userID, score, completedAt); err != nil {
		return util.WrapInfra(err)
	}
	s.invalidateCache(challengeID)
	return nil
}

// Rank returns the top entries for a challenge annotated with a 1-based
// rank. Reads go through a short-lived Redis cache when one is wired.
func (s *LeaderboardService) Rank(challengeID uint, limit int) ([]RankedEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	cacheKey := fmt.Sprintf("greenquest:leaderboard:%d:%d", challengeID, limit)
	if s.Redis != nil {
		if cached, err := s.Redis.Get(context.Background(), cacheKey).Result(); err == nil {
			var ranked []RankedEntry
			if json.Unmarshal([]byte(cached), &ranked) == nil {
				return ranked, nil
			}
		}
	}

	entries, err := s.LeaderboardRepo.Top(challengeID, limit)
	if err != nil {
		return nil, util.WrapInfra(err)
	}

	ids := make([]uint, len(entries))
	for i, e := range entries {
		ids[i] = e.UserID
	}
	users, err := s.UserRepo.FindByIDs(ids)
	if err != nil {
		return nil, util.WrapInfra(err)
	}

	ranked := make([]RankedEntry, len(entries))
	for i, e := range entries {
		ranked[i] = RankedEntry{
			Rank:        i + 1,
			UserID:      e.UserID,
			Name:        users[e.UserID].Name,
			Avatar:      users[e.UserID].Avatar,
			Score:       e.Score,
			CompletedAt: e.CompletedAt,
		}
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(ranked); err == nil {
			if err := s.Redis.Set(context.Background(), cacheKey, payload, leaderboardCacheTTL).Err(); err != nil {
				logger.Log.Warn("leaderboard cache write failed", zap.Error(err))
			}
		}
	}

	return ranked, nil
}

func (s *LeaderboardService) invalidateCache(challengeID uint) {
	if s.Redis == nil {
		return
	}
	ctx := context.Background()
	pattern := fmt.Sprintf("greenquest:leaderboard:%d:*", challengeID)
	keys, err := s.Redis.Keys(ctx, pattern).Result()
	if err != nil {
		logger.Log.Warn("leaderboard cache scan failed", zap.Error(err))
		return
	}
	if len(keys) > 0 {
		s.Redis.Del(ctx, keys...)
	}
}
