package service

import (
	"testing"
	"time"

	"greenquest_backend/internal/model"
	"greenquest_backend/internal/repository"
	"greenquest_backend/pkg/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testNow is the frozen instant every test clock returns.
var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func frozenClock() time.Time {
	return testNow
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	// A single connection keeps the in-memory database alive and shared.
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, name string, role model.UserRole) *model.User {
	t.Helper()

	user := &model.User{
		Name:     name,
		Email:    name + "@example.org",
		Password: "irrelevant",
		Role:     role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return user
}

// fixture bundles the wired services most workflow tests need. The bus has
// the same three subscribers production wires: leaderboard, points credit
// and the completion notification.
type fixture struct {
	db            *gorm.DB
	bus           *CompletionBus
	challenge     *ChallengeService
	participation *ParticipationService
	submission    *SubmissionService
	verification  *VerificationService
	leaderboard   *LeaderboardService
	notification  *NotificationService
	user          *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)

	userRepo := repository.NewUserRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)
	participationRepo := repository.NewParticipationRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	leaderboardRepo := repository.NewLeaderboardRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	bus := NewCompletionBus()
	notification := NewNotificationService(notificationRepo, nil)
	leaderboard := NewLeaderboardService(leaderboardRepo, userRepo, nil)
	user := NewUserService(userRepo)

	bus.Subscribe(leaderboard.HandleCompletion)
	bus.Subscribe(user.CreditPoints)
	bus.Subscribe(notification.HandleCompletion)

	return &fixture{
		db:            db,
		bus:           bus,
		challenge:     NewChallengeService(challengeRepo, userRepo, frozenClock),
		participation: NewParticipationService(participationRepo, challengeRepo, bus, notification, frozenClock),
		submission:    NewSubmissionService(submissionRepo, participationRepo, challengeRepo, userRepo, frozenClock),
		verification:  NewVerificationService(db, submissionRepo, participationRepo, challengeRepo, userRepo, bus, notification, frozenClock),
		leaderboard:   leaderboard,
		notification:  notification,
		user:          user,
	}
}

func (f *fixture) createChallenge(t *testing.T, creatorID uint, req ChallengeRequest) *model.Challenge {
	t.Helper()
	challenge, err := f.challenge.Create(creatorID, req)
	if err != nil {
		t.Fatalf("create challenge: %v", err)
	}
	return challenge
}

func basicChallengeRequest() ChallengeRequest {
	return ChallengeRequest{
		Title:         "Plastic-free week",
		Description:   "Avoid single-use plastic for seven days",
		ChallengeType: "recycling",
		TargetValue:   7,
		PointsReward:  100,
	}
}
