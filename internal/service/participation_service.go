package service

import (
	"errors"
	"fmt"
	"greenquest_backend/internal/model"
	"greenquest_backend/internal/repository"
	"greenquest_backend/internal/util"
	"greenquest_backend/pkg/monitoring"

	"gorm.io/gorm"
)

type ParticipationService struct {
	ParticipationRepo *repository.ParticipationRepository
	ChallengeRepo     *repository.ChallengeRepository
	Bus               *CompletionBus
	Notifier          *NotificationService
	Clock             Clock
}

func NewParticipationService(
	participationRepo *repository.ParticipationRepository,
	challengeRepo *repository.ChallengeRepository,
	bus *CompletionBus,
	notifier *NotificationService,
	clock Clock,
) *ParticipationService {
	return &ParticipationService{
		ParticipationRepo: participationRepo,
		ChallengeRepo:     challengeRepo,
		Bus:               bus,
		Notifier:          notifier,
		Clock:             orDefault(clock),
	}
}

// Join enrolls a user into an active challenge. A second join for the same
// pair fails with the already-joined error, whether caught by the pre-check
// or by the unique index under racing requests.
func (s *ParticipationService) Join(userID, challengeID uint) (*model.Participation, error) {
	challenge, err := s.ChallengeRepo.FindByID(challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundf("challenge %d", challengeID)
		}
		return nil, util.WrapInfra(err)
	}

	now := s.Clock()
	if !challenge.ActiveAt(now) {
		return nil, fmt.Errorf("%w: %q is no longer accepting participants", util.ErrChallengeInactive, challenge.Title)
	}

	if _, err := s.ParticipationRepo.FindByUserAndChallenge(userID, challengeID); err == nil {
		return nil, fmt.Errorf("%w: you have already joined %q", util.ErrAlreadyJoined, challenge.Title)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.WrapInfra(err)
	}

	participation := &model.Participation{
		ChallengeID: challengeID,
		UserID:      userID,
		JoinedAt:    now,
	}
	if err := s.ParticipationRepo.Create(participation); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: you have already joined %q", util.ErrAlreadyJoined, challenge.Title)
		}
		return nil, util.WrapInfra(err)
	}

	monitoring.ChallengesJoined.Inc()
	s.Notifier.ChallengeJoined(userID, challenge)
	return participation, nil
}

// UpdateProgress clamps the reported progress to [0, target] and completes
// the participation when the target is reached. Completion is monotonic:
// later calls with lower values move the progress number but never unset
// the completed flag, and the completion event fires at most once.
func (s *ParticipationService) UpdateProgress(userID, challengeID uint, progress float64) (*model.Participation, error) {
	challenge, err := s.ChallengeRepo.FindByID(challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundf("challenge %d", challengeID)
		}
		return nil, util.WrapInfra(err)
	}

	participation, err := s.ParticipationRepo.FindByUserAndChallenge(userID, challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: you must join this challenge before reporting progress", util.ErrNotParticipating)
		}
		return nil, util.WrapInfra(err)
	}

	clamped := progress
	if clamped < 0 {
		clamped = 0
	}
	if clamped > challenge.TargetValue {
		clamped = challenge.TargetValue
	}

	if err := s.ParticipationRepo.UpdateProgress(participation.ID, clamped); err != nil {
		return nil, util.WrapInfra(err)
	}
	participation.CurrentProgress = clamped

	if clamped >= challenge.TargetValue && !participation.Completed {
		now := s.Clock()
		completed, err := s.ParticipationRepo.MarkCompleted(nil, participation.ID, now)
		if err != nil {
			return nil, util.WrapInfra(err)
		}
		if completed {
			participation.Completed = true
			participation.CompletedAt = &now
			s.Bus.Publish(ParticipationCompleted{
				ChallengeID: challengeID,
				UserID:      userID,
				Score:       float64(challenge.PointsReward),
				CompletedAt: now,
			})
		}
	}

	return participation, nil
}

// ListMine returns the caller's participations, newest join first.
func (s *ParticipationService) ListMine(userID uint) ([]model.Participation, error) {
	ps, err := s.ParticipationRepo.FindByUser(userID)
	if err != nil {
		return nil, util.WrapInfra(err)
	}
	return ps, nil
}
