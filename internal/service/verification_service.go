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

// VerificationService settles pending submissions. The state machine is
// pending -> approved | rejected; both outcomes are terminal and a settled
// submission can never be reopened.
type VerificationService struct {
	DB                *gorm.DB
	SubmissionRepo    *repository.SubmissionRepository
	ParticipationRepo *repository.ParticipationRepository
	ChallengeRepo     *repository.ChallengeRepository
	UserRepo          *repository.UserRepository
	Bus               *CompletionBus
	Notifier          *NotificationService
	Clock             Clock
}

func NewVerificationService(
	db *gorm.DB,
	submissionRepo *repository.SubmissionRepository,
	participationRepo *repository.ParticipationRepository,
	challengeRepo *repository.ChallengeRepository,
	userRepo *repository.UserRepository,
	bus *CompletionBus,
	notifier *NotificationService,
	clock Clock,
) *VerificationService {
	return &VerificationService{
		DB:                db,
		SubmissionRepo:    submissionRepo,
		ParticipationRepo: participationRepo,
		ChallengeRepo:     challengeRepo,
		UserRepo:          userRepo,
		Bus:               bus,
		Notifier:          notifier,
		Clock:             orDefault(clock),
	}
}

// Verify applies an approve/reject decision to a pending submission.
// Authorization: the owning challenge's creator, or a role holding the
// review capability. The status flip is a conditional update on the pending
// state, so two racing verifications cannot both succeed; approval marks
// the owning participation completed in the same transaction and then
// publishes the completion event.
func (s *VerificationService) Verify(submissionID, verifierID uint, decision model.VerificationStatus, notes string) (*model.Submission, error) {
	if decision != model.VerificationApproved && decision != model.VerificationRejected {
		return nil, util.Validationf("decision must be %q or %q", model.VerificationApproved, model.VerificationRejected)
	}

	submission, err := s.SubmissionRepo.FindByID(submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundf("submission %d", submissionID)
		}
		return nil, util.WrapInfra(err)
	}

	challenge, err := s.ChallengeRepo.FindByID(submission.ChallengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundf("challenge %d", submission.ChallengeID)
		}
		return nil, util.WrapInfra(err)
	}

	if challenge.CreatorID != verifierID {
		verifier, err := s.UserRepo.FindByID(verifierID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.NotFoundf("user %d", verifierID)
			}
			return nil, util.WrapInfra(err)
		}
		if !model.HasCapability(verifier.Role, model.ActionReviewSubmissions) {
			return nil, fmt.Errorf("%w: only the challenge creator or a reviewer may verify submissions", util.ErrPermissionDenied)
		}
	}

	now := s.Clock()
	var completedNow bool
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		settled, err := s.SubmissionRepo.SettleIfPending(tx, submissionID, decision, verifierID, notes, now)
		if err != nil {
			return util.WrapInfra(err)
		}
		if !settled {
			return fmt.Errorf("%w: this submission has already been %s", util.ErrAlreadyVerified, submission.VerificationStatus)
		}

		if decision == model.VerificationApproved {
			completedNow, err = s.ParticipationRepo.MarkCompleted(tx, submission.ParticipationID, now)
			if err != nil {
				return util.WrapInfra(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	submission.VerificationStatus = decision
	submission.VerificationNotes = notes
	submission.VerifiedBy = &verifierID
	submission.VerifiedAt = &now

	monitoring.SubmissionsVerified.WithLabelValues(string(decision)).Inc()

	// Rejection leaves the participation untouched; the user may submit
	// again. An approval on an already-completed participation does not
	// re-publish the completion.
	if decision == model.VerificationApproved && completedNow {
		s.Bus.Publish(ParticipationCompleted{
			ChallengeID: submission.ChallengeID,
			UserID:      submission.UserID,
			Score:       float64(challenge.PointsReward),
			CompletedAt: now,
		})
	}
	s.Notifier.SubmissionVerified(submission.UserID, challenge, decision)

	return submission, nil
}
