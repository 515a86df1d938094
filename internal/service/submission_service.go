package service

import (
	"errors"
	"fmt"
	"greenquest_backend/internal/model"
	"greenquest_backend/internal/repository"
	"greenquest_backend/internal/util"
	"math"

	"gorm.io/gorm"
)

type SubmissionService struct {
	SubmissionRepo    *repository.SubmissionRepository
	ParticipationRepo *repository.ParticipationRepository
	ChallengeRepo     *repository.ChallengeRepository
	UserRepo          *repository.UserRepository
	Clock             Clock
}

func NewSubmissionService(
	submissionRepo *repository.SubmissionRepository,
	participationRepo *repository.ParticipationRepository,
	challengeRepo *repository.ChallengeRepository,
	userRepo *repository.UserRepository,
	clock Clock,
) *SubmissionService {
	return &SubmissionService{
		SubmissionRepo:    submissionRepo,
		ParticipationRepo: participationRepo,
		ChallengeRepo:     challengeRepo,
		UserRepo:          userRepo,
		Clock:             orDefault(clock),
	}
}

type SubmissionLocation struct {
	Lat     float64 `json:"lat" binding:"required"`
	Lng     float64 `json:"lng" binding:"required"`
	Address string  `json:"address"`
}

type SubmissionRequest struct {
	SubmissionText string              `json:"submissionText"`
	PhotoURLs      []string            `json:"photoUrls"`
	Location       *SubmissionLocation `json:"location"`
}

// Submit records a proof-of-completion for the caller's participation. The
// challenge's proof requirements are enforced at creation time; the
// submission starts pending and waits for a verifier.
func (s *SubmissionService) Submit(userID, challengeID uint, req SubmissionRequest) (*model.Submission, error) {
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
			return nil, fmt.Errorf("%w: you must join this challenge before submitting", util.ErrNotParticipating)
		}
		return nil, util.WrapInfra(err)
	}

	if challenge.VerificationPhotosRequired && len(req.PhotoURLs) == 0 {
		return nil, fmt.Errorf("%w: this challenge requires at least one photo", util.ErrMissingRequiredProof)
	}
	if challenge.RequiresLocationVerification && req.Location == nil {
		return nil, fmt.Errorf("%w: this challenge requires a submission location", util.ErrMissingRequiredProof)
	}
	if challenge.HasGeofence() && req.Location != nil {
		distance := haversineKM(*challenge.GeofenceLat, *challenge.GeofenceLng, req.Location.Lat, req.Location.Lng)
		if distance > *challenge.GeofenceRadiusKM {
			return nil, util.Validationf("submission location is %.1f km outside the challenge area", distance-*challenge.GeofenceRadiusKM)
		}
	}

	submission := &model.Submission{
		ChallengeID:        challengeID,
		ParticipationID:    participation.ID,
		UserID:             userID,
		SubmissionText:     req.SubmissionText,
		PhotoURLs:          req.PhotoURLs,
		VerificationStatus: model.VerificationPending,
	}
	if req.Location != nil {
		submission.LocationLat = &req.Location.Lat
		submission.LocationLng = &req.Location.Lng
		submission.LocationAddress = req.Location.Address
	}

	if err := s.SubmissionRepo.Create(submission); err != nil {
		return nil, util.WrapInfra(err)
	}
	return submission, nil
}

// ListForChallenge returns every submission for a challenge, newest first.
// Only the challenge creator or a reviewer role may list them.
func (s *SubmissionService) ListForChallenge(challengeID, requestorID uint) ([]model.Submission, error) {
	challenge, err := s.ChallengeRepo.FindByID(challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundf("challenge %d", challengeID)
		}
		return nil, util.WrapInfra(err)
	}

	if challenge.CreatorID != requestorID {
		requestor, err := s.UserRepo.FindByID(requestorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.NotFoundf("user %d", requestorID)
			}
			return nil, util.WrapInfra(err)
		}
		if !model.HasCapability(requestor.Role, model.ActionReviewSubmissions) {
			return nil, fmt.Errorf("%w: only the challenge creator or a reviewer may list submissions", util.ErrPermissionDenied)
		}
	}

	subs, err := s.SubmissionRepo.FindByChallenge(challengeID)
	if err != nil {
		return nil, util.WrapInfra(err)
	}
	return subs, nil
}

// ListMine returns the caller's own submissions for a challenge, any status.
func (s *SubmissionService) ListMine(userID, challengeID uint) ([]model.Submission, error) {
	subs, err := s.SubmissionRepo.FindByUserAndChallenge(userID, challengeID)
	if err != nil {
		return nil, util.WrapInfra(err)
	}
	return subs, nil
}

const earthRadiusKM = 6371.0

// haversineKM computes the great-circle distance between two coordinates.
func haversineKM(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKM * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
