package service

import (
	"errors"
	"fmt"
	"greenquest_backend/internal/model"
	"greenquest_backend/internal/repository"
	"greenquest_backend/internal/util"
	"greenquest_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ChallengeService struct {
	ChallengeRepo *repository.ChallengeRepository
	UserRepo      *repository.UserRepository
	Clock         Clock
}

func NewChallengeService(challengeRepo *repository.ChallengeRepository, userRepo *repository.UserRepository, clock Clock) *ChallengeService {
	return &ChallengeService{
		ChallengeRepo: challengeRepo,
		UserRepo:      userRepo,
		Clock:         orDefault(clock),
	}
}

type ChallengeRequest struct {
	Title         string     `json:"title" binding:"required,min=3,max=200"`
	Description   string     `json:"description"`
	ChallengeType string     `json:"challengeType" binding:"required"`
	TargetValue   float64    `json:"targetValue" binding:"required"`
	PointsReward  int        `json:"pointsReward" binding:"required"`
	StartDate     *time.Time `json:"startDate"`
	EndDate       *time.Time `json:"endDate"`

	RequiresLocationVerification bool `json:"requiresLocationVerification"`
	VerificationPhotosRequired   bool `json:"verificationPhotosRequired"`

	GeofenceLat      *float64 `json:"geofenceLat"`
	GeofenceLng      *float64 `json:"geofenceLng"`
	GeofenceRadiusKM *float64 `json:"geofenceRadiusKm"`
	GeofenceAddress  string   `json:"geofenceAddress"`
}

// Create validates the creator's capability and the challenge fields, then
// persists an active challenge.
func (s *ChallengeService) Create(creatorID uint, req ChallengeRequest) (*model.Challenge, error) {
	creator, err := s.UserRepo.FindByID(creatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundf("user %d", creatorID)
		}
		return nil, util.WrapInfra(err)
	}
	if !model.HasCapability(creator.Role, model.ActionCreateChallenge) {
		return nil, fmt.Errorf("%w: role %q may not create challenges", util.ErrPermissionDenied, creator.Role)
	}

	now := s.Clock()
	if req.TargetValue < 1 {
		return nil, util.Validationf("target value must be at least 1")
	}
	if req.PointsReward < 1 {
		return nil, util.Validationf("points reward must be at least 1")
	}
	if req.EndDate != nil && !req.EndDate.After(now) {
		return nil, util.Validationf("end date must be in the future")
	}
	if req.GeofenceRadiusKM != nil && *req.GeofenceRadiusKM <= 0 {
		return nil, util.Validationf("geofence radius must be positive")
	}
	geofenceFields := 0
	for _, f := range []*float64{req.GeofenceLat, req.GeofenceLng, req.GeofenceRadiusKM} {
		if f != nil {
			geofenceFields++
		}
	}
	if geofenceFields != 0 && geofenceFields != 3 {
		return nil, util.Validationf("geofence requires latitude, longitude and radius together")
	}

	start := now
	if req.StartDate != nil {
		start = *req.StartDate
	}

	challenge := &model.Challenge{
		Title:         req.Title,
		Description:   req.Description,
		ChallengeType: req.ChallengeType,
		TargetValue:   req.TargetValue,
		PointsReward:  req.PointsReward,
		CreatorID:     creatorID,
		StartDate:     start,
		EndDate:       req.EndDate,
		IsActive:      true,

		RequiresLocationVerification: req.RequiresLocationVerification,
		VerificationPhotosRequired:   req.VerificationPhotosRequired,

		GeofenceLat:      req.GeofenceLat,
		GeofenceLng:      req.GeofenceLng,
		GeofenceRadiusKM: req.GeofenceRadiusKM,
		GeofenceAddress:  req.GeofenceAddress,
	}

	if err := s.ChallengeRepo.Create(challenge); err != nil {
		return nil, util.WrapInfra(err)
	}
	return challenge, nil
}

// ListActive returns every challenge joinable right now.
func (s *ChallengeService) ListActive() ([]model.Challenge, error) {
	challenges, err := s.ChallengeRepo.FindActive(s.Clock())
	if err != nil {
		return nil, util.WrapInfra(err)
	}
	return challenges, nil
}

// ListByCreator returns the challenges the user created, newest first.
func (s *ChallengeService) ListByCreator(creatorID uint) ([]model.Challenge, error) {
	challenges, err := s.ChallengeRepo.FindByCreator(creatorID)
	if err != nil {
		return nil, util.WrapInfra(err)
	}
	return challenges, nil
}

// Get returns a single challenge by ID.
func (s *ChallengeService) Get(challengeID uint) (*model.Challenge, error) {
	challenge, err := s.ChallengeRepo.FindByID(challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundf("challenge %d", challengeID)
		}
		return nil, util.WrapInfra(err)
	}
	return challenge, nil
}

// End soft-ends a challenge. Only the creator or a moderator may do so.
func (s *ChallengeService) End(challengeID, actorID uint) error {
	challenge, err := s.ChallengeRepo.FindByID(challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.NotFoundf("challenge %d", challengeID)
		}
		return util.WrapInfra(err)
	}

	if challenge.CreatorID != actorID {
		actor, err := s.UserRepo.FindByID(actorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.NotFoundf("user %d", actorID)
			}
			return util.WrapInfra(err)
		}
		if !model.HasCapability(actor.Role, model.ActionModerateChallenge) {
			return fmt.Errorf("%w: only the challenge creator or an admin may end it", util.ErrPermissionDenied)
		}
	}

	if err := s.ChallengeRepo.End(challengeID, s.Clock()); err != nil {
		return util.WrapInfra(err)
	}
	return nil
}

// ExpireOverdue flips the active flag on challenges whose end date passed.
// Called from the background sweep.
func (s *ChallengeService) ExpireOverdue() error {
	expired, err := s.ChallengeRepo.ExpireOverdue(s.Clock())
	if err != nil {
		return err
	}
	if expired > 0 {
		logger.Log.Info("expired overdue challenges", zap.Int64("count", expired))
	}
	return nil
}
