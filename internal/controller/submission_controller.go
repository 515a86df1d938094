package controller

import (
	"fmt"
	"path/filepath"

	"greenquest_backend/internal/model"
	"greenquest_backend/internal/service"
	"greenquest_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SubmissionController struct {
	SubmissionService   *service.SubmissionService
	VerificationService *service.VerificationService
	StorageService      *service.StorageService
}

func NewSubmissionController(
	submissionService *service.SubmissionService,
	verificationService *service.VerificationService,
	storageService *service.StorageService,
) *SubmissionController {
	return &SubmissionController{
		SubmissionService:   submissionService,
		VerificationService: verificationService,
		StorageService:      storageService,
	}
}

// Submit godoc
// @Summary Submit completion proof
// @Description Records a pending submission for the caller's participation
// @Tags submissions
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Challenge ID"
// @Param   body body service.SubmissionRequest true "Proof payload"
// @Success 201 {object} util.Response{data=model.Submission} "Submitted"
// @Failure 400 {object} util.Response "Location outside challenge area"
// @Failure 422 {object} util.Response "Not participating or missing required proof"
// @Router /api/challenges/{id}/submissions [post]
func (c *SubmissionController) Submit(ctx *gin.Context) {
	var req service.SubmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	submission, err := c.SubmissionService.Submit(user.UserID, util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Created(ctx, submission)
}

// ListForChallenge godoc
// @Summary List a challenge's submissions
// @Description Creator or a reviewer role only
// @Tags submissions
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Challenge ID"
// @Success 200 {object} util.Response{data=[]model.Submission} "Submissions"
// @Failure 403 {object} util.Response "Not allowed to review"
// @Router /api/challenges/{id}/submissions [get]
func (c *SubmissionController) ListForChallenge(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	submissions, err := c.SubmissionService.ListForChallenge(util.MustParseUint(ctx.Param("id")), user.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, submissions)
}

// ListMine godoc
// @Summary My submissions for a challenge
// @Tags submissions
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Challenge ID"
// @Success 200 {object} util.Response{data=[]model.Submission} "Submissions"
// @Router /api/challenges/{id}/submissions/mine [get]
func (c *SubmissionController) ListMine(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	submissions, err := c.SubmissionService.ListMine(user.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, submissions)
}

type VerifyRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected"`
	Notes    string `json:"notes"`
}

// Verify godoc
// @Summary Verify a submission
// @Description Settles a pending submission; creator or a reviewer role only
// @Tags submissions
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Submission ID"
// @Param   body body VerifyRequest true "Decision"
// @Success 200 {object} util.Response{data=model.Submission} "Settled"
// @Failure 403 {object} util.Response "Not allowed to verify"
// @Failure 409 {object} util.Response "Already verified"
// @Router /api/submissions/{id}/verify [post]
func (c *SubmissionController) Verify(ctx *gin.Context) {
	var req VerifyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	submission, err := c.VerificationService.Verify(
		util.MustParseUint(ctx.Param("id")),
		user.UserID,
		model.VerificationStatus(req.Decision),
		req.Notes,
	)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, submission)
}

// UploadPhoto godoc
// @Summary Upload a proof photo
// @Description Stores the photo and returns its URL for use in a submission
// @Tags submissions
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "Photo file"
// @Success 201 {object} util.Response{data=object} "Photo URL"
// @Failure 400 {object} util.Response "Missing or unsupported file"
// @Router /api/submissions/photos [post]
func (c *SubmissionController) UploadPhoto(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "photo file is required")
		return
	}

	if !util.AllowedPhotoExtension(fileHeader.Filename) {
		util.BadRequest(ctx, "unsupported photo format")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	mimeType, err := util.ValidateMimeType(file, []string{util.MimeImage})
	if err != nil {
		util.BadRequest(ctx, "file is not an image")
		return
	}
	if _, err := file.Seek(0, 0); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	user := util.GetUserFromContext(ctx)
	filename := fmt.Sprintf("submissions/%d/%s%s", user.UserID, uuid.New().String(), filepath.Ext(fileHeader.Filename))

	url, err := c.StorageService.Upload(ctx.Request.Context(), filename, file, fileHeader.Size, mimeType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"url": url})
}
