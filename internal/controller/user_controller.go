package controller

import (
	"strconv"

	"greenquest_backend/internal/model"
	"greenquest_backend/internal/service"
	"greenquest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{
		UserService: userService,
	}
}

// List godoc
// @Summary List users
// @Description Paged user listing; admin only
// @Tags users
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "Page (default 1)"
// @Param   limit query int false "Page size (default 20)"
// @Success 200 {object} util.PageResponse{data=[]model.User} "Users"
// @Failure 403 {object} util.Response "Forbidden"
// @Router /api/admin/users [get]
func (c *UserController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	users, total, err := c.UserService.GetUsers(page, limit)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.SuccessPage(ctx, users, total, page, limit)
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// SetRole godoc
// @Summary Change a user's role
// @Tags users
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "User ID"
// @Param   body body SetRoleRequest true "New role"
// @Success 200 {object} util.Response "Updated"
// @Failure 400 {object} util.Response "Unknown role"
// @Failure 404 {object} util.Response "User not found"
// @Router /api/admin/users/{id}/role [put]
func (c *UserController) SetRole(ctx *gin.Context) {
	var req SetRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.SetRole(util.MustParseUint(ctx.Param("id")), model.UserRole(req.Role)); err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// Disable godoc
// @Summary Disable a user account
// @Description Disabled accounts can no longer log in; admin accounts are refused
// @Tags users
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "User ID"
// @Success 200 {object} util.Response "Disabled"
// @Failure 403 {object} util.Response "Cannot disable an admin"
// @Failure 404 {object} util.Response "User not found"
// @Router /api/admin/users/{id}/disable [post]
func (c *UserController) Disable(ctx *gin.Context) {
	if err := c.UserService.Disable(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}
