package controller

import (
	"strconv"

	"greenquest_backend/internal/service"
	"greenquest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	NotificationService *service.NotificationService
}

func NewNotificationController(notificationService *service.NotificationService) *NotificationController {
	return &NotificationController{
		NotificationService: notificationService,
	}
}

// ListMine godoc
// @Summary My notifications
// @Tags notifications
// @Produce  json
// @Security ApiKeyAuth
// @Param   limit query int false "Maximum entries (default 50)"
// @Success 200 {object} util.Response{data=[]model.Notification} "Notifications"
// @Router /api/notifications/mine [get]
func (c *NotificationController) ListMine(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	user := util.GetUserFromContext(ctx)
	notifications, err := c.NotificationService.ListMine(user.UserID, limit)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, notifications)
}

// MarkRead godoc
// @Summary Mark a notification read
// @Tags notifications
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Notification ID"
// @Success 200 {object} util.Response "Marked"
// @Failure 404 {object} util.Response "Notification not found"
// @Router /api/notifications/{id}/read [post]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if err := c.NotificationService.MarkRead(util.MustParseUint(ctx.Param("id")), user.UserID); err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}
