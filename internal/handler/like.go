package handler

import (
	"Videoboxd/internal/service"
	"Videoboxd/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type LikeHandler interface {
	LikeReview(c *gin.Context)
	UnlikeReview(c *gin.Context)
}

type likeHandler struct {
	LikeService service.LikeService
}

func NewLikeHandler(likeService service.LikeService) LikeHandler {
	return &likeHandler{LikeService: likeService}
}

// 评测点赞：1、从URL通过:review_id获取reviewID 2、从认证后的context获取userID 3、执行点赞服务
func (h *likeHandler) LikeReview(c *gin.Context) {
	reviewID, ok := pathID(c, "review_id", "无效的评测ID")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", userID).WithField("review_id", reviewID)

	if _, err := h.LikeService.LikeReview(c.Request.Context(), userID, reviewID); err != nil {
		writeServiceError(c, logCtx, err)
		return
	}
	logCtx.Info("点赞成功")
	c.JSON(http.StatusOK, gin.H{"message": "点赞成功"})
}

func (h *likeHandler) UnlikeReview(c *gin.Context) {
	reviewID, ok := pathID(c, "review_id", "无效的评测ID")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", userID).WithField("review_id", reviewID)

	if err := h.LikeService.UnlikeReview(c.Request.Context(), userID, reviewID); err != nil {
		writeServiceError(c, logCtx, err)
		return
	}
	logCtx.Info("取消点赞成功")
	c.JSON(http.StatusOK, gin.H{"message": "取消点赞成功"})
}
