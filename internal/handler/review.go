package handler

import (
	"Videoboxd/internal/dto"
	"Videoboxd/internal/service"
	"Videoboxd/pkg/logger"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ReviewHandler interface {
	ListReviews(c *gin.Context)
	GetReview(c *gin.Context)
	CreateReview(c *gin.Context)
	UpdateReview(c *gin.Context)
	DeleteReview(c *gin.Context)
}

type reviewHandler struct {
	ReviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) ReviewHandler {
	return &reviewHandler{ReviewService: reviewService}
}

type CreateReviewRequest struct {
	Rating int    `json:"rating" binding:"required"`
	Text   string `json:"text"`
}

type UpdateReviewRequest struct {
	Rating *int    `json:"rating"`
	Text   *string `json:"text"`
}

// 评测列表，?video_id=只看某个视频的
func (h *reviewHandler) ListReviews(c *gin.Context) {
	var videoID *uint64
	if raw := c.Query("video_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			sendErrorResponse(c, http.StatusBadRequest, "无效的视频ID")
			return
		}
		videoID = &id
	}
	logCtx := logger.Log.WithField("video_id", c.Query("video_id"))

	reviews, likeCounts, err := h.ReviewService.ListReviews(c.Request.Context(), videoID)
	if err != nil {
		writeServiceError(c, logCtx, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "获取评测列表成功",
		"data":    dto.ToReviewResponses(reviews, likeCounts),
	})
}

func (h *reviewHandler) GetReview(c *gin.Context) {
	reviewID, ok := pathID(c, "review_id", "无效的评测ID")
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("review_id", reviewID)

	review, likeCount, err := h.ReviewService.GetReview(c.Request.Context(), reviewID)
	if err != nil {
		writeServiceError(c, logCtx, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToReviewResponse(review, likeCount)})
}

// 对视频发表评测，同一用户再次提交会覆盖之前的评测
func (h *reviewHandler) CreateReview(c *gin.Context) {
	videoID, ok := pathID(c, "video_id", "无效的视频ID")
	if !ok {
		return
	}
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Warn("评测参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", userID).WithField("video_id", videoID)
	logCtx.Info("开始发表评测")

	review, err := h.ReviewService.UpsertReview(c.Request.Context(), service.UpsertReviewInput{
		UserID:  userID,
		VideoID: videoID,
		Rating:  req.Rating,
		Text:    req.Text,
	})
	if err != nil {
		writeServiceError(c, logCtx, err)
		return
	}
	logCtx.WithField("review_id", review.ID).Info("评测发表成功")
	c.JSON(http.StatusCreated, gin.H{
		"message": "评测成功",
		"data":    dto.ToReviewResponse(review, 0),
	})
}

func (h *reviewHandler) UpdateReview(c *gin.Context) {
	reviewID, ok := pathID(c, "review_id", "无效的评测ID")
	if !ok {
		return
	}
	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", userID).WithField("review_id", reviewID)

	review, err := h.ReviewService.UpdateReview(c.Request.Context(), service.UpdateReviewInput{
		UserID:   userID,
		ReviewID: reviewID,
		Rating:   req.Rating,
		Text:     req.Text,
	})
	if err != nil {
		writeServiceError(c, logCtx, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "评测更新成功",
		"data":    dto.ToReviewResponse(review, 0),
	})
}

func (h *reviewHandler) DeleteReview(c *gin.Context) {
	reviewID, ok := pathID(c, "review_id", "无效的评测ID")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", userID).WithField("review_id", reviewID)

	if err := h.ReviewService.DeleteReview(c.Request.Context(), userID, reviewID); err != nil {
		writeServiceError(c, logCtx, err)
		return
	}
	logCtx.Info("评测删除成功")
	c.JSON(http.StatusOK, gin.H{"message": "评测删除成功"})
}
