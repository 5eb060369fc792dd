package handler

import (
	"Videoboxd/internal/dto"
	"Videoboxd/internal/service"
	"Videoboxd/pkg/logger"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type VideoHandler interface {
	CreateVideo(c *gin.Context)
	SubmitVideo(c *gin.Context)

	ListVideos(c *gin.Context)
	GetVideo(c *gin.Context)
	SearchVideos(c *gin.Context)

	UpdateVideo(c *gin.Context)
	DeleteVideo(c *gin.Context)
}

type videoHandler struct {
	IngestService service.IngestService
	VideoService  service.VideoService
}

func NewVideoHandler(ingestService service.IngestService, videoService service.VideoService) VideoHandler {
	return &videoHandler{
		IngestService: ingestService,
		VideoService:  videoService,
	}
}

type CreateVideoRequest struct {
	URL      string `json:"url" binding:"required"`
	Category string `json:"category"`
}

// SubmitVideoRequest 视频、评测、点赞一次提交，分类必填
type SubmitVideoRequest struct {
	URL        string `json:"url" binding:"required"`
	Category   string `json:"category" binding:"required"`
	ReviewText string `json:"review_text"`
	Rating     int    `json:"rating"`
	IsLiked    bool   `json:"is_liked"`
}

// nil字段不修改，categories传了就整体替换
type UpdateVideoRequest struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	Categories   *[]string `json:"categories"`
}

// 创建视频：1、解析Body，从context取userID 2、service层走入库流程 3、通过dto返回
func (h *videoHandler) CreateVideo(c *gin.Context) {
	var req CreateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Warn("创建视频参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", userID).WithField("url", req.URL)
	logCtx.Info("开始处理创建视频请求")

	result, err := h.IngestService.CreateVideo(c.Request.Context(), service.CreateVideoInput{
		OwnerID:      userID,
		OriginalURL:  req.URL,
		CategorySlug: req.Category,
	})
	if err != nil {
		writeServiceError(c, logCtx, err)
		return
	}

	// 已存在的视频返回200，新建的返回201
	status := http.StatusCreated
	if result.Existing {
		status = http.StatusOK
	}
	logCtx.WithField("video_id", result.Video.ID).Info("创建视频请求处理完成")
	c.JSON(status, gin.H{
		"message": "视频创建成功",
		"data":    dto.ToVideoResponse(result.Video),
	})
}

func (h *videoHandler) SubmitVideo(c *gin.Context) {
	var req SubmitVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Warn("提交视频参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", userID).WithField("url", req.URL)
	logCtx.Info("开始处理提交视频请求")

	result, err := h.IngestService.IngestVideo(c.Request.Context(), service.IngestVideoInput{
		OwnerID:      userID,
		OriginalURL:  req.URL,
		CategorySlug: req.Category,
		ReviewText:   req.ReviewText,
		Rating:       req.Rating,
		IsLiked:      req.IsLiked,
	})
	if err != nil {
		writeServiceError(c, logCtx, err)
		return
	}

	response := dto.SubmitVideoResponse{
		Video:    dto.ToVideoResponse(result.Video),
		Liked:    result.Like != nil,
		Existing: result.Existing,
	}
	if result.Review != nil {
		var likes int64
		if result.Like != nil {
			likes = 1
		}
		response.Review = dto.ToReviewResponse(result.Review, likes)
	}
	status := http.StatusCreated
	if result.Existing {
		status = http.StatusOK
	}
	logCtx.WithField("video_id", result.Video.ID).Info("提交视频请求处理完成")
	c.JSON(status, gin.H{
		"message": "视频提交成功",
		"data":    response,
	})
}

// 最新视频列表，?limit=控制数量
func (h *videoHandler) ListVideos(c *gin.Context) {
	logCtx := logger.Log.WithField("ip", c.ClientIP())
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	videos, err := h.VideoService.ListVideos(c.Request.Context(), limit)
	if err != nil {
		writeServiceError(c, logCtx, err)
		return
	}
	response := dto.ToVideoResponses(videos)
	logCtx.WithField("count", len(response)).Info("成功获取视频列表")
	c.JSON(http.StatusOK, gin.H{
		"message": "成功获取视频列表",
		"data":    response,
	})
}

// identifier可以是视频ID，也可以是平台视频ID
func (h *videoHandler) GetVideo(c *gin.Context) {
	identifier := c.Param("identifier")
	logCtx := logger.Log.WithField("identifier", identifier)

	video, err := h.VideoService.GetVideo(c.Request.Context(), identifier)
	if err != nil {
		writeServiceError(c, logCtx, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToVideoResponse(video)})
}

func (h *videoHandler) SearchVideos(c *gin.Context) {
	query := c.Query("q")
	logCtx := logger.Log.WithField("q", query)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	videos, err := h.VideoService.SearchVideos(c.Request.Context(), query, limit)
	if err != nil {
		writeServiceError(c, logCtx, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "搜索成功",
		"data":    dto.ToVideoResponses(videos),
	})
}

func (h *videoHandler) UpdateVideo(c *gin.Context) {
	videoID, ok := pathID(c, "video_id", "无效的视频ID")
	if !ok {
		return
	}
	var req UpdateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", userID).WithField("video_id", videoID)

	video, err := h.VideoService.UpdateVideo(c.Request.Context(), service.UpdateVideoInput{
		UserID:        userID,
		VideoID:       videoID,
		Title:         req.Title,
		Description:   req.Description,
		ThumbnailURL:  req.ThumbnailURL,
		CategorySlugs: req.Categories,
	})
	if err != nil {
		writeServiceError(c, logCtx, err)
		return
	}
	logCtx.Info("视频更新成功")
	c.JSON(http.StatusOK, gin.H{
		"message": "视频更新成功",
		"data":    dto.ToVideoResponse(video),
	})
}

func (h *videoHandler) DeleteVideo(c *gin.Context) {
	videoID, ok := pathID(c, "video_id", "无效的视频ID")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", userID).WithField("video_id", videoID)

	if err := h.VideoService.DeleteVideo(c.Request.Context(), userID, videoID); err != nil {
		writeServiceError(c, logCtx, err)
		return
	}
	logCtx.Info("视频删除成功")
	c.JSON(http.StatusOK, gin.H{"message": "视频删除成功"})
}
