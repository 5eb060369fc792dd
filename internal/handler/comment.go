package handler

import (
	"Videoboxd/internal/dto"
	"Videoboxd/internal/service"
	"Videoboxd/pkg/logger"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CommentHandler interface {
	CreateComment(c *gin.Context)
	GetComments(c *gin.Context)
}

type commentHandler struct {
	CommentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) CommentHandler {
	return &commentHandler{CommentService: commentService}
}

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// 评测下发表评论：1、解析URL中的reviewID 2、解析Body 3、获取context中的userID 4、创建评论并返回
func (h *commentHandler) CreateComment(c *gin.Context) {
	reviewID, ok := pathID(c, "review_id", "无效的评测ID")
	if !ok {
		return
	}
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Warn("评论参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数") // 400
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	// 正式进入业务前，将logger格式整理好
	logCtx := logger.Log.WithField("user_id", userID).WithField("review_id", reviewID)
	logCtx.Info("开始创建评论")
	comment, err := h.CommentService.CreateComment(c.Request.Context(), userID, reviewID, req.Text)
	if err != nil {
		writeServiceError(c, logCtx, err)
		return
	}
	logCtx.WithField("comment_id", comment.ID).Info("评论创建成功")
	c.JSON(http.StatusCreated, gin.H{ //201
		"message": "评论成功",
		"data":    dto.ToCommentResponse(comment),
	})
}

// 获取评测下的评论，分页参数page/page_size
func (h *commentHandler) GetComments(c *gin.Context) {
	reviewID, ok := pathID(c, "review_id", "无效的评测ID")
	if !ok {
		return
	}
	// 在URL的查询参数里找page这个键，没找到就返回默认值“1”
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	comments, err := h.CommentService.ListComments(c.Request.Context(), reviewID, page, pageSize)
	if err != nil {
		writeServiceError(c, logger.Log.WithField("review_id", reviewID), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "获取评论列表成功",
		"data":    dto.ToCommentResponses(comments),
	})
}
