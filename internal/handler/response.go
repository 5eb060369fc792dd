package handler

import (
	"Videoboxd/internal/service"
	"Videoboxd/internal/source"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrorResponse 定义了标准的API错误响应结构
type ErrorResponse struct {
	Error string `json:"error"`
}

// sendErrorResponse 是一个辅助函数，用于发送标准格式的错误响应
func sendErrorResponse(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Error: message})
}

// 业务错误到HTTP状态码的映射，按顺序匹配
var serviceErrors = []struct {
	err     error
	code    int
	message string
}{
	{source.ErrInvalidSourceURL, http.StatusBadRequest, "无效的视频链接"},
	{source.ErrMetadataNotFound, http.StatusNotFound, "来源平台上找不到该视频"},
	{source.ErrMetadataUnavailable, http.StatusBadGateway, "暂时无法获取视频信息，请稍后再试"},
	{service.ErrPlatformNotFound, http.StatusNotFound, "视频平台不存在"},
	{service.ErrCategoryNotFound, http.StatusBadRequest, "分类不存在"},
	{service.ErrDuplicateVideo, http.StatusConflict, "视频已存在"},
	{service.ErrVideoNotFound, http.StatusNotFound, "视频不存在"},
	{service.ErrReviewNotFound, http.StatusNotFound, "评测不存在"},
	{service.ErrForbidden, http.StatusForbidden, "没有权限操作该资源"},
	{service.ErrAlreadyLiked, http.StatusConflict, "您已经点赞过该评测"},
	{service.ErrNotLiked, http.StatusNotFound, "您还未点赞该评测"},
	{service.ErrLikeRequiresReview, http.StatusBadRequest, "点赞需要同时提交评测"},
	{service.ErrInvalidRating, http.StatusBadRequest, "评分必须在1到5之间"},
	{service.ErrUsernameTaken, http.StatusConflict, "用户名已存在"},
	{service.ErrEmailTaken, http.StatusConflict, "邮箱已被注册"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "用户名或密码错误"},
	{service.ErrUserNotFound, http.StatusNotFound, "用户不存在"},
}

// writeServiceError 把service返回的错误统一翻译成响应，5xx记Error日志，其余记Warn
func writeServiceError(c *gin.Context, logCtx *logrus.Entry, err error) {
	for _, e := range serviceErrors {
		if errors.Is(err, e.err) {
			if e.code >= http.StatusInternalServerError {
				logCtx.WithError(err).Error("请求处理失败")
			} else {
				logCtx.WithError(err).Warn("请求处理失败")
			}
			sendErrorResponse(c, e.code, e.message)
			return
		}
	}
	// 包括ErrCommitFailed在内的其他错误，不把内部细节暴露给用户
	logCtx.WithError(err).Error("请求处理失败")
	sendErrorResponse(c, http.StatusInternalServerError, "服务器内部错误")
}

// 因为context中的userID是从jwt中间件中解析的，jwt.MapClaims中的数字会解析为float64
func currentUserID(c *gin.Context) (uint64, bool) {
	userIDFloat, exists := c.Get("userID")
	if !exists {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证") // 401
		return 0, false
	}
	id, ok := userIDFloat.(float64)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return 0, false
	}
	return uint64(id), true
}

// URL路径参数统一转成uint64
func pathID(c *gin.Context, name, message string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, message)
		return 0, false
	}
	return id, true
}
