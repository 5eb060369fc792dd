package handler

import (
	"Videoboxd/internal/dto"
	"Videoboxd/internal/service"
	"Videoboxd/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type UserHandler interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	GetProfile(c *gin.Context)

	ListUsers(c *gin.Context)
	GetUser(c *gin.Context)
}

// 对Service进行封装
type userHandler struct {
	UserService service.UserService
}

func NewUserHandler(userService service.UserService) UserHandler {
	return &userHandler{UserService: userService}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// 注册：1、解析注册请求结构体 2、service层注册 3、返回注册成功后的User
func (h *userHandler) Register(c *gin.Context) {
	var req RegisterRequest
	// c.ShouldBindJSON，绑定和校验，不满足binding规则时返回错误
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Warn("请求参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	logCtx := logger.Log.WithField("username", req.Username)
	logCtx.Info("开始处理用户注册请求")

	user, err := h.UserService.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		writeServiceError(c, logCtx, err)
		return
	}

	logCtx.WithField("user_id", user.ID).Info("用户注册成功")
	c.JSON(http.StatusCreated, gin.H{
		"message": "注册成功",
		"data": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

// 登录：1、解析登录结构体 2、service层登录 3、成功则返回token
func (h *userHandler) Login(c *gin.Context) {
	var login LoginRequest
	if err := c.ShouldBindJSON(&login); err != nil {
		logger.Log.WithError(err).Warn("登录请求参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	logCtx := logger.Log.WithField("username", login.Username)
	logCtx.Info("开始处理用户登录请求")

	token, err := h.UserService.Login(c.Request.Context(), login.Username, login.Password)
	if err != nil {
		writeServiceError(c, logCtx, err)
		return
	}

	logCtx.Info("用户登录成功")
	c.JSON(http.StatusOK, gin.H{
		"message": "登录成功",
		"data": gin.H{
			"token": token,
		},
	})
}

// 获取用户个人信息：userID来自认证后的context，其余字段从库里读
func (h *userHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	user, err := h.UserService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, logger.Log.WithField("user_id", userID), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功获取用户信息",
		"data":    dto.ToProfileResponse(user),
	})
}

func (h *userHandler) ListUsers(c *gin.Context) {
	users, err := h.UserService.ListUsers(c.Request.Context())
	if err != nil {
		writeServiceError(c, logger.Log.WithField("ip", c.ClientIP()), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToUserResponses(users)})
}

// identifier可以是ID、用户名或邮箱，返回里不带邮箱
func (h *userHandler) GetUser(c *gin.Context) {
	identifier := c.Param("identifier")
	detail, err := h.UserService.GetUser(c.Request.Context(), identifier)
	if err != nil {
		writeServiceError(c, logger.Log.WithField("identifier", identifier), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToUserDetailResponse(detail.User, detail.Reviews, detail.LikeCounts)})
}
