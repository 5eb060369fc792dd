package handler

import (
	"Videoboxd/internal/dto"
	"Videoboxd/internal/service"
	"Videoboxd/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type CategoryHandler interface {
	ListCategories(c *gin.Context)
	GetCategory(c *gin.Context)
}

type categoryHandler struct {
	CategoryService service.CategoryService
}

func NewCategoryHandler(categoryService service.CategoryService) CategoryHandler {
	return &categoryHandler{CategoryService: categoryService}
}

func (h *categoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.CategoryService.ListCategories(c.Request.Context())
	if err != nil {
		writeServiceError(c, logger.Log.WithField("ip", c.ClientIP()), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToCategoryResponses(categories)})
}

// identifier可以是ID也可以是slug
func (h *categoryHandler) GetCategory(c *gin.Context) {
	identifier := c.Param("identifier")
	category, err := h.CategoryService.GetCategory(c.Request.Context(), identifier)
	if err != nil {
		// 直接访问分类资源时，找不到是404而不是参数错误
		if errors.Is(err, service.ErrCategoryNotFound) {
			sendErrorResponse(c, http.StatusNotFound, "分类不存在")
			return
		}
		writeServiceError(c, logger.Log.WithField("identifier", identifier), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToCategoryResponse(category)})
}
