package tag

import (
	"github.com/gin-gonic/gin"

	"terminal-terrace/engtheory/internal/dto"
)

type TagHandler struct {
	service *TagService
}

func NewTagHandler(service *TagService) *TagHandler {
	return &TagHandler{service: service}
}

// ListTags 获取全部标签
// @Summary 标签列表
// @Tags 标签
// @Router /tags [get]
func (h *TagHandler) ListTags(c *gin.Context) {
	tags, err := h.service.List(c.Request.Context())
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, tags)
}

// GetTag 根据 slug 获取标签
// @Summary 获取标签
// @Tags 标签
// @Param slug path string true "标签 slug"
// @Router /tags/{slug} [get]
func (h *TagHandler) GetTag(c *gin.Context) {
	t, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, t)
}

// CreateTag 创建标签
// @Summary 创建标签
// @Tags 标签
// @Router /tags [post]
func (h *TagHandler) CreateTag(c *gin.Context) {
	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ParseErrorResponse(c, err)
		return
	}

	t, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, t)
}

// UpdateTag 重命名标签
// @Summary 重命名标签
// @Tags 标签
// @Param id path int true "标签ID"
// @Router /tags/{id} [patch]
func (h *TagHandler) UpdateTag(c *gin.Context) {
	id, ok := dto.ParseID(c, "id")
	if !ok {
		return
	}

	var req UpdateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ParseErrorResponse(c, err)
		return
	}

	t, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, t)
}

// DeleteTag 删除标签，文章保留
// @Summary 删除标签
// @Tags 标签
// @Param id path int true "标签ID"
// @Router /tags/{id} [delete]
func (h *TagHandler) DeleteTag(c *gin.Context) {
	id, ok := dto.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, nil)
}
