package topic

import (
	"github.com/gin-gonic/gin"

	"terminal-terrace/engtheory/internal/dto"
	"terminal-terrace/engtheory/internal/middleware"
)

type TopicHandler struct {
	service *TopicService
}

func NewTopicHandler(service *TopicService) *TopicHandler {
	return &TopicHandler{service: service}
}

// ListTopics 获取主题列表
// @Summary 主题列表
// @Description 按展示顺序返回主题，管理员可见草稿
// @Tags 主题
// @Produce json
// @Success 200 {object} response.Response{data=[]topicModel.Topic}
// @Router /topics [get]
func (h *TopicHandler) ListTopics(c *gin.Context) {
	topics, err := h.service.List(c.Request.Context(), middleware.IsAdmin(c))
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, topics)
}

// GetTopic 根据 slug 获取主题
// @Summary 获取主题
// @Tags 主题
// @Produce json
// @Param slug path string true "主题 slug"
// @Success 200 {object} response.Response{data=TopicDetail}
// @Router /topics/{slug} [get]
func (h *TopicHandler) GetTopic(c *gin.Context) {
	detail, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"), middleware.IsAdmin(c))
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, detail)
}

// CreateTopic 创建主题
// @Summary 创建主题
// @Tags 主题
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTopicRequest true "创建主题请求"
// @Router /topics [post]
func (h *TopicHandler) CreateTopic(c *gin.Context) {
	var req CreateTopicRequest
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

// UpdateTopic 部分更新主题
// @Summary 更新主题
// @Tags 主题
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "主题ID"
// @Param request body UpdateTopicRequest true "更新主题请求"
// @Router /topics/{id} [patch]
func (h *TopicHandler) UpdateTopic(c *gin.Context) {
	id, ok := dto.ParseID(c, "id")
	if !ok {
		return
	}

	var req UpdateTopicRequest
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

// PublishTopic 发布主题
// @Summary 发布主题
// @Tags 主题
// @Security BearerAuth
// @Param id path int true "主题ID"
// @Router /topics/{id}/publish [post]
func (h *TopicHandler) PublishTopic(c *gin.Context) {
	h.setPublished(c, true)
}

// UnpublishTopic 撤回主题为草稿
// @Summary 撤回主题
// @Tags 主题
// @Security BearerAuth
// @Param id path int true "主题ID"
// @Router /topics/{id}/unpublish [post]
func (h *TopicHandler) UnpublishTopic(c *gin.Context) {
	h.setPublished(c, false)
}

func (h *TopicHandler) setPublished(c *gin.Context, published bool) {
	id, ok := dto.ParseID(c, "id")
	if !ok {
		return
	}

	t, err := h.service.setPublished(c.Request.Context(), id, published)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, t)
}

// DeleteTopic 删除主题
// @Summary 删除主题
// @Description 删除主题及其下所有文章（级联删除）
// @Tags 主题
// @Security BearerAuth
// @Param id path int true "主题ID"
// @Success 200 {object} response.Response{data=DeleteTopicResponse}
// @Router /topics/{id} [delete]
func (h *TopicHandler) DeleteTopic(c *gin.Context) {
	id, ok := dto.ParseID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, result)
}
