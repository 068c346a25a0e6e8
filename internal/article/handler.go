package article

import (
	"github.com/gin-gonic/gin"

	"terminal-terrace/engtheory/internal/dto"
	"terminal-terrace/engtheory/internal/middleware"
)

type ArticleHandler struct {
	service *ArticleService
}

func NewArticleHandler(service *ArticleService) *ArticleHandler {
	return &ArticleHandler{service: service}
}

// ListArticles 获取文章列表
// @Summary 文章列表
// @Description 支持按主题、标签、作者筛选，最新的在前；非管理员只能看到已发布文章
// @Tags 文章
// @Produce json
// @Param topic_id query int false "主题ID"
// @Param tag_slug query string false "标签 slug"
// @Param author_id query int false "作者ID"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=dto.Page[ArticleDetail]}
// @Router /articles [get]
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	var q ListArticlesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		dto.ParseErrorResponse(c, err)
		return
	}
	if !middleware.IsAdmin(c) {
		q.PublishedOnly = true
	}

	page, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, page)
}

// GetArticle 阅读文章
// @Summary 获取文章
// @Description 已发布文章每次读取阅读量加一；草稿仅管理员可见且不计数
// @Tags 文章
// @Produce json
// @Param slug path string true "文章 slug"
// @Success 200 {object} response.Response{data=ArticleDetail}
// @Router /articles/{slug} [get]
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	detail, err := h.service.View(c.Request.Context(), c.Param("slug"), middleware.IsAdmin(c))
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, detail)
}

// CreateArticle 创建文章
// @Summary 创建文章
// @Tags 文章
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateArticleRequest true "创建文章请求"
// @Success 200 {object} response.Response{data=ArticleDetail}
// @Router /articles [post]
func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	var req CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ParseErrorResponse(c, err)
		return
	}
	if req.AuthorID == nil {
		if claims, ok := middleware.CurrentClaims(c); ok {
			uid := claims.UserID
			req.AuthorID = &uid
		}
	}

	detail, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, detail)
}

// UpdateArticle 部分更新文章
// @Summary 更新文章
// @Tags 文章
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "文章ID"
// @Param request body UpdateArticleRequest true "更新文章请求"
// @Success 200 {object} response.Response{data=ArticleDetail}
// @Router /articles/{id} [patch]
func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	id, ok := dto.ParseID(c, "id")
	if !ok {
		return
	}

	var req UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ParseErrorResponse(c, err)
		return
	}

	detail, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, detail)
}

// SetTags 替换文章标签
// @Summary 设置文章标签
// @Description 用给定集合整体替换，重复的ID会合并，空集合移除全部标签
// @Tags 文章
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "文章ID"
// @Param request body SetTagsRequest true "标签ID列表"
// @Router /articles/{id}/tags [put]
func (h *ArticleHandler) SetTags(c *gin.Context) {
	id, ok := dto.ParseID(c, "id")
	if !ok {
		return
	}

	var req SetTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ParseErrorResponse(c, err)
		return
	}

	tags, err := h.service.SetTags(c.Request.Context(), id, req.TagIDs)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, tags)
}

// PublishArticle 发布文章
// @Summary 发布文章
// @Tags 文章
// @Security BearerAuth
// @Param id path int true "文章ID"
// @Router /articles/{id}/publish [post]
func (h *ArticleHandler) PublishArticle(c *gin.Context) {
	h.setPublished(c, true)
}

// UnpublishArticle 撤回文章为草稿
// @Summary 撤回文章
// @Tags 文章
// @Security BearerAuth
// @Param id path int true "文章ID"
// @Router /articles/{id}/unpublish [post]
func (h *ArticleHandler) UnpublishArticle(c *gin.Context) {
	h.setPublished(c, false)
}

func (h *ArticleHandler) setPublished(c *gin.Context, published bool) {
	id, ok := dto.ParseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.service.setPublished(c.Request.Context(), id, published)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, detail)
}

// DeleteArticle 删除文章
// @Summary 删除文章
// @Tags 文章
// @Security BearerAuth
// @Param id path int true "文章ID"
// @Router /articles/{id} [delete]
func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
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
