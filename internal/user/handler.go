package user

import (
	"github.com/gin-gonic/gin"

	"terminal-terrace/engtheory/internal/dto"
)

type UserHandler struct {
	service *UserService
}

func NewUserHandler(service *UserService) *UserHandler {
	return &UserHandler{service: service}
}

// ListUsers 分页获取用户
// @Summary 用户列表
// @Tags 用户管理
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	var p dto.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		dto.ParseErrorResponse(c, err)
		return
	}

	page, err := h.service.List(c.Request.Context(), p)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, page)
}

// GetUser 获取用户
// @Summary 获取用户
// @Tags 用户管理
// @Param id path int true "用户ID"
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := dto.ParseID(c, "id")
	if !ok {
		return
	}

	u, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, u)
}

// UpdateUser 更新用户（邮箱、密码、管理员、启用状态）
// @Summary 更新用户
// @Tags 用户管理
// @Param id path int true "用户ID"
// @Router /users/{id} [patch]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := dto.ParseID(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ParseErrorResponse(c, err)
		return
	}

	u, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, u)
}

// DeleteUser 删除用户，文章作者置空
// @Summary 删除用户
// @Tags 用户管理
// @Param id path int true "用户ID"
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
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
