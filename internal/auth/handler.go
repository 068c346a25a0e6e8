package auth

import (
	"github.com/gin-gonic/gin"

	"terminal-terrace/engtheory/internal/dto"
	"terminal-terrace/engtheory/internal/middleware"
	"terminal-terrace/engtheory/packages/response"
)

type AuthHandler struct {
	service *AuthService
}

func NewAuthHandler(service *AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register 注册
// @Summary 账号密码注册
// @Description 返回全部不满足的校验规则（包括密码强度）
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册请求"
// @Success 200 {object} response.Response{data=userModel.User}
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ParseErrorResponse(c, err)
		return
	}

	u, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, u)
}

// Login 登录
// @Summary 登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录请求"
// @Success 200 {object} response.Response{data=TokenResponse}
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ParseErrorResponse(c, err)
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}

	// 设置 Cookie
	c.SetCookie("access_token", result.AccessToken, int(result.ExpiresIn), "/", "", false, true)

	dto.SuccessResponse(c, result)
}

// Logout 注销当前令牌
// @Summary 注销
// @Tags 认证
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		dto.ErrorResponse(c, response.NewBusinessError(
			response.WithErrorCode(response.Unauthorized),
			response.WithErrorMessage("未登录"),
		))
		return
	}

	if err := h.service.Logout(c.Request.Context(), claims); err != nil {
		dto.ErrorResponse(c, err)
		return
	}

	c.SetCookie("access_token", "", -1, "/", "", false, true)
	dto.SuccessResponse(c, nil)
}

// Me 当前用户信息
// @Summary 当前用户
// @Tags 认证
// @Security BearerAuth
// @Success 200 {object} response.Response{data=userModel.User}
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		dto.ErrorResponse(c, response.NewBusinessError(
			response.WithErrorCode(response.Unauthorized),
			response.WithErrorMessage("未登录"),
		))
		return
	}

	u, err := h.service.Me(c.Request.Context(), claims)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, u)
}
