package user

import (
	"github.com/gin-gonic/gin"

	"terminal-terrace/engtheory/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, service *UserService, auth *middleware.Authenticator) {
	h := NewUserHandler(service)

	// 用户管理（仅管理员）
	users := r.Group("/users", auth.JWTAuth(), middleware.RequireAdmin())
	{
		users.GET("", h.ListUsers)
		users.GET("/:id", h.GetUser)
		users.PATCH("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}
}
