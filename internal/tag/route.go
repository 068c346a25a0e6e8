package tag

import (
	"github.com/gin-gonic/gin"

	"terminal-terrace/engtheory/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, service *TagService, auth *middleware.Authenticator) {
	h := NewTagHandler(service)

	tags := r.Group("/tags")
	{
		// 查询类接口（无需认证）
		tags.GET("", h.ListTags)
		tags.GET("/:slug", h.GetTag)

		// 编辑类接口（仅管理员）
		admin := tags.Group("", auth.JWTAuth(), middleware.RequireAdmin())
		{
			admin.POST("", h.CreateTag)
			admin.PATCH("/:id", h.UpdateTag)
			admin.DELETE("/:id", h.DeleteTag)
		}
	}
}
