package topic

import (
	"github.com/gin-gonic/gin"

	"terminal-terrace/engtheory/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, service *TopicService, auth *middleware.Authenticator) {
	h := NewTopicHandler(service)

	topics := r.Group("/topics")
	{
		// 公开读取，管理员登录后可见草稿
		public := topics.Group("", auth.OptionalJWTAuth())
		{
			public.GET("", h.ListTopics)
			public.GET("/:slug", h.GetTopic)
		}

		admin := topics.Group("", auth.JWTAuth(), middleware.RequireAdmin())
		{
			admin.POST("", h.CreateTopic)
			admin.PATCH("/:id", h.UpdateTopic)
			admin.DELETE("/:id", h.DeleteTopic)
			admin.POST("/:id/publish", h.PublishTopic)
			admin.POST("/:id/unpublish", h.UnpublishTopic)
		}
	}
}
