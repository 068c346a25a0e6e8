package article

import (
	"github.com/gin-gonic/gin"

	"terminal-terrace/engtheory/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, service *ArticleService, auth *middleware.Authenticator) {
	h := NewArticleHandler(service)

	articles := r.Group("/articles")
	{
		// 可选认证：管理员可见草稿
		public := articles.Group("", auth.OptionalJWTAuth())
		{
			public.GET("", h.ListArticles)
			public.GET("/:slug", h.GetArticle)
		}

		admin := articles.Group("", auth.JWTAuth(), middleware.RequireAdmin())
		{
			admin.POST("", h.CreateArticle)
			admin.PATCH("/:id", h.UpdateArticle)
			admin.DELETE("/:id", h.DeleteArticle)
			admin.PUT("/:id/tags", h.SetTags)
			admin.POST("/:id/publish", h.PublishArticle)
			admin.POST("/:id/unpublish", h.UnpublishArticle)
		}
	}
}
