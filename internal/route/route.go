package route

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"terminal-terrace/engtheory/config"
	"terminal-terrace/engtheory/internal/article"
	"terminal-terrace/engtheory/internal/auth"
	"terminal-terrace/engtheory/internal/dto"
	"terminal-terrace/engtheory/internal/middleware"
	"terminal-terrace/engtheory/internal/pkg"
	"terminal-terrace/engtheory/internal/tag"
	"terminal-terrace/engtheory/internal/topic"
	"terminal-terrace/engtheory/internal/user"
)

// Services 所有路由依赖的服务
type Services struct {
	Users    *user.UserService
	Auth     *auth.AuthService
	Topics   *topic.TopicService
	Articles *article.ArticleService
	Tags     *tag.TagService
	Authn    *middleware.Authenticator
}

// NewServices 使用同一个数据库句柄初始化全部服务
func NewServices(db *gorm.DB, tokens *pkg.TokenManager, revoked pkg.RevocationStore, userOpts ...user.ServiceOption) *Services {
	users := user.NewUserService(db, userOpts...)
	return &Services{
		Users:    users,
		Auth:     auth.NewAuthService(users, tokens, revoked),
		Topics:   topic.NewTopicService(db),
		Articles: article.NewArticleService(db),
		Tags:     tag.NewTagService(db),
		Authn:    middleware.NewAuthenticator(tokens, revoked, middleware.WithAccountLookup(users)),
	}
}

func initRoute(r *gin.Engine, s *Services) {
	r.GET("/health", func(c *gin.Context) {
		dto.SuccessResponse(c, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	auth.RegisterRoutes(api, s.Auth, s.Authn)
	user.RegisterRoutes(api, s.Users, s.Authn)
	topic.RegisterRoutes(api, s.Topics, s.Authn)
	article.RegisterRoutes(api, s.Articles, s.Authn)
	tag.RegisterRoutes(api, s.Tags, s.Authn)
}

func SetupRouter(conf config.ServerConfig, s *Services) *gin.Engine {
	if conf.Mode != "" {
		gin.SetMode(conf.Mode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	origins := conf.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"} // 默认值
	}

	// 设置跨域请求
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}))

	initRoute(r, s)

	return r
}
