package auth

import (
	"github.com/gin-gonic/gin"

	"terminal-terrace/engtheory/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, service *AuthService, authn *middleware.Authenticator) {
	h := NewAuthHandler(service)

	group := r.Group("/auth")
	{
		group.POST("/register", h.Register)
		group.POST("/login", h.Login)
		group.POST("/logout", authn.JWTAuth(), h.Logout)
		group.GET("/me", authn.JWTAuth(), h.Me)
	}
}
