package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/you/scaletrack/internal/http/handlers"
	"github.com/you/scaletrack/internal/http/middleware"
)

func BuildRouter(ah *handlers.AuthHandlers, mw *middleware.AuthMW) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	auth.POST("/register", ah.Register)
	auth.POST("/login", ah.Login)
	auth.POST("/reset-password", ah.ResetPassword)

	v := r.Group("/auth").Use(mw.WithSession())
	v.GET("/me", ah.Me)
	v.POST("/logout", ah.Logout)

	return r
}
