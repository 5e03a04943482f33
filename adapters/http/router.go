package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/talent-identity/pkg/auth"
	"github.com/khoahotran/talent-identity/pkg/logger"
)

// maxMultipartMemory bounds the in-memory part of uploaded photos and resumes.
const maxMultipartMemory = 8 << 20

type Handlers struct {
	Auth    *AuthHandler
	Profile *ProfileHandler
}

func NewRouter(h Handlers, jwtSvc *auth.JWTService, log logger.Logger) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = maxMultipartMemory
	router.Use(Recovery(log), RequestLogger(log), ErrorMiddleware(log))

	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })

	api := router.Group("/api/v1")
	{
		users := api.Group("/user")
		{
			users.POST("/register", h.Auth.Register)
			users.POST("/login", h.Auth.Login)
			users.GET("/logout", h.Auth.Logout)

			private := users.Group("/")
			private.Use(AuthMiddleware(jwtSvc, log))
			{
				private.GET("/profile", h.Profile.GetProfile)
				private.POST("/profile/update", h.Profile.UpdateProfile)
			}
		}
	}

	return router
}
