package http

import (
	"github.com/gin-gonic/gin"

	authUC "github.com/khoahotran/talent-identity/internal/application/usecase/auth"
	"github.com/khoahotran/talent-identity/internal/domain/user"
)

type loginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
	Role     string `json:"role" form:"role" binding:"required"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type userResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	User    user.View `json:"user"`
}

// setSessionCookie writes the credential; a zero max-age expires it at once.
func setSessionCookie(c *gin.Context, s authUC.SessionCredential, secure bool) {
	maxAge := int(s.MaxAge.Seconds())
	if maxAge <= 0 {
		maxAge = -1
	}
	c.SetSameSite(s.SameSite)
	c.SetCookie(s.Name, s.Value, maxAge, "/", "", secure, s.HTTPOnly)
}
