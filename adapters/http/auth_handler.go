package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	authUC "github.com/khoahotran/talent-identity/internal/application/usecase/auth"
	"github.com/khoahotran/talent-identity/pkg/apperror"
	"github.com/khoahotran/talent-identity/pkg/logger"
)

type AuthHandler struct {
	registerUseCase *authUC.RegisterUseCase
	loginUseCase    *authUC.LoginUseCase
	logoutUseCase   *authUC.LogoutUseCase
	secureCookies   bool
	logger          logger.Logger
}

func NewAuthHandler(
	registerUC *authUC.RegisterUseCase,
	loginUC *authUC.LoginUseCase,
	logoutUC *authUC.LogoutUseCase,
	secureCookies bool,
	log logger.Logger,
) *AuthHandler {
	return &AuthHandler{
		registerUseCase: registerUC,
		loginUseCase:    loginUC,
		logoutUseCase:   logoutUC,
		secureCookies:   secureCookies,
		logger:          log,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	input := authUC.RegisterInput{
		Name:        c.PostForm("name"),
		Email:       c.PostForm("email"),
		PhoneNumber: c.PostForm("phoneNumber"),
		Password:    c.PostForm("password"),
		Role:        c.PostForm("role"),
	}

	// A missing file is reported by the use case at its upload step.
	if fileHeader, err := c.FormFile("file"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.Error(apperror.NewInternal("failed to open file", err))
			return
		}
		defer file.Close()
		input.Photo = file
	}

	output, err := h.registerUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, messageResponse{Success: true, Message: output.Message})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil && err != io.EOF {
		c.Error(apperror.NewInvalidInput("invalid login body", err))
		return
	}

	output, err := h.loginUseCase.Execute(c.Request.Context(), authUC.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		c.Error(err)
		return
	}

	setSessionCookie(c, output.Session, h.secureCookies)
	c.JSON(http.StatusOK, userResponse{Success: true, Message: output.Message, User: output.User})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	output := h.logoutUseCase.Execute(c.Request.Context())
	setSessionCookie(c, output.Session, h.secureCookies)
	c.JSON(http.StatusOK, messageResponse{Success: true, Message: output.Message})
}
