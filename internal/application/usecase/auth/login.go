package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/talent-identity/internal/application/service"
	"github.com/khoahotran/talent-identity/internal/domain/user"
	"github.com/khoahotran/talent-identity/pkg/apperror"
	"github.com/khoahotran/talent-identity/pkg/logger"
)

// SessionCookieName is the name of the credential handed to clients.
const SessionCookieName = "token"

// SessionCredential is a cookie-like artifact carrying the session token.
type SessionCredential struct {
	Name     string
	Value    string
	MaxAge   time.Duration
	HTTPOnly bool
	SameSite http.SameSite
}

func newSessionCredential(token string, maxAge time.Duration) SessionCredential {
	return SessionCredential{
		Name:     SessionCookieName,
		Value:    token,
		MaxAge:   maxAge,
		HTTPOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}

type LoginUseCase struct {
	userRepo user.Repository
	hasher   service.PasswordHasher
	tokens   service.TokenIssuer
	logger   logger.Logger
}

func NewLoginUseCase(repo user.Repository, hasher service.PasswordHasher, tokens service.TokenIssuer, log logger.Logger) *LoginUseCase {
	return &LoginUseCase{
		userRepo: repo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   log,
	}
}

type LoginInput struct {
	Email    string
	Password string
	Role     string
}

type LoginOutput struct {
	Session SessionCredential
	User    user.View
	Message string
}

var tracer = otel.Tracer("auth_usecase")

// Execute checks existence, then the password, then the role. A role is
// only compared once the credential has been proven valid.
func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	input.Email = strings.TrimSpace(input.Email)
	input.Role = strings.TrimSpace(input.Role)
	if anyMissing(input.Email, input.Password, input.Role) {
		err := apperror.NewInvalidInput("email, password and role are required", nil)
		span.RecordError(err)
		return nil, err
	}

	u, err := uc.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			err = apperror.NewUnauthorized("no account for email", nil)
		} else {
			err = apperror.NewRepository("failed to look up email", err)
		}
		span.RecordError(err)
		return nil, err
	}

	if !uc.hasher.Check(input.Password, u.PasswordHash) {
		err := apperror.NewUnauthorized("incorrect password", nil)
		span.RecordError(err)
		return nil, err
	}

	if user.Role(input.Role) != u.Role {
		err := apperror.NewRoleMismatch("claimed role '" + input.Role + "' does not match account")
		span.RecordError(err)
		return nil, err
	}

	token, err := uc.tokens.GenerateToken(u.ID)
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.String("user_id", u.ID.String()))
		err = apperror.NewInternal("failed to generate token", err)
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.String("user_id", u.ID.String()))
	return &LoginOutput{
		Session: newSessionCredential(token, uc.tokens.Lifespan()),
		User:    u.Sanitize(),
		Message: "Welcome back " + u.Name,
	}, nil
}

func anyMissing(values ...string) bool {
	for _, v := range values {
		if v == "" {
			return true
		}
	}
	return false
}
