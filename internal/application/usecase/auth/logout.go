package auth

import "context"

// LogoutUseCase only tells the client to drop its credential; no server
// side session exists to invalidate.
type LogoutUseCase struct{}

func NewLogoutUseCase() *LogoutUseCase {
	return &LogoutUseCase{}
}

type LogoutOutput struct {
	Session SessionCredential
	Message string
}

func (uc *LogoutUseCase) Execute(ctx context.Context) *LogoutOutput {
	_, span := tracer.Start(ctx, "Logout")
	defer span.End()

	return &LogoutOutput{
		Session: newSessionCredential("", 0),
		Message: "Logged out successfully.",
	}
}
