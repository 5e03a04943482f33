package auth

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/talent-identity/internal/application/service"
	"github.com/khoahotran/talent-identity/internal/application/usecase"
	"github.com/khoahotran/talent-identity/internal/domain/profile"
	"github.com/khoahotran/talent-identity/internal/domain/user"
	"github.com/khoahotran/talent-identity/pkg/apperror"
	"github.com/khoahotran/talent-identity/pkg/logger"
)

const profilePhotoFolder = "profile-photos"

type RegisterUseCase struct {
	userRepo user.Repository
	hasher   service.PasswordHasher
	uploader service.Uploader
	events   service.EventPublisher
	folder   string
	logger   logger.Logger
}

func NewRegisterUseCase(
	repo user.Repository,
	hasher service.PasswordHasher,
	uploader service.Uploader,
	events service.EventPublisher,
	assetFolder string,
	log logger.Logger,
) *RegisterUseCase {
	return &RegisterUseCase{
		userRepo: repo,
		hasher:   hasher,
		uploader: uploader,
		events:   events,
		folder:   assetFolder,
		logger:   log,
	}
}

type RegisterInput struct {
	Name        string
	Email       string
	PhoneNumber string
	Password    string
	Role        string
	Photo       io.Reader
}

type RegisterOutput struct {
	UserID  uuid.UUID
	Message string
}

func (uc *RegisterUseCase) Execute(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {
	ctx, span := tracer.Start(ctx, "Register")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.PhoneNumber = strings.TrimSpace(input.PhoneNumber)
	input.Role = strings.TrimSpace(input.Role)

	if anyMissing(input.Name, input.Email, input.PhoneNumber, input.Password, input.Role) {
		err := apperror.NewInvalidInput("name, email, phoneNumber, password and role are required", nil)
		span.RecordError(err)
		return nil, err
	}
	role := user.Role(input.Role)
	if !role.Valid() {
		err := apperror.NewInvalidInput("unknown role '"+input.Role+"'", nil)
		span.RecordError(err)
		return nil, err
	}

	userID := uuid.New()
	photo, err := usecase.UploadAsset(ctx, uc.uploader, input.Photo, path.Join(uc.folder, profilePhotoFolder), userID.String())
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := uc.ensureEmailFree(ctx, input.Email); err != nil {
		uc.discardAsset(photo)
		span.RecordError(err)
		return nil, err
	}

	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		uc.discardAsset(photo)
		err = apperror.NewInternal("failed to hash password", err)
		span.RecordError(err)
		return nil, err
	}

	now := time.Now().UTC()
	u := &user.User{
		ID:           userID,
		Name:         input.Name,
		Email:        input.Email,
		PhoneNumber:  input.PhoneNumber,
		PasswordHash: hash,
		Role:         role,
		Profile: profile.Profile{
			Skills:                   []string{},
			ProfilePhoto:             photo.URL,
			ProfilePhotoPublicID:     photo.PublicID,
			ProfilePhotoResourceType: photo.ResourceType,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.userRepo.Create(ctx, u); err != nil {
		uc.discardAsset(photo)
		if errors.Is(err, user.ErrDuplicateEmail) {
			err = apperror.NewConflict("User", "email", input.Email)
		} else {
			uc.logger.Error("Failed to create user", err, zap.String("user_id", userID.String()))
			err = apperror.NewRepository("failed to create user", err)
		}
		span.RecordError(err)
		return nil, err
	}

	usecase.PublishAsync(uc.events, uc.logger, service.UserEventPayload{
		EventType: service.UserEventRegistered,
		UserID:    u.ID,
		Role:      string(u.Role),
	})

	span.SetAttributes(attribute.String("user_id", u.ID.String()))
	return &RegisterOutput{UserID: u.ID, Message: "Account created successfully."}, nil
}

// ensureEmailFree is a fast-path rejection; the repository's unique index
// still decides concurrent registrations.
func (uc *RegisterUseCase) ensureEmailFree(ctx context.Context, email string) error {
	_, err := uc.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return apperror.NewConflict("User", "email", email)
	case errors.Is(err, user.ErrUserNotFound):
		return nil
	default:
		return apperror.NewRepository("failed to look up email", err)
	}
}

func (uc *RegisterUseCase) discardAsset(asset *service.Asset) {
	usecase.DiscardAsset(uc.uploader, uc.logger, asset)
}
