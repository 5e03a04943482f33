package profile

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/talent-identity/internal/application/service"
	"github.com/khoahotran/talent-identity/internal/application/usecase"
	"github.com/khoahotran/talent-identity/internal/domain/profile"
	"github.com/khoahotran/talent-identity/internal/domain/user"
	"github.com/khoahotran/talent-identity/pkg/apperror"
	"github.com/khoahotran/talent-identity/pkg/logger"
)

const resumeFolder = "resumes"

var tracer = otel.Tracer("profile_usecase")

type ProfileUseCase struct {
	userRepo user.Repository
	uploader service.Uploader
	events   service.EventPublisher
	folder   string
	logger   logger.Logger
}

func NewProfileUseCase(
	repo user.Repository,
	uploader service.Uploader,
	events service.EventPublisher,
	assetFolder string,
	log logger.Logger,
) *ProfileUseCase {
	return &ProfileUseCase{
		userRepo: repo,
		uploader: uploader,
		events:   events,
		folder:   assetFolder,
		logger:   log,
	}
}

type GetProfileInput struct {
	UserID uuid.UUID
}

type GetProfileOutput struct {
	User user.View
}

func (uc *ProfileUseCase) ExecuteGetProfile(ctx context.Context, input GetProfileInput) (*GetProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "GetProfile")
	defer span.End()

	u, err := uc.loadUser(ctx, input.UserID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &GetProfileOutput{User: u.Sanitize()}, nil
}

// UpdateProfileInput carries optional fields; an empty value means "leave as is".
type UpdateProfileInput struct {
	UserID      uuid.UUID
	Name        string
	Email       string
	PhoneNumber string
	Bio         string
	Skills      string
	File        io.Reader
	FileName    string
}

type UpdateProfileOutput struct {
	User    user.View
	Message string
}

func (uc *ProfileUseCase) ExecuteUpdateProfile(ctx context.Context, input UpdateProfileInput) (*UpdateProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "UpdateProfile")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", input.UserID.String()))

	// The resume upload runs whenever a file is attached, before anything else.
	var resume *service.Asset
	if input.File != nil {
		asset, err := usecase.UploadAsset(ctx, uc.uploader, input.File, path.Join(uc.folder, resumeFolder), uuid.NewString())
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		resume = asset
	}

	var skills []string
	if raw := strings.TrimSpace(input.Skills); raw != "" {
		skills = profile.ParseSkills(raw)
	}

	out, err := uc.applyUpdate(ctx, input, skills, resume)
	if err != nil {
		if resume != nil {
			usecase.DiscardAsset(uc.uploader, uc.logger, resume)
		}
		span.RecordError(err)
		return nil, err
	}
	return out, nil
}

func (uc *ProfileUseCase) applyUpdate(ctx context.Context, input UpdateProfileInput, skills []string, resume *service.Asset) (*UpdateProfileOutput, error) {
	u, err := uc.loadUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	email := strings.TrimSpace(input.Email)
	if email != "" && email != u.Email {
		if err := uc.ensureEmailFree(ctx, email, u.ID); err != nil {
			return nil, err
		}
	}

	if v := strings.TrimSpace(input.Name); v != "" {
		u.Name = v
	}
	if email != "" {
		u.Email = email
	}
	if v := strings.TrimSpace(input.PhoneNumber); v != "" {
		u.PhoneNumber = v
	}
	if v := strings.TrimSpace(input.Bio); v != "" {
		u.Profile.Bio = v
	}
	if skills != nil {
		u.Profile.Skills = skills
	}

	var replacedID, replacedType string
	if resume != nil {
		replacedID, replacedType = u.Profile.ResumePublicID, u.Profile.ResumeResourceType
		u.Profile.Resume = resume.URL
		u.Profile.ResumeOriginalName = input.FileName
		u.Profile.ResumePublicID = resume.PublicID
		u.Profile.ResumeResourceType = resume.ResourceType
	}
	u.UpdatedAt = time.Now().UTC()

	if err := uc.userRepo.Save(ctx, u); err != nil {
		switch {
		case errors.Is(err, user.ErrDuplicateEmail):
			return nil, apperror.NewConflict("User", "email", u.Email)
		case errors.Is(err, user.ErrUserNotFound):
			return nil, apperror.NewNotFound("User", u.ID.String())
		default:
			uc.logger.Error("Failed to save user", err, zap.String("user_id", u.ID.String()))
			return nil, apperror.NewRepository("failed to save user", err)
		}
	}

	usecase.PublishAsync(uc.events, uc.logger, service.UserEventPayload{
		EventType:         service.UserEventProfileUpdated,
		UserID:            u.ID,
		Role:              string(u.Role),
		ReplacedAssetID:   replacedID,
		ReplacedAssetType: replacedType,
	})

	return &UpdateProfileOutput{User: u.Sanitize(), Message: "Profile updated successfully."}, nil
}

func (uc *ProfileUseCase) loadUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := uc.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, apperror.NewNotFound("User", id.String())
		}
		return nil, apperror.NewRepository("failed to load user", err)
	}
	return u, nil
}

func (uc *ProfileUseCase) ensureEmailFree(ctx context.Context, email string, owner uuid.UUID) error {
	other, err := uc.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil && other.ID != owner:
		return apperror.NewConflict("User", "email", email)
	case err == nil, errors.Is(err, user.ErrUserNotFound):
		return nil
	default:
		return apperror.NewRepository("failed to look up email", err)
	}
}
