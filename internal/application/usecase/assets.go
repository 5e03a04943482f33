// Package usecase holds helpers shared by the auth and profile use cases.
package usecase

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/talent-identity/internal/application/service"
	"github.com/khoahotran/talent-identity/pkg/apperror"
	"github.com/khoahotran/talent-identity/pkg/logger"
)

const backgroundTimeout = 30 * time.Second

// UploadAsset sends file to the asset store. A nil file fails here, at the
// upload step, rather than in up-front validation.
func UploadAsset(ctx context.Context, u service.Uploader, file io.Reader, folder, publicID string) (*service.Asset, error) {
	if file == nil {
		return nil, apperror.NewInvalidInput("a file is required for upload", nil)
	}
	asset, err := u.Upload(ctx, file, folder, publicID)
	if err != nil {
		return nil, apperror.NewAssetStore("failed to upload file", err)
	}
	return asset, nil
}

// DiscardAsset removes an uploaded asset in the background. Failures are
// only logged; the asset is merely orphaned.
func DiscardAsset(u service.Uploader, log logger.Logger, asset *service.Asset) {
	if asset == nil || asset.PublicID == "" {
		return
	}
	publicID, resourceType := asset.PublicID, asset.ResourceType
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()
		if err := u.Delete(ctx, publicID, resourceType); err != nil {
			log.Warn("Failed to delete orphaned asset", zap.String("public_id", publicID), zap.Error(err))
		}
	}()
}

// PublishAsync emits an identity event without blocking the request.
func PublishAsync(p service.EventPublisher, log logger.Logger, payload service.UserEventPayload) {
	if p == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()
		if err := p.PublishUserEvent(ctx, payload); err != nil {
			log.Error("Failed to publish identity event", err,
				zap.String("event_type", payload.EventType),
				zap.String("user_id", payload.UserID.String()))
		}
	}()
}
