package asset

import (
	"context"

	"go.uber.org/zap"

	"github.com/khoahotran/talent-identity/internal/application/service"
	"github.com/khoahotran/talent-identity/pkg/apperror"
	"github.com/khoahotran/talent-identity/pkg/logger"
)

// CleanupUseCase removes assets that a profile update replaced.
type CleanupUseCase struct {
	uploader service.Uploader
	logger   logger.Logger
}

func NewCleanupUseCase(u service.Uploader, log logger.Logger) *CleanupUseCase {
	return &CleanupUseCase{uploader: u, logger: log}
}

// Execute returns nil for events that carry nothing to delete.
func (uc *CleanupUseCase) Execute(ctx context.Context, payload service.UserEventPayload) error {
	if payload.EventType != service.UserEventProfileUpdated || payload.ReplacedAssetID == "" {
		return nil
	}
	if err := uc.uploader.Delete(ctx, payload.ReplacedAssetID, payload.ReplacedAssetType); err != nil {
		return apperror.NewAssetStore("failed to delete replaced asset", err)
	}
	uc.logger.Info("Deleted replaced asset",
		zap.String("user_id", payload.UserID.String()),
		zap.String("public_id", payload.ReplacedAssetID),
		zap.String("resource_type", payload.ReplacedAssetType))
	return nil
}
