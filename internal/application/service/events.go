package service

import (
	"context"

	"github.com/google/uuid"
)

const (
	UserEventRegistered     = "user.registered"
	UserEventProfileUpdated = "user.profile_updated"
)

type UserEventPayload struct {
	EventType string    `json:"event_type"`
	UserID    uuid.UUID `json:"user_id"`
	Role      string    `json:"role"`
	// Asset that was replaced and can be deleted.
	ReplacedAssetID   string `json:"replaced_asset_id,omitempty"`
	ReplacedAssetType string `json:"replaced_asset_type,omitempty"`
}

type EventPublisher interface {
	PublishUserEvent(ctx context.Context, payload UserEventPayload) error
}
