package media_storage

import (
	"context"
	"io"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/khoahotran/talent-identity/internal/application/service"
	"github.com/khoahotran/talent-identity/pkg/logger"
)

// breakingUploader stops calling the asset store after repeated failures
// and fails fast until the open period has passed.
type breakingUploader struct {
	next service.Uploader
	cb   *gobreaker.CircuitBreaker
}

func NewBreakingUploader(next service.Uploader, log logger.Logger) service.Uploader {
	settings := gobreaker.Settings{
		Name:        "asset-store",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}
	return &breakingUploader{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

func (b *breakingUploader) Upload(ctx context.Context, file io.Reader, folder string, publicID string) (*service.Asset, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Upload(ctx, file, folder, publicID)
	})
	if err != nil {
		return nil, err
	}
	return res.(*service.Asset), nil
}

func (b *breakingUploader) Delete(ctx context.Context, publicID string, resourceType string) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.Delete(ctx, publicID, resourceType)
	})
	return err
}
