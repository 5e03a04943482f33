package media_storage

import (
	"context"
	"strings"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/talent-identity/internal/testutil"
	"github.com/khoahotran/talent-identity/pkg/logger"
)

func TestBreakingUploader_PassesThrough(t *testing.T) {
	fake := &testutil.FakeUploader{}
	up := NewBreakingUploader(fake, logger.NewNopLogger())

	asset, err := up.Upload(context.Background(), strings.NewReader("cv"), "talent/resumes", "abc")
	require.NoError(t, err)
	assert.Equal(t, "talent/resumes/abc", asset.PublicID)

	require.NoError(t, up.Delete(context.Background(), asset.PublicID, asset.ResourceType))
	assert.Equal(t, []testutil.DeletedAsset{{PublicID: "talent/resumes/abc", ResourceType: "image"}}, fake.DeletedAssets())
}

func TestBreakingUploader_OpensAfterConsecutiveFailures(t *testing.T) {
	fake := &testutil.FakeUploader{Fail: true}
	up := NewBreakingUploader(fake, logger.NewNopLogger())

	for i := 0; i < 6; i++ {
		_, err := up.Upload(context.Background(), strings.NewReader("x"), "f", "id")
		assert.ErrorIs(t, err, testutil.ErrUploadRejected)
	}

	fake.Fail = false
	_, err := up.Upload(context.Background(), strings.NewReader("x"), "f", "id")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Empty(t, fake.Uploads())
}
