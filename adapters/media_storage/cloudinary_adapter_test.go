package media_storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/talent-identity/internal/config"
	"github.com/khoahotran/talent-identity/pkg/logger"
)

type cloudinaryStub struct {
	mu           sync.Mutex
	paths        []string
	destroyReply string
}

func (c *cloudinaryStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	c.paths = append(c.paths, r.URL.Path)
	reply := c.destroyReply
	c.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if strings.HasSuffix(r.URL.Path, "/upload") {
		_, _ = w.Write([]byte(`{"public_id":"talent/resumes/x","secure_url":"https://res.cloudinary.com/demo/raw/upload/talent/resumes/x","resource_type":"raw","format":"docx","bytes":3}`))
		return
	}
	_, _ = w.Write([]byte(reply))
}

func (c *cloudinaryStub) Paths() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.paths...)
}

func newStubbedAdapter(t *testing.T, stub *cloudinaryStub) *cloudinaryAdapter {
	t.Helper()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	var cfg config.Config
	cfg.Cloudinary.CloudName = "demo"
	cfg.Cloudinary.ApiKey = "key"
	cfg.Cloudinary.ApiSecret = "secret"

	up, err := NewCloudinaryAdapter(cfg, logger.NewNopLogger())
	require.NoError(t, err)
	a, ok := up.(*cloudinaryAdapter)
	require.True(t, ok)
	a.cld.Upload.Config.API.UploadPrefix = srv.URL
	return a
}

func TestCloudinaryAdapter_DeleteUsesUploadedResourceType(t *testing.T) {
	stub := &cloudinaryStub{destroyReply: `{"result":"ok"}`}
	a := newStubbedAdapter(t, stub)
	ctx := context.Background()

	asset, err := a.Upload(ctx, strings.NewReader("doc"), "talent/resumes", "x")
	require.NoError(t, err)
	assert.Equal(t, "raw", asset.ResourceType)
	assert.Equal(t, "talent/resumes/x", asset.PublicID)

	require.NoError(t, a.Delete(ctx, asset.PublicID, asset.ResourceType))
	assert.Equal(t, []string{"/v1_1/demo/auto/upload", "/v1_1/demo/raw/destroy"}, stub.Paths())
}

func TestCloudinaryAdapter_DeleteDefaultsToImage(t *testing.T) {
	stub := &cloudinaryStub{destroyReply: `{"result":"ok"}`}
	a := newStubbedAdapter(t, stub)

	require.NoError(t, a.Delete(context.Background(), "talent/profile-photos/p", ""))
	assert.Equal(t, []string{"/v1_1/demo/image/destroy"}, stub.Paths())
}

func TestCloudinaryAdapter_DeleteNotFoundIsAnError(t *testing.T) {
	stub := &cloudinaryStub{destroyReply: `{"result":"not found"}`}
	a := newStubbedAdapter(t, stub)

	err := a.Delete(context.Background(), "talent/resumes/x", "image")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
