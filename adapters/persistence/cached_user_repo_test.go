package persistence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/khoahotran/talent-identity/internal/domain/user"
	"github.com/khoahotran/talent-identity/internal/testutil"
	"github.com/khoahotran/talent-identity/pkg/logger"
)

func TestCachedUserRepo_FallsBackWhenRedisIsDown(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	store := testutil.NewMemoryUserRepo()
	repo := NewCachedUserRepo(store, rdb, time.Minute, logger.NewNopLogger())

	ctx := context.Background()
	u := newTestUser()
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	u.Name = "Ann B"
	require.NoError(t, repo.Save(ctx, u))
	got, err = repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann B", got.Name)
}

func TestUserRecordRoundTrip(t *testing.T) {
	u := newTestUser()
	u.Profile.Skills = nil

	got, err := toUserRecord(u).toDomain()
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.PasswordHash, got.PasswordHash)
	assert.Equal(t, u.Profile.ProfilePhotoPublicID, got.Profile.ProfilePhotoPublicID)
	assert.Equal(t, []string{}, got.Profile.Skills)
}

func TestUserRecordKeepsResourceTypes(t *testing.T) {
	u := newTestUser()
	u.Profile.ProfilePhotoResourceType = "image"
	u.Profile.ResumeResourceType = "raw"

	got, err := toUserRecord(u).toDomain()
	require.NoError(t, err)
	assert.Equal(t, "image", got.Profile.ProfilePhotoResourceType)
	assert.Equal(t, "raw", got.Profile.ResumeResourceType)
}

// interleavingStore runs onRead after loading a user and before handing it
// back, the window where a concurrent Save can land.
type interleavingStore struct {
	*testutil.MemoryUserRepo
	once   sync.Once
	onRead func()
}

func (s *interleavingStore) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := s.MemoryUserRepo.FindByID(ctx, id)
	s.once.Do(func() {
		if s.onRead != nil {
			s.onRead()
		}
	})
	return u, err
}

func TestCachedUserRepo_SaveDuringMissWins(t *testing.T) {
	skipShort(t)
	ctx := context.Background()

	redisContainer, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	defer func() { _ = redisContainer.Terminate(context.Background()) }()

	url, err := redisContainer.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opts)
	defer rdb.Close()

	store := &interleavingStore{MemoryUserRepo: testutil.NewMemoryUserRepo()}
	repo := NewCachedUserRepo(store, rdb, time.Minute, logger.NewNopLogger())

	u := newTestUser()
	require.NoError(t, repo.Create(ctx, u))

	updated := *u
	updated.Name = "Ann v2"
	store.onRead = func() {
		require.NoError(t, repo.Save(ctx, &updated))
	}

	stale, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", stale.Name)

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann v2", got.Name)
}
