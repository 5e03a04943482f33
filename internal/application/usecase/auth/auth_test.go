package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/khoahotran/talent-identity/internal/application/service"
	"github.com/khoahotran/talent-identity/internal/domain/user"
	"github.com/khoahotran/talent-identity/internal/testutil"
	"github.com/khoahotran/talent-identity/pkg/apperror"
	"github.com/khoahotran/talent-identity/pkg/auth"
	"github.com/khoahotran/talent-identity/pkg/logger"
)

type authFixtures struct {
	repo     *testutil.MemoryUserRepo
	uploader *testutil.FakeUploader
	events   *testutil.RecordingPublisher
	hasher   *auth.BcryptHasher
	jwtSvc   *auth.JWTService
	register *RegisterUseCase
	login    *LoginUseCase
	logout   *LogoutUseCase
}

func newAuthFixtures(t *testing.T) authFixtures {
	t.Helper()
	repo := testutil.NewMemoryUserRepo()
	uploader := &testutil.FakeUploader{}
	events := &testutil.RecordingPublisher{}
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	jwtSvc := auth.NewJWTService("test-secret", auth.SessionLifespan)
	log := logger.NewNopLogger()

	return authFixtures{
		repo:     repo,
		uploader: uploader,
		events:   events,
		hasher:   hasher,
		jwtSvc:   jwtSvc,
		register: NewRegisterUseCase(repo, hasher, uploader, events, "test", log),
		login:    NewLoginUseCase(repo, hasher, jwtSvc, log),
		logout:   NewLogoutUseCase(),
	}
}

func annInput() RegisterInput {
	return RegisterInput{
		Name:        "Ann",
		Email:       "a@x.com",
		PhoneNumber: "1",
		Password:    "secret",
		Role:        "seeker",
		Photo:       strings.NewReader("png-bytes"),
	}
}

func TestRegister_Success(t *testing.T) {
	fx := newAuthFixtures(t)
	ctx := context.Background()

	out, err := fx.register.Execute(ctx, annInput())
	require.NoError(t, err)
	assert.Equal(t, "Account created successfully.", out.Message)
	assert.Equal(t, 1, fx.repo.Count())

	stored, err := fx.repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, out.UserID, stored.ID)
	assert.Equal(t, "Ann", stored.Name)
	assert.Equal(t, user.RoleSeeker, stored.Role)
	assert.NotEqual(t, "secret", stored.PasswordHash)
	assert.True(t, fx.hasher.Check("secret", stored.PasswordHash))

	uploads := fx.uploader.Uploads()
	require.Len(t, uploads, 1)
	assert.Equal(t, uploads[0].URL, stored.Profile.ProfilePhoto)
	assert.Equal(t, uploads[0].PublicID, stored.Profile.ProfilePhotoPublicID)
	assert.Equal(t, uploads[0].ResourceType, stored.Profile.ProfilePhotoResourceType)
	assert.Empty(t, stored.Profile.Skills)

	assert.Eventually(t, func() bool {
		evs := fx.events.Events()
		return len(evs) == 1 && evs[0].EventType == service.UserEventRegistered && evs[0].UserID == stored.ID
	}, time.Second, 10*time.Millisecond)
}

func TestRegister_MissingFields(t *testing.T) {
	cases := map[string]func(*RegisterInput){
		"name":        func(in *RegisterInput) { in.Name = "" },
		"email":       func(in *RegisterInput) { in.Email = "  " },
		"phoneNumber": func(in *RegisterInput) { in.PhoneNumber = "" },
		"password":    func(in *RegisterInput) { in.Password = "" },
		"role":        func(in *RegisterInput) { in.Role = "" },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			fx := newAuthFixtures(t)
			in := annInput()
			mutate(&in)

			_, err := fx.register.Execute(context.Background(), in)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperror.ErrInvalidInput)

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "Something is missing", appErr.Message)
			assert.Empty(t, fx.uploader.Uploads(), "validation runs before upload")
			assert.Zero(t, fx.repo.Count())
		})
	}
}

func TestRegister_UnknownRole(t *testing.T) {
	fx := newAuthFixtures(t)
	in := annInput()
	in.Role = "admin"

	_, err := fx.register.Execute(context.Background(), in)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	assert.Zero(t, fx.repo.Count())
}

func TestRegister_MissingFileFailsAtUpload(t *testing.T) {
	fx := newAuthFixtures(t)
	in := annInput()
	in.Photo = nil

	_, err := fx.register.Execute(context.Background(), in)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	assert.Zero(t, fx.repo.Count())
}

func TestRegister_UploadFailure(t *testing.T) {
	fx := newAuthFixtures(t)
	fx.uploader.Fail = true

	_, err := fx.register.Execute(context.Background(), annInput())
	assert.ErrorIs(t, err, apperror.ErrAssetStore)
	assert.ErrorIs(t, err, testutil.ErrUploadRejected)
	assert.Zero(t, fx.repo.Count())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	fx := newAuthFixtures(t)
	ctx := context.Background()

	_, err := fx.register.Execute(ctx, annInput())
	require.NoError(t, err)

	second := annInput()
	second.Name = "Someone Else"
	second.Role = "provider"
	second.PhoneNumber = "2"
	_, err = fx.register.Execute(ctx, second)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, 1, fx.repo.Count())

	// The photo uploaded for the rejected registration is cleaned up.
	uploads := fx.uploader.Uploads()
	require.Len(t, uploads, 2)
	assert.Eventually(t, func() bool {
		deleted := fx.uploader.Deleted()
		return len(deleted) == 1 && deleted[0] == uploads[1].PublicID
	}, time.Second, 10*time.Millisecond)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) Create(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) Save(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func TestRegister_ConcurrentInsertLosesToUniqueIndex(t *testing.T) {
	repo := new(mockUserRepo)
	uploader := &testutil.FakeUploader{}
	uc := NewRegisterUseCase(repo, auth.NewBcryptHasher(bcrypt.MinCost), uploader, nil, "test", logger.NewNopLogger())

	// The fast-path lookup sees no account, but another request inserts first.
	repo.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, user.ErrUserNotFound)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*user.User")).Return(user.ErrDuplicateEmail)

	_, err := uc.Execute(context.Background(), annInput())
	assert.ErrorIs(t, err, apperror.ErrConflict)
	repo.AssertExpectations(t)
}

func TestRegister_RepositoryFailure(t *testing.T) {
	repo := new(mockUserRepo)
	uc := NewRegisterUseCase(repo, auth.NewBcryptHasher(bcrypt.MinCost), &testutil.FakeUploader{}, nil, "test", logger.NewNopLogger())

	boom := errors.New("connection reset")
	repo.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, boom)

	_, err := uc.Execute(context.Background(), annInput())
	assert.ErrorIs(t, err, apperror.ErrRepository)
	assert.ErrorIs(t, err, boom)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin_Success(t *testing.T) {
	fx := newAuthFixtures(t)
	ctx := context.Background()
	reg, err := fx.register.Execute(ctx, annInput())
	require.NoError(t, err)

	out, err := fx.login.Execute(ctx, LoginInput{Email: "a@x.com", Password: "secret", Role: "seeker"})
	require.NoError(t, err)

	assert.Equal(t, "Welcome back Ann", out.Message)
	assert.Equal(t, SessionCookieName, out.Session.Name)
	assert.Equal(t, 24*time.Hour, out.Session.MaxAge)
	assert.True(t, out.Session.HTTPOnly)
	assert.Equal(t, http.SameSiteStrictMode, out.Session.SameSite)

	claims, err := fx.jwtSvc.ValidateToken(out.Session.Value)
	require.NoError(t, err)
	assert.Equal(t, reg.UserID, claims.UserID)

	assert.Equal(t, reg.UserID, out.User.ID)
	assert.Equal(t, "a@x.com", out.User.Email)
	body, err := json.Marshal(out.User)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "password")
	assert.NotContains(t, string(body), "$2a$")
}

func TestLogin_FailureOrdering(t *testing.T) {
	fx := newAuthFixtures(t)
	ctx := context.Background()
	_, err := fx.register.Execute(ctx, annInput())
	require.NoError(t, err)

	unknownEmail := LoginInput{Email: "nobody@x.com", Password: "secret", Role: "seeker"}
	wrongPassword := LoginInput{Email: "a@x.com", Password: "nope", Role: "seeker"}
	wrongPasswordAndRole := LoginInput{Email: "a@x.com", Password: "nope", Role: "provider"}
	wrongRole := LoginInput{Email: "a@x.com", Password: "secret", Role: "provider"}

	message := func(err error) string {
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		return appErr.Message
	}

	_, errUnknown := fx.login.Execute(ctx, unknownEmail)
	_, errPassword := fx.login.Execute(ctx, wrongPassword)
	_, errBoth := fx.login.Execute(ctx, wrongPasswordAndRole)
	_, errRole := fx.login.Execute(ctx, wrongRole)

	assert.ErrorIs(t, errUnknown, apperror.ErrUnauthorized)
	assert.ErrorIs(t, errPassword, apperror.ErrUnauthorized)
	assert.Equal(t, message(errUnknown), message(errPassword), "unknown email must look like a wrong password")

	// Credentials are checked before the role.
	assert.ErrorIs(t, errBoth, apperror.ErrUnauthorized)
	assert.NotErrorIs(t, errBoth, apperror.ErrRoleMismatch)

	assert.ErrorIs(t, errRole, apperror.ErrRoleMismatch)
	assert.Equal(t, "Account doesn't exist with current role.", message(errRole))
	assert.NotEqual(t, message(errPassword), message(errRole))
}

func TestLogin_MissingFields(t *testing.T) {
	fx := newAuthFixtures(t)
	for _, in := range []LoginInput{
		{Password: "secret", Role: "seeker"},
		{Email: "a@x.com", Role: "seeker"},
		{Email: "a@x.com", Password: "secret"},
	} {
		_, err := fx.login.Execute(context.Background(), in)
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	}
}

func TestLogout_ClearsCredential(t *testing.T) {
	fx := newAuthFixtures(t)

	out := fx.logout.Execute(context.Background())
	assert.Equal(t, SessionCookieName, out.Session.Name)
	assert.Empty(t, out.Session.Value)
	assert.Zero(t, out.Session.MaxAge)
	assert.Equal(t, "Logged out successfully.", out.Message)
}
