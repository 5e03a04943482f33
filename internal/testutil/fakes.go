// Package testutil provides in-memory collaborators for use-case and handler tests.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/khoahotran/talent-identity/internal/application/service"
	"github.com/khoahotran/talent-identity/internal/domain/user"
)

// MemoryUserRepo enforces email uniqueness the way the real stores do.
type MemoryUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*user.User
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[uuid.UUID]*user.User)}
}

func cloneUser(u *user.User) *user.User {
	c := *u
	c.Profile = u.Profile.Clone()
	return &c
}

func (r *MemoryUserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *MemoryUserRepo) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *MemoryUserRepo) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emailTakenLocked(u.Email, uuid.Nil) {
		return user.ErrDuplicateEmail
	}
	r.users[u.ID] = cloneUser(u)
	return nil
}

func (r *MemoryUserRepo) Save(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return user.ErrUserNotFound
	}
	if r.emailTakenLocked(u.Email, u.ID) {
		return user.ErrDuplicateEmail
	}
	r.users[u.ID] = cloneUser(u)
	return nil
}

func (r *MemoryUserRepo) emailTakenLocked(email string, except uuid.UUID) bool {
	for id, u := range r.users {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

// Count returns the number of stored accounts.
func (r *MemoryUserRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

var ErrUploadRejected = errors.New("upload rejected")

// DeletedAsset is one recorded Delete call.
type DeletedAsset struct {
	PublicID     string
	ResourceType string
}

// FakeUploader stores payload sizes and hands out deterministic URLs.
// ResourceType defaults to "image".
type FakeUploader struct {
	mu           sync.Mutex
	Fail         bool
	ResourceType string
	uploads      []service.Asset
	deleted      []DeletedAsset
}

func (f *FakeUploader) Upload(_ context.Context, file io.Reader, folder string, publicID string) (*service.Asset, error) {
	if f.Fail {
		return nil, ErrUploadRejected
	}
	n, err := io.Copy(io.Discard, file)
	if err != nil {
		return nil, err
	}
	id := folder + "/" + publicID
	resourceType := f.ResourceType
	if resourceType == "" {
		resourceType = "image"
	}
	asset := service.Asset{
		URL:          fmt.Sprintf("https://assets.example.com/%s", id),
		PublicID:     id,
		ResourceType: resourceType,
		Bytes:        int(n),
	}
	f.mu.Lock()
	f.uploads = append(f.uploads, asset)
	f.mu.Unlock()
	return &asset, nil
}

func (f *FakeUploader) Delete(_ context.Context, publicID string, resourceType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, DeletedAsset{PublicID: publicID, ResourceType: resourceType})
	return nil
}

func (f *FakeUploader) Uploads() []service.Asset {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]service.Asset(nil), f.uploads...)
}

// Deleted returns the public ids passed to Delete, in call order.
func (f *FakeUploader) Deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.deleted))
	for _, d := range f.deleted {
		ids = append(ids, d.PublicID)
	}
	return ids
}

func (f *FakeUploader) DeletedAssets() []DeletedAsset {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]DeletedAsset(nil), f.deleted...)
}

// RecordingPublisher keeps every published identity event.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []service.UserEventPayload
}

func (p *RecordingPublisher) PublishUserEvent(_ context.Context, payload service.UserEventPayload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, payload)
	return nil
}

func (p *RecordingPublisher) Events() []service.UserEventPayload {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]service.UserEventPayload(nil), p.events...)
}
