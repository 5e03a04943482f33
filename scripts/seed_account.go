package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/talent-identity/adapters/persistence"
	"github.com/khoahotran/talent-identity/internal/config"
	"github.com/khoahotran/talent-identity/internal/domain/profile"
	"github.com/khoahotran/talent-identity/internal/domain/user"
	"github.com/khoahotran/talent-identity/pkg/auth"
	"github.com/khoahotran/talent-identity/pkg/logger"
)

// Seeds one account without a profile photo, for bootstrapping environments.
func main() {
	appLogger := logger.NewZapLogger("development")
	defer appLogger.Sync()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		appLogger.Fatal("cannot load config", err)
	}

	name := os.Getenv("SEED_NAME")
	email := os.Getenv("SEED_EMAIL")
	password := os.Getenv("SEED_PASSWORD")
	role := user.Role(os.Getenv("SEED_ROLE"))
	if email == "" || password == "" || !role.Valid() {
		appLogger.Fatal("SEED_EMAIL, SEED_PASSWORD and a valid SEED_ROLE are required", nil)
	}
	if name == "" {
		name = email
	}

	hash, err := auth.NewBcryptHasher(cfg.Auth.BcryptCost).Hash(password)
	if err != nil {
		appLogger.Fatal("cannot hash password", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := persistence.NewMongoClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect MongoDB", err)
	}
	defer client.Disconnect(context.Background())

	repo, err := persistence.NewMongoUserRepo(ctx, client.Database(cfg.Mongo.Database))
	if err != nil {
		appLogger.Fatal("cannot prepare users collection", err)
	}

	now := time.Now().UTC()
	err = repo.Create(ctx, &user.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PhoneNumber:  os.Getenv("SEED_PHONE"),
		PasswordHash: hash,
		Role:         role,
		Profile:      profile.Profile{Skills: []string{}},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, user.ErrDuplicateEmail) {
		appLogger.Info("account already exists, nothing to do", zap.String("email", email))
		return
	}
	if err != nil {
		appLogger.Fatal("cannot add account", err)
	}

	appLogger.Info("seeded account", zap.String("email", email), zap.String("role", string(role)))
}
