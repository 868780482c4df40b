package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/lmoreno/schooldesk/internal/app/models"
	appRepos "github.com/lmoreno/schooldesk/internal/app/repositories"
	"github.com/lmoreno/schooldesk/internal/config"
	"github.com/lmoreno/schooldesk/internal/pkg/auth"
)

// CreateDefaultData provisions the default staff accounts if they don't
// exist. Staff accounts have no self-service registration, so a fresh
// database needs at least one admin to be usable.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default staff accounts...")

	adminPassword := cfg.Seed.AdminPassword
	if adminPassword == "" {
		lgr.Warn().Msg("No seed admin password configured, skipping admin account creation")
		return nil
	}

	var finalErr error

	accounts := []struct {
		email     string
		password  string
		firstName string
		lastName  string
		role      appModels.RoleType
	}{
		{cfg.Seed.AdminEmail, adminPassword, "Default", "Admin", appModels.RoleAdmin},
	}

	for _, account := range accounts {
		exists, err := userRepo.EmailExists(ctx, account.email)
		if err != nil {
			lgr.Error().Err(err).Str("email", account.email).Msg("Error checking staff account")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if exists {
			continue
		}

		hash, err := auth.HashPassword(account.password)
		if err != nil {
			lgr.Error().Err(err).Str("email", account.email).Msg("Error hashing seed password")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		user := &appModels.User{
			Email:     account.email,
			Password:  hash,
			FirstName: account.firstName,
			LastName:  account.lastName,
			Role:      account.role,
			IsActive:  true,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			lgr.Error().Err(err).Str("email", account.email).Msg("Error creating staff account")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		lgr.Info().Str("email", account.email).Str("role", string(account.role)).Msg("Seeded staff account")
	}

	return finalErr
}
