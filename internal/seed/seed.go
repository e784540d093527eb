package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/mert/lectern/internal/app/models"
	appRepos "github.com/mert/lectern/internal/app/repositories"
	"github.com/mert/lectern/internal/config"
	"github.com/mert/lectern/internal/pkg/apperrors"
	pkgAuth "github.com/mert/lectern/internal/pkg/auth"
)

// CreateDefaultData seeds the admin account and the starter categories.
// Existing rows are left untouched, so running it on every startup is safe.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)
	categoryRepo := appRepos.NewCategoryRepository(dbPool)

	var finalErr error

	if err := seedAdminUser(ctx, userRepo, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	if err := seedCategories(ctx, categoryRepo, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	return finalErr
}

// seedAdminUser provisions the single admin account. Registration never
// produces admins, so this is the only way one comes into existence.
func seedAdminUser(ctx context.Context, userRepo *appRepos.UserRepository, lgr zerolog.Logger) error {
	adminEmail := config.GetEnv("ADMIN_EMAIL", "admin@lectern.app")

	exists, err := userRepo.EmailExists(ctx, adminEmail)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking for admin account")
		return err
	}
	if exists {
		return nil
	}

	adminPassword := config.GetEnv("ADMIN_PASSWORD", "ChangeMe123!")
	hashed, err := pkgAuth.HashPassword(adminPassword)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return err
	}

	admin := &appModels.User{
		Email:     adminEmail,
		Password:  hashed,
		FirstName: "Platform",
		LastName:  "Admin",
		Role:      appModels.RoleAdmin,
		IsActive:  true,
	}

	if err := userRepo.Create(ctx, admin); err != nil && !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		lgr.Error().Err(err).Msg("Error creating admin account")
		return err
	}

	lgr.Info().Str("email", adminEmail).Msg("Admin account created")
	return nil
}

func seedCategories(ctx context.Context, categoryRepo *appRepos.CategoryRepository, lgr zerolog.Logger) error {
	starters := []appModels.Category{
		{Name: "Programming", Slug: "programming"},
		{Name: "Data Science", Slug: "data-science"},
		{Name: "Design", Slug: "design"},
		{Name: "Business", Slug: "business"},
		{Name: "Languages", Slug: "languages"},
	}

	var finalErr error
	for i := range starters {
		category := starters[i]
		err := categoryRepo.Create(ctx, &category)
		if err != nil && !errors.Is(err, apperrors.ErrCategoryAlreadyExists) {
			lgr.Error().Err(err).Str("category", category.Name).Msg("Error creating starter category")
			finalErr = errors.Join(finalErr, err)
		}
	}
	return finalErr
}
