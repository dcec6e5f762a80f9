package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/bazaar/internal/app/models"
	"github.com/yigit/bazaar/internal/pkg/auth"
)

// AdminStore is the slice of the user repository the seeder needs.
type AdminStore interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) error
}

// AdminAccount describes the administrator created on first start.
type AdminAccount struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// CreateDefaultAdmin makes sure an administrator account exists. It is a
// no-op when no account is configured or the email is already registered.
func CreateDefaultAdmin(ctx context.Context, users AdminStore, account AdminAccount, lgr zerolog.Logger) error {
	email := strings.TrimSpace(account.Email)
	if email == "" || account.Password == "" {
		lgr.Debug().Msg("No default administrator configured, skipping seed")
		return nil
	}

	exists, err := users.EmailExists(ctx, email)
	if err != nil {
		return fmt.Errorf("check default admin: %w", err)
	}
	if exists {
		lgr.Info().Str("email", email).Msg("Default administrator already present")
		return nil
	}

	hashed, err := auth.HashPassword(account.Password)
	if err != nil {
		return fmt.Errorf("hash default admin password: %w", err)
	}

	admin := &models.User{
		ID:        uuid.New(),
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Email:     email,
		Password:  hashed,
		Role:      models.RoleAdministrator,
	}
	if err := users.Create(ctx, admin); err != nil {
		return fmt.Errorf("create default admin: %w", err)
	}

	lgr.Info().Str("email", email).Str("userID", admin.ID.String()).Msg("Default administrator created")
	return nil
}
