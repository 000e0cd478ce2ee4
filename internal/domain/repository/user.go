package repository

import (
	"context"

	"github.com/bernardito-luis/eurodelivery/internal/domain/model"
)

// UserRepository describes persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, email, passwordHash string) (*model.User, error)
	// CreateSuperuser inserts an administrator or promotes an existing account keeping its password.
	CreateSuperuser(ctx context.Context, email, passwordHash string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// UpdateProfile replaces names and login email, failing with ErrAlreadyExists when email is taken.
	UpdateProfile(ctx context.Context, id int64, profile model.ProfileInput) (*model.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}
