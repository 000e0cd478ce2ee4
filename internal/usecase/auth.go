package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domainErrors "github.com/bernardito-luis/eurodelivery/internal/domain/errors"
	"github.com/bernardito-luis/eurodelivery/internal/domain/model"
	"github.com/bernardito-luis/eurodelivery/internal/domain/repository"
	pkgAuth "github.com/bernardito-luis/eurodelivery/internal/pkg/auth"
)

// AuthUseCase handles user lifecycle and token management.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(factory repository.Factory, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{users: factory.Users(), hasher: hasher, tokens: strategy}
}

// Register creates a new user with email/password and returns auth token.
func (u *AuthUseCase) Register(ctx context.Context, email, password string) (*model.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}
	if err := ValidateEmail(email); err != nil {
		return nil, "", err
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}

	usr, err := u.users.Create(ctx, email, hash)
	if err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, "", domainErrors.ErrAlreadyExists
		}
		return nil, "", err
	}

	token, err := u.tokens.IssueToken(usr.ID)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// Authenticate validates credentials and returns auth token.
func (u *AuthUseCase) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(usr.ID)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// EnsureSuperuser creates the administrator account or grants superuser rights to an existing one.
func (u *AuthUseCase) EnsureSuperuser(ctx context.Context, email, password string) (*model.User, error) {
	email = normalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, domainErrors.ErrInvalidCredentials
	}
	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	return u.users.CreateSuperuser(ctx, email, hash)
}

// ParseToken extracts user ID from provided token.
func (u *AuthUseCase) ParseToken(token string) (int64, error) {
	if token == "" {
		return 0, pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// GetByID fetches user by identifier.
func (u *AuthUseCase) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return u.users.GetByID(ctx, id)
}

// Actor resolves the identity performing requests for user id.
func (u *AuthUseCase) Actor(ctx context.Context, id int64) (model.Actor, error) {
	usr, err := u.users.GetByID(ctx, id)
	if err != nil {
		return model.Actor{}, err
	}
	return model.ActorOf(usr), nil
}

// UpdateProfile changes names and login email of the acting user.
func (u *AuthUseCase) UpdateProfile(ctx context.Context, actor model.Actor, input model.ProfileInput) (*model.User, error) {
	input.Email = normalizeEmail(input.Email)
	if err := ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	return u.users.UpdateProfile(ctx, actor.UserID, input)
}

// ChangePassword replaces the password after verifying the current one.
func (u *AuthUseCase) ChangePassword(ctx context.Context, actor model.Actor, change model.PasswordChange) error {
	if change.New == "" {
		return fmt.Errorf("%w: new password is required", domainErrors.ErrValidation)
	}
	usr, err := u.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if err := u.hasher.Compare(usr.PasswordHash, change.Current); err != nil {
		return fmt.Errorf("%w: current password is incorrect", domainErrors.ErrValidation)
	}
	if change.New != change.Confirm {
		return fmt.Errorf("%w: passwords do not match", domainErrors.ErrValidation)
	}

	hash, err := u.hasher.Hash(change.New)
	if err != nil {
		return err
	}
	return u.users.UpdatePassword(ctx, actor.UserID, hash)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
