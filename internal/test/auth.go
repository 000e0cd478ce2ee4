package test

import (
	"context"
	"errors"

	"github.com/bernardito-luis/eurodelivery/internal/domain/model"
	pkgAuth "github.com/bernardito-luis/eurodelivery/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied password.
func (h HasherStub) Hash(password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return "hash:" + password, nil
}

// Compare validates password against stored hash.
func (h HasherStub) Compare(hash string, password string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, password)
	}
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// StrategyStub issues and parses tokens via function overrides.
type StrategyStub struct {
	IssueFn func(int64) (string, error)
	ParseFn func(string) (int64, error)
	NameVal string
}

func (s StrategyStub) IssueToken(userID int64) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(userID)
	}
	return "token", nil
}

func (s StrategyStub) ParseToken(token string) (int64, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return 1, nil
}

func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// ActorResolverStub implements the middleware identity contract.
type ActorResolverStub struct {
	ID      int64
	Err     error
	ParseFn func(string) (int64, error)
	ActorFn func(context.Context, int64) (model.Actor, error)
	Actors  map[int64]model.Actor
}

func (s ActorResolverStub) ParseToken(token string) (int64, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	if s.Err != nil {
		return 0, s.Err
	}
	return s.ID, nil
}

func (s ActorResolverStub) Actor(ctx context.Context, userID int64) (model.Actor, error) {
	if s.ActorFn != nil {
		return s.ActorFn(ctx, userID)
	}
	if a, ok := s.Actors[userID]; ok {
		return a, nil
	}
	return model.Actor{UserID: userID}, nil
}

// AuthFacadeStub simulates authentication facade interactions.
type AuthFacadeStub struct {
	RegisterFn       func(context.Context, string, string) (string, error)
	AuthenticateFn   func(context.Context, string, string) (string, error)
	ProfileFn        func(context.Context, model.Actor) (*model.User, error)
	UpdateProfileFn  func(context.Context, model.Actor, model.ProfileInput) (*model.User, error)
	ChangePasswordFn func(context.Context, model.Actor, model.PasswordChange) error
	ActorResolverStub
}

func (s AuthFacadeStub) Register(ctx context.Context, email, password string) (string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, email, password)
	}
	return "token", nil
}

func (s AuthFacadeStub) Authenticate(ctx context.Context, email, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, email, password)
	}
	return "token", nil
}

func (s AuthFacadeStub) Profile(ctx context.Context, actor model.Actor) (*model.User, error) {
	if s.ProfileFn != nil {
		return s.ProfileFn(ctx, actor)
	}
	return &model.User{ID: actor.UserID, Email: actor.Email, IsSuperuser: actor.IsSuperuser}, nil
}

func (s AuthFacadeStub) UpdateProfile(ctx context.Context, actor model.Actor, input model.ProfileInput) (*model.User, error) {
	if s.UpdateProfileFn != nil {
		return s.UpdateProfileFn(ctx, actor, input)
	}
	return &model.User{ID: actor.UserID, Email: input.Email, FirstName: input.FirstName, LastName: input.LastName}, nil
}

func (s AuthFacadeStub) ChangePassword(ctx context.Context, actor model.Actor, change model.PasswordChange) error {
	if s.ChangePasswordFn != nil {
		return s.ChangePasswordFn(ctx, actor, change)
	}
	return nil
}

var _ pkgAuth.PasswordHasher = HasherStub{}
var _ pkgAuth.Strategy = StrategyStub{}
