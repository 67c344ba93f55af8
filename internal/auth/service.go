package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/propertyhub/internal/rbac"
	"github.com/angelmondragon/propertyhub/internal/users"
	"github.com/angelmondragon/propertyhub/pkg/config"
	pkgerrors "github.com/angelmondragon/propertyhub/pkg/errors"
	"github.com/angelmondragon/propertyhub/pkg/logger"
	"github.com/angelmondragon/propertyhub/pkg/security"
	"gorm.io/gorm"
)

const (
	// MsgLoginFailed is the same for an unknown email and a wrong password.
	MsgLoginFailed       = "Login failed. Please check your email and password"
	MsgPasswordsMismatch = "Passwords do not match"
	MsgEmailRegistered   = "Email already registered. Please use a different email or login"
)

// Service defines the behavior needed by the auth controller and the
// identity middleware.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error)
	LoadActor(ctx context.Context, userID uint) (rbac.Actor, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
	DB() *gorm.DB
}

type service struct {
	db          txRunner
	passwordCfg config.PasswordConfig
	seedCfg     config.SeedConfig
	logg        *logger.Logger
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	DB          txRunner
	PasswordCfg config.PasswordConfig
	SeedCfg     config.SeedConfig
	Logger      *logger.Logger
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	return &service{
		db:          params.DB,
		passwordCfg: params.PasswordCfg,
		seedCfg:     params.SeedCfg,
		logg:        params.Logger,
	}, nil
}

// Login matches the email exactly and verifies the password. Every failure
// that depends on the account returns the same unauthorized error.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	repo := users.NewRepository(s.db.DB())
	user, err := repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, MsgLoginFailed)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		if errors.Is(err, security.ErrInvalidHash) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, MsgLoginFailed)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, MsgLoginFailed)
	}

	if security.NeedsRehash(user.PasswordHash) {
		s.upgradeHash(ctx, repo, user.ID, req.Password)
	}
	return &LoginResult{User: users.FromModel(user)}, nil
}

// upgradeHash replaces a legacy hash after a successful login. Failure only
// logs; the login itself already succeeded.
func (s *service) upgradeHash(ctx context.Context, repo *users.Repository, userID uint, password string) {
	hash, err := security.HashPassword(password, s.passwordCfg)
	if err == nil {
		err = repo.UpdatePassword(ctx, userID, hash)
	}
	if err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "auth.rehash_failed")
	}
}

// LoadActor rebuilds the request identity from storage.
func (s *service) LoadActor(ctx context.Context, userID uint) (rbac.Actor, error) {
	user, err := users.NewRepository(s.db.DB()).FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rbac.Actor{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "session user no longer exists")
		}
		return rbac.Actor{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load session user")
	}
	if user.Role == nil {
		return rbac.Actor{}, pkgerrors.New(pkgerrors.CodeNotFound, "session user has no role")
	}
	actor, err := rbac.NewActor(user)
	if err != nil {
		return rbac.Actor{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build actor")
	}
	return actor, nil
}
