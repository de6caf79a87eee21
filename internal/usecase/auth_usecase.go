package usecase

import (
	"context"
	"errors"
	"strings"

	userdomain "cv-forge/internal/domain/user"
	"cv-forge/internal/pkg/jwt"
	"cv-forge/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInternal           = errors.New("internal error")
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

type AuthResult struct {
	User         userdomain.User
	AccessToken  string
	RefreshToken string
}

type AuthUsecase interface {
	Register(ctx context.Context, in RegisterInput) (userdomain.User, error)
	Login(ctx context.Context, in LoginInput) (AuthResult, error)
}

type Auth struct {
	users repository.UserRepository
	jwt   jwt.Service
}

func NewAuthUsecase(users repository.UserRepository, jwtSvc jwt.Service) *Auth {
	return &Auth{users: users, jwt: jwtSvc}
}

// Register validates the fields and inserts the credential record. The
// stored password is deliberately the submitted value; uniqueness failures
// surface as translated constraint errors.
func (a *Auth) Register(ctx context.Context, in RegisterInput) (userdomain.User, error) {
	u := userdomain.User{
		Username: strings.TrimSpace(in.Username),
		Email:    strings.TrimSpace(in.Email),
		Password: in.Password,
	}
	if err := u.Validate(); err != nil {
		return userdomain.User{}, err
	}

	id, err := a.users.Register(ctx, u)
	if err != nil {
		return userdomain.User{}, err
	}

	u.ID = id
	u.Password = ""
	return u, nil
}

func (a *Auth) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return AuthResult{}, ErrInvalidCredentials
	}

	u, err := a.users.Authenticate(ctx, username, in.Password)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidCredentials) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	access, err := a.jwt.GenerateAccessToken(u.ID, u.Username)
	if err != nil {
		return AuthResult{}, ErrInternal
	}
	refresh, err := a.jwt.GenerateRefreshToken(u.ID)
	if err != nil {
		return AuthResult{}, ErrInternal
	}

	return AuthResult{User: u, AccessToken: access, RefreshToken: refresh}, nil
}
