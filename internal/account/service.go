package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/you/dockside-market/internal/domain"
	"github.com/you/dockside-market/pkg/auth"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	repo     *UserRepo
	tokenTTL time.Duration
}

func NewService(r *UserRepo, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &Service{repo: r, tokenTTL: tokenTTL}
}

func (s *Service) Register(ctx context.Context, email, password, name string, role domain.Role) (*User, error) {
	if role != domain.RoleFisher && role != domain.RoleBuyer {
		return nil, errors.New("role must be fisher or buyer")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &User{Email: strings.ToLower(email), PasswordHash: string(hash), Name: name, Role: role}
	return u, s.repo.Create(ctx, u)
}

func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	u, err := s.repo.ByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := auth.CreateAccessToken(u.ID, string(u.Role), u.Email, s.tokenTTL)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *Service) ByID(ctx context.Context, id string) (*User, error) {
	return s.repo.ByID(ctx, id)
}
