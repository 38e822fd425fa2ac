package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"lion_estate/internal/auth"
	"lion_estate/internal/domain"
)

type TokenIssuer interface {
	Issue(a domain.Admin) (string, error)
}

type AuthService struct {
	admins    domain.AdminRepository
	tokens    TokenIssuer
	cost      int
	dummyHash string
}

func NewAuthService(admins domain.AdminRepository, tokens TokenIssuer, bcryptCost int) (*AuthService, error) {
	// Compared against when the email is unknown so both failure paths
	// spend the same bcrypt time.
	dummy, err := auth.HashPassword(uuid.NewString(), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &AuthService{admins: admins, tokens: tokens, cost: bcryptCost, dummyHash: dummy}, nil
}

func normalizeEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

// Login returns the admin and a fresh session token. Unknown email and wrong
// password both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (domain.Admin, string, error) {
	if err := in.Validate(); err != nil {
		return domain.Admin{}, "", err
	}
	a, err := s.admins.FindAdminByEmail(ctx, normalizeEmail(in.Email))
	if errors.Is(err, domain.ErrNotFound) {
		_ = auth.ComparePassword(s.dummyHash, in.Password)
		return domain.Admin{}, "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.Admin{}, "", fmt.Errorf("find admin: %w", err)
	}
	if !auth.ComparePassword(a.PasswordHash, in.Password) {
		return domain.Admin{}, "", domain.ErrInvalidCredentials
	}
	tok, err := s.tokens.Issue(a)
	if err != nil {
		return domain.Admin{}, "", fmt.Errorf("issue token: %w", err)
	}
	return a, tok, nil
}

// Me reloads the admin named by verified claims.
func (s *AuthService) Me(ctx context.Context, c auth.AdminClaims) (domain.Admin, error) {
	return s.admins.FindAdminByID(ctx, c.AdminID)
}

func (s *AuthService) CreateAdmin(ctx context.Context, email, password, name string) (domain.Admin, error) {
	in := LoginInput{Email: email, Password: password}
	if err := in.Validate(); err != nil {
		return domain.Admin{}, err
	}
	hash, err := auth.HashPassword(password, s.cost)
	if err != nil {
		return domain.Admin{}, fmt.Errorf("hash password: %w", err)
	}
	a := domain.Admin{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(email),
		PasswordHash: hash,
		Name:         ptrStr(name),
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
	if err := s.admins.CreateAdmin(ctx, a); err != nil {
		return domain.Admin{}, fmt.Errorf("create admin %s: %w", a.Email, err)
	}
	return a, nil
}
