package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/leadline/crm-server/internal/auth"
	apperrors "github.com/leadline/crm-server/internal/errors"
	"github.com/leadline/crm-server/internal/model"
	"github.com/leadline/crm-server/internal/repository"
	"github.com/leadline/crm-server/internal/util"
)

type LoginResult struct {
	User      model.PublicUser
	Token     string
	ExpiresAt time.Time
}

type AuthService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
	now      func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		now:      time.Now,
	}
}

// Login checks the credentials, stamps the login on the user row and issues
// a session token that expires one token TTL from now. Unknown emails and
// wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperrors.ValidationError("Missing required fields")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	if user == nil {
		util.BurnPasswordCheck(password)
		log.Debug().Msg("login: unknown email")
		return nil, apperrors.InvalidCredentials()
	}

	if !util.CheckPasswordHash(password, user.PasswordHash) {
		log.Debug().Str("userId", user.ID).Msg("login: password mismatch")
		return nil, apperrors.InvalidCredentials()
	}

	now := s.now()
	expiresAt := now.Add(s.tokens.TTL())

	if err := s.userRepo.RecordLogin(ctx, user.ID, now, expiresAt); err != nil {
		return nil, apperrors.Database(err)
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email, now)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue session").WithCause(err)
	}

	log.Info().Str("userId", user.ID).Time("expiresAt", expiresAt).Msg("user logged in")

	return &LoginResult{
		User:      user.Public(),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
