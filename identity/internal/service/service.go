package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/adelbaev/lending-service/identity/internal/errs"
	"github.com/adelbaev/lending-service/identity/internal/model"
	"github.com/adelbaev/lending-service/identity/internal/repository"
	"github.com/adelbaev/lending-service/pkg/auth"
)

const (
	accessTTL  = 15 * time.Minute
	refreshTTL = 30 * 24 * time.Hour
)

type Service struct {
	log    *zap.Logger
	repo   repository.Repository
	tokens repository.TokenStore
}

func NewService(repo repository.Repository, tokens repository.TokenStore, log *zap.Logger) *Service {
	return &Service{
		log:    log,
		repo:   repo,
		tokens: tokens,
	}
}

func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (model.UserInfo, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.UserInfo{}, errors.Wrap(err, "bcrypt")
	}

	user, err := s.repo.CreateUser(ctx, model.User{
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		Role:         auth.RoleUser,
	})
	if err != nil {
		return model.UserInfo{}, err
	}
	return userInfo(user), nil
}

// Authorize verifies the credentials and issues a token pair. A wrong
// password and an unknown email are indistinguishable to the caller.
func (s *Service) Authorize(ctx context.Context, req model.AuthorizeRequest) (model.TokenPair, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return model.TokenPair{}, errs.ErrInvalidCredentials
		}
		return model.TokenPair{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return model.TokenPair{}, errs.ErrInvalidCredentials
	}
	return s.issueTokens(ctx, user)
}

// Refresh redeems the refresh token and rotates the pair. The redeemed
// token is gone either way, a replay after rotation always fails.
func (s *Service) Refresh(ctx context.Context, req model.RefreshRequest) (model.TokenPair, error) {
	userID, err := s.tokens.Redeem(ctx, req.RefreshToken)
	if err != nil {
		return model.TokenPair{}, err
	}
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return model.TokenPair{}, errs.ErrInvalidRefresh
		}
		return model.TokenPair{}, err
	}
	return s.issueTokens(ctx, user)
}

func (s *Service) GetUser(ctx context.Context, userID string) (model.UserInfo, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return model.UserInfo{}, err
	}
	return userInfo(user), nil
}

func (s *Service) issueTokens(ctx context.Context, user model.User) (model.TokenPair, error) {
	claims := &auth.Claims{Email: user.Email}
	claims.Profile.UserID = user.ID
	claims.Profile.Role = user.Role
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTTL)),
	}

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(auth.JWTKey)
	if err != nil {
		return model.TokenPair{}, errors.Wrap(err, "sign access token")
	}

	refresh := uuid.NewString()
	if err := s.tokens.Save(ctx, refresh, user.ID, refreshTTL); err != nil {
		return model.TokenPair{}, errors.Wrap(err, "save refresh token")
	}

	s.log.Debug("tokens issued", zap.String("user", user.ID))
	return model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func userInfo(user model.User) model.UserInfo {
	return model.UserInfo{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
	}
}
