// Package auth provides login and token issuance for creators.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/natepay/natepay/pkg/config"
	"github.com/natepay/natepay/pkg/domain/creator"
	"github.com/natepay/natepay/pkg/dto"
	"github.com/natepay/natepay/pkg/repository"
	creatorrepo "github.com/natepay/natepay/pkg/repository/creator"
	"github.com/natepay/natepay/pkg/utils"
)

// dummyHash keeps password verification constant-time when the account
// does not exist.
const dummyHash = "$2a$10$7zFqzDbD3RrlkMTczbXG9OWZ0FLOXjIxXzSZ.QZxkVXjXcx7QZQiC"

// Service authenticates creators and issues JWTs.
type Service struct {
	uow    repository.UnitOfWork
	cfg    *config.Jwt
	logger *slog.Logger
}

// New creates an auth Service.
func New(
	uow repository.UnitOfWork,
	cfg *config.Jwt,
	logger *slog.Logger,
) *Service {
	return &Service{uow: uow, cfg: cfg, logger: logger}
}

// Login verifies the identity (email or handle) and password and returns
// the creator on success.
func (s *Service) Login(
	ctx context.Context,
	identity, password string,
) (c *dto.CreatorRead, err error) {
	log := s.logger.With("context", "Login", "identity", identity)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repoAny, err := uow.GetRepository((*creatorrepo.Repository)(nil))
		if err != nil {
			return err
		}
		repo, ok := repoAny.(creatorrepo.Repository)
		if !ok {
			return fmt.Errorf("unexpected repository type")
		}

		if utils.IsEmail(identity) {
			c, err = repo.GetByEmail(ctx, identity)
		} else {
			c, err = repo.GetByHandle(ctx, identity)
		}
		if err != nil {
			return err
		}
		if c == nil {
			_ = utils.CheckPasswordHash(password, dummyHash)
			log.Warn("login failed: unknown identity")
			return creator.ErrCreatorUnauthorized
		}
		if !utils.CheckPasswordHash(password, c.HashedPassword) {
			log.Warn("login failed: bad password", "creator_id", c.ID)
			return creator.ErrCreatorUnauthorized
		}
		return nil
	})
	if err != nil {
		c = nil
		return
	}
	log.Info("login successful", "creator_id", c.ID)
	return
}

// GenerateToken issues a signed JWT for the creator.
func (s *Service) GenerateToken(c *dto.CreatorRead) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["creator_id"] = c.ID.String()
	claims["handle"] = c.Handle
	claims["email"] = c.Email
	claims["exp"] = time.Now().Add(s.cfg.Expiry).Unix()

	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		s.logger.Error("token signing failed", "creator_id", c.ID, "error", err)
		return "", err
	}
	return signed, nil
}

// CreatorIDFromToken extracts the authenticated creator ID from a parsed
// JWT, as stored by the auth middleware.
func CreatorIDFromToken(token *jwt.Token) (uuid.UUID, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, creator.ErrCreatorUnauthorized
	}
	raw, ok := claims["creator_id"].(string)
	if !ok {
		return uuid.Nil, creator.ErrCreatorUnauthorized
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, creator.ErrCreatorUnauthorized
	}
	return id, nil
}
