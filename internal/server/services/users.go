package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/snoozer/internal/common"
	"github.com/dmitrijs2005/snoozer/internal/cryptox"
	"github.com/dmitrijs2005/snoozer/internal/dbx"
	"github.com/dmitrijs2005/snoozer/internal/server/auth"
	"github.com/dmitrijs2005/snoozer/internal/server/config"
	"github.com/dmitrijs2005/snoozer/internal/server/models"
	"github.com/dmitrijs2005/snoozer/internal/server/repositories/repomanager"
)

// UserService handles signup, login, token verification, profiles and
// favorites.
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Signup creates an account and returns it with a fresh login token. A taken
// username yields common.ErrorAlreadyExists.
func (s *UserService) Signup(ctx context.Context, username, password, name string) (*models.UserProfile, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, "", fmt.Errorf("%w: username and password are required", common.ErrorValidation)
	}
	if name == "" {
		name = username
	}

	hash, salt := cryptox.HashPassword(password)
	user := &models.User{Username: username, Name: name, PasswordHash: hash, Salt: salt}

	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("error creating user: %w", err)
	}

	token, err := s.generateToken(u.Username)
	if err != nil {
		return nil, "", err
	}
	return &models.UserProfile{User: *u, Favorites: []models.Story{}, Stories: []models.Story{}}, token, nil
}

// Login verifies the password and returns the profile plus a login token.
// Unknown users and wrong passwords both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.UserProfile, string, error) {
	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorUnauthorized
		}
		return nil, "", common.ErrorInternal
	}
	if !cryptox.VerifyPassword(password, user.Salt, user.PasswordHash) {
		return nil, "", common.ErrorUnauthorized
	}

	profile, err := s.Profile(ctx, username)
	if err != nil {
		return nil, "", err
	}
	token, err := s.generateToken(username)
	if err != nil {
		return nil, "", err
	}
	return profile, token, nil
}

// Authenticate returns the username a token was issued to.
func (s *UserService) Authenticate(token string) (string, error) {
	username, err := auth.GetUsernameFromToken(token, s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}
	return username, nil
}

// Profile loads the user with favorites and own stories from one
// transaction, so the three reads see the same snapshot.
func (s *UserService) Profile(ctx context.Context, username string) (*models.UserProfile, error) {
	var profile *models.UserProfile
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := s.repomanager.Users(tx).GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		favorites, err := s.repomanager.Favorites(tx).ListStories(ctx, username)
		if err != nil {
			return fmt.Errorf("error loading favorites: %w", err)
		}
		own, err := s.repomanager.Stories(tx).ListByUser(ctx, username)
		if err != nil {
			return fmt.Errorf("error loading stories: %w", err)
		}
		profile = &models.UserProfile{User: *user, Favorites: favorites, Stories: own}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// AddFavorite marks storyID as a favorite of username. Repeating it is a
// no-op.
func (s *UserService) AddFavorite(ctx context.Context, username, storyID string) error {
	if err := s.repomanager.Favorites(s.db).Add(ctx, username, storyID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("error adding favorite: %w", err)
	}
	return nil
}

// RemoveFavorite unmarks storyID. Removing a story that is not a favorite is
// a no-op.
func (s *UserService) RemoveFavorite(ctx context.Context, username, storyID string) error {
	if err := s.repomanager.Favorites(s.db).Remove(ctx, username, storyID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("error removing favorite: %w", err)
	}
	return nil
}

func (s *UserService) generateToken(username string) (string, error) {
	token, err := auth.GenerateToken(username, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}
