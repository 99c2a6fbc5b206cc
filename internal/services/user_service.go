package services

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"tradeBack/internal/models"
	"tradeBack/internal/repositories"
	"tradeBack/utils"
)

const (
	accessTokenTTL  = 120 * time.Minute
	refreshTokenTTL = 30 * 24 * time.Hour
)

type UserService struct {
	UserRepo     *repositories.UserRepository
	ReviewRepo   *repositories.ReviewRepository
	TokenManager *utils.Manager
}

// SignUp registers a user. Tradesman profile fields are accepted as-is;
// the email must be unique.
func (s *UserService) SignUp(ctx context.Context, user models.User) (models.User, error) {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Email == "" || user.Password == "" || strings.TrimSpace(user.Name) == "" {
		return models.User{}, models.ErrInvalidCredentials
	}
	if user.Role != models.RoleCustomer && user.Role != models.RoleTradesman {
		return models.User{}, models.ErrInvalidCredentials
	}

	existing, err := s.UserRepo.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return models.User{}, err
	}
	if existing.Email != "" {
		return models.User{}, models.ErrDuplicateEmail
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}
	user.Password = string(hashed)

	return s.UserRepo.CreateUser(ctx, user)
}

// SignIn checks the credentials and issues an access/refresh token
// pair, storing the refresh session.
func (s *UserService) SignIn(ctx context.Context, email, password string) (models.User, models.Tokens, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.UserRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return models.User{}, models.Tokens{}, err
	}
	if user.Email == "" {
		return models.User{}, models.Tokens{}, models.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.User{}, models.Tokens{}, models.ErrInvalidCredentials
	}
	user.Password = ""

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return models.User{}, models.Tokens{}, err
	}
	return user, tokens, nil
}

// RefreshTokens trades a stored refresh token for a new pair.
func (s *UserService) RefreshTokens(ctx context.Context, refreshToken string) (models.Tokens, error) {
	session, err := s.UserRepo.GetSessionByToken(ctx, refreshToken)
	if err != nil {
		return models.Tokens{}, err
	}
	if session.RefreshToken == "" || session.ExpiresAt.Before(time.Now()) {
		return models.Tokens{}, models.ErrInvalidCredentials
	}
	return s.issueTokens(ctx, models.User{ID: session.UserID, Role: session.Role})
}

func (s *UserService) issueTokens(ctx context.Context, user models.User) (models.Tokens, error) {
	access, err := s.TokenManager.NewJWT(user.ID, user.Role, accessTokenTTL)
	if err != nil {
		return models.Tokens{}, err
	}
	refresh, err := s.TokenManager.NewRefreshToken()
	if err != nil {
		return models.Tokens{}, err
	}
	err = s.UserRepo.CreateSession(ctx, models.Session{
		UserID:       user.ID,
		Role:         user.Role,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().Add(refreshTokenTTL),
	})
	if err != nil {
		return models.Tokens{}, err
	}
	return models.Tokens{AccessToken: access, RefreshToken: refresh}, nil
}

// GetUserByID returns a profile; tradesmen carry their review average.
func (s *UserService) GetUserByID(ctx context.Context, id int) (models.User, error) {
	user, err := s.UserRepo.GetUserByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	if user.Role == models.RoleTradesman {
		rating, err := s.ReviewRepo.AverageRatingForTradesman(ctx, user.ID)
		if err != nil {
			return models.User{}, err
		}
		user.ReviewRating = rating
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, user models.User) (models.User, error) {
	current, err := s.UserRepo.GetUserByID(ctx, user.ID)
	if err != nil {
		return models.User{}, err
	}
	if strings.TrimSpace(user.Name) == "" {
		user.Name = current.Name
	}
	if err := s.UserRepo.UpdateProfile(ctx, user); err != nil {
		return models.User{}, err
	}
	return s.GetUserByID(ctx, user.ID)
}
