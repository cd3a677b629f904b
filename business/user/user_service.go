package user

import (
	"context"
	"errors"
	"strconv"
	"time"

	"megaMart/domain"
	redisrepo "megaMart/internal/repository/redis"
	"megaMart/pkg/logger"
	"megaMart/pkg/utils"

	"github.com/go-playground/validator/v10"
)

// UserRepository contract interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

// TokenRepository contract interface
type TokenRepository interface {
	StoreToken(ctx context.Context, userID, token string, data redisrepo.TokenData, ttl time.Duration) error
	ValidateToken(ctx context.Context, token string) (string, error)
	DeleteToken(ctx context.Context, userID, token string) error
}

type userService struct {
	userRepo  UserRepository
	tokenRepo TokenRepository
	validate  *validator.Validate
}

func NewUserService(userRepo UserRepository, tokenRepo TokenRepository, validate *validator.Validate) *userService {
	return &userService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		validate:  validate,
	}
}

// Signup registers a customer account. The role is always forced to "user";
// admin accounts are provisioned out of band.
func (s *userService) Signup(ctx context.Context, user *domain.User) (domain.User, error) {
	if err := s.validate.Var(user.Email, "required,email"); err != nil {
		logger.Error("Invalid email format", err)
		return domain.User{}, errors.New("invalid email format")
	}

	if err := s.validate.Var(user.Password, "required,min=6"); err != nil {
		logger.Error("Invalid user password", err)
		return domain.User{}, errors.New("password must be at least 6 characters")
	}

	existingUser, err := s.userRepo.FindByEmail(ctx, user.Email)
	if err == nil && existingUser.ID > 0 {
		logger.Error("Email already exists")
		return domain.User{}, domain.ErrEmailTaken
	}

	passwordHash, err := utils.HashPassword(user.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return domain.User{}, errors.New("failed to hash password")
	}

	newUser := domain.User{
		Username: user.Username,
		Email:    user.Email,
		Password: passwordHash,
		Role:     domain.RoleUser,
	}

	if err := s.userRepo.Create(ctx, &newUser); err != nil {
		logger.Error("Failed to create new user")
		return domain.User{}, err
	}

	newUser.Password = ""
	return newUser, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		logger.Error("Invalid user credentials", err)
		return "", domain.User{}, domain.ErrInvalidCredentials
	}

	if !utils.CheckPassword(password, user.Password) {
		logger.Error("Invalid user credentials")
		return "", domain.User{}, domain.ErrInvalidCredentials
	}

	userID := strconv.FormatUint(uint64(user.ID), 10)

	token, err := utils.GenerateJWT(userID, user.Role)
	if err != nil {
		logger.Error("Failed to generate token", err)
		return "", domain.User{}, errors.New("failed to generate token")
	}

	now := time.Now()
	err = s.tokenRepo.StoreToken(ctx, userID, token, redisrepo.TokenData{
		UserID:    userID,
		Role:      user.Role,
		Token:     token,
		IssuedAt:  now,
		ExpiresAt: now.Add(utils.TokenTTL()),
	}, utils.TokenTTL())
	if err != nil {
		logger.Error("Failed to store session token", err)
		return "", domain.User{}, errors.New("failed to store session token")
	}

	user.Password = ""
	return token, user, nil
}

// CheckSession validates the signed token and confirms the session still
// exists in Redis (logout revokes it before the JWT expires).
func (s *userService) CheckSession(ctx context.Context, token string) (domain.User, error) {
	claims, err := utils.ParseJWT(token)
	if err != nil {
		return domain.User{}, errors.New("invalid token")
	}

	userID, err := s.tokenRepo.ValidateToken(ctx, token)
	if err != nil || userID != claims.UserID {
		return domain.User{}, errors.New("session expired or revoked")
	}

	id, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil {
		return domain.User{}, errors.New("invalid user id in token")
	}

	user, err := s.userRepo.FindByID(ctx, uint(id))
	if err != nil {
		return domain.User{}, err
	}

	user.Password = ""
	return user, nil
}

func (s *userService) Logout(ctx context.Context, userID uint, token string) error {
	id := strconv.FormatUint(uint64(userID), 10)

	if err := s.tokenRepo.DeleteToken(ctx, id, token); err != nil {
		logger.Error("Failed to delete session token", err)
		return err
	}

	return nil
}
