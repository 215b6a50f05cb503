package services

import (
	"errors"
	"time"

	"conduit-api/helper"
	"conduit-api/models"
	"conduit-api/repositories"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(db *gorm.DB, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(db *gorm.DB, req models.LoginRequest) (*models.AuthResponse, error)
	GetCurrentUser(db *gorm.DB, current *models.UserDTO) (*models.User, error)
	UpdateCurrentUser(db *gorm.DB, current *models.UserDTO, req models.UpdateUserRequest) (*models.AuthResponse, error)
}

type authService struct {
	userRepo      repositories.UserRepository
	jwtSecret     []byte
	jwtExpiration time.Duration
	logger        *zap.SugaredLogger
}

func NewAuthService(userRepo repositories.UserRepository, jwtSecret []byte, jwtExpiration time.Duration, logger *zap.SugaredLogger) AuthService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		logger:        logger,
	}
}

func (s *authService) Register(db *gorm.DB, req models.RegisterRequest) (*models.AuthResponse, error) {
	existing, err := s.userRepo.GetByEmailOrNone(db, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.ErrEmailAlreadyTaken
	}

	existing, err = s.userRepo.GetByUsernameOrNone(db, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.ErrUsernameAlreadyTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
	}
	if err := s.userRepo.Create(db, user); err != nil {
		return nil, err
	}
	s.logger.Infow("user registered", "user_id", user.ID, "username", user.Username)

	return s.authResponse(user)
}

func (s *authService) Login(db *gorm.DB, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByEmailOrNone(db, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.ErrIncorrectLoginInput
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return nil, models.ErrIncorrectLoginInput
	}
	if err != nil {
		return nil, err
	}

	return s.authResponse(user)
}

func (s *authService) GetCurrentUser(db *gorm.DB, current *models.UserDTO) (*models.User, error) {
	if current == nil {
		return nil, models.ErrMissingJWTToken
	}
	user, err := s.userRepo.GetByIDOrNone(db, current.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.ErrUserNotFound
	}
	return user, nil
}

// UpdateCurrentUser applies a partial profile change. The token is reissued
// because its claims carry the username and email.
func (s *authService) UpdateCurrentUser(db *gorm.DB, current *models.UserDTO, req models.UpdateUserRequest) (*models.AuthResponse, error) {
	user, err := s.GetCurrentUser(db, current)
	if err != nil {
		return nil, err
	}

	if req.Username != nil && *req.Username != user.Username {
		existing, err := s.userRepo.GetByUsernameOrNone(db, *req.Username)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, models.ErrUsernameAlreadyTaken
		}
	}
	if req.Email != nil && *req.Email != user.Email {
		existing, err := s.userRepo.GetByEmailOrNone(db, *req.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, models.ErrEmailAlreadyTaken
		}
	}

	changes := models.UserChanges{
		Username: req.Username,
		Email:    req.Email,
		Bio:      req.Bio,
		ImageURL: req.Image,
	}
	if req.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hash := string(hashedPassword)
		changes.PasswordHash = &hash
	}

	updated, err := s.userRepo.Update(db, user.ID, changes)
	if err != nil {
		return nil, err
	}
	s.logger.Infow("user updated", "user_id", updated.ID)

	return s.authResponse(updated)
}

func (s *authService) authResponse(user *models.User) (*models.AuthResponse, error) {
	token, err := helper.GenerateToken(user, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{
		Token: token,
		User:  *user,
	}, nil
}
