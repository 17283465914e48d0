package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"

	"github.com/haiminh-dev/drivemaster/internal/dto"
	"github.com/haiminh-dev/drivemaster/internal/model"
	"github.com/haiminh-dev/drivemaster/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginDTO) (*dto.UserDTO, error)
	Register(ctx context.Context, req dto.RegisterDTO) (*dto.UserDTO, error)
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Login(ctx context.Context, req dto.LoginDTO) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		log.Error().Err(err).Str("username", req.Username).Msg("Login: failed to look up user")
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	if user == nil || user.Password != req.Password {
		return nil, ErrInvalidCredentials
	}
	return userDTO(user), nil
}

func (s *authService) Register(ctx context.Context, req dto.RegisterDTO) (*dto.UserDTO, error) {
	existing, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		log.Error().Err(err).Str("username", req.Username).Msg("Register: failed to look up user")
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	user := &model.User{Username: req.Username, Password: req.Password}
	if err := s.userRepo.Create(ctx, user); err != nil {
		log.Error().Err(err).Str("username", req.Username).Msg("Register: failed to create user")
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	log.Info().Int("userID", user.ID).Str("username", user.Username).Msg("Registered new user")
	return userDTO(user), nil
}

func userDTO(user *model.User) *dto.UserDTO {
	var out dto.UserDTO
	copier.Copy(&out, user)
	return &out
}
