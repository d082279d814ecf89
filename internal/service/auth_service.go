package service

import (
	"errors"

	"go-jalin-ops/internal/apperr"
	"go-jalin-ops/internal/model"
	"go-jalin-ops/internal/repository"
	"go-jalin-ops/pkg/jwt"

	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService interface {
	// OAuthCallback upserts a user from a verified identity-provider
	// profile and mints a session token. Role is never touched on
	// existing rows; first sign-in defaults to "user".
	OAuthCallback(email, name, image string) (*AuthResponse, error)
	Login(email, password string) (*AuthResponse, error)
}

type AuthResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) OAuthCallback(email, name, image string) (*AuthResponse, error) {
	if email == "" {
		return nil, apperr.Validationf("email is required")
	}

	user, err := s.userRepo.FindByEmail(email)
	switch {
	case err == nil:
		// Refresh profile fields from the provider, keep the role
		user.FullName = name
		user.Image = image
		if err := s.userRepo.Update(user); err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = &model.User{
			Email:    email,
			FullName: name,
			Image:    image,
			Role:     model.RoleUser,
		}
		if err := s.userRepo.Create(user); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return s.respond(user)
}

func (s *authService) Login(email, password string) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return s.respond(user)
}

func (s *authService) respond(user *model.User) (*AuthResponse, error) {
	token, err := jwt.GenerateToken(user.ID, user.Email, user.FullName, user.Role)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}
	return &AuthResponse{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}
