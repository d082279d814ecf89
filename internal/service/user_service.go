package service

import (
	"errors"
	"fmt"

	"go-jalin-ops/internal/apperr"
	"go-jalin-ops/internal/model"
	"go-jalin-ops/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService interface {
	GetAllUsers() ([]model.UserResponse, error)
	ChangeRole(id uuid.UUID, role string) (*model.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetAllUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}
	responses := make([]model.UserResponse, len(users))
	for i := range users {
		responses[i] = users[i].ToResponse()
	}
	return responses, nil
}

func (s *userService) ChangeRole(id uuid.UUID, role string) (*model.UserResponse, error) {
	if !model.ValidRole(role) {
		return nil, apperr.Validationf("unknown role '%s'", role)
	}

	rows, err := s.userRepo.UpdateRole(id, role)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: user not found", apperr.ErrNotFound)
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", apperr.ErrNotFound)
		}
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}
