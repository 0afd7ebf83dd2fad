package service

import (
	"fmt"

	"github.com/recipebox/recipebox/internal/model"
	"github.com/recipebox/recipebox/internal/repository"
)

type UserService struct {
	userRepository repository.UserRepository
	roleRepository repository.RoleRepository
}

func NewUserService(
	userRepository repository.UserRepository,
	roleRepository repository.RoleRepository,
) *UserService {
	return &UserService{
		userRepository: userRepository,
		roleRepository: roleRepository,
	}
}

func (s *UserService) ByID(id int64) (*model.User, error) {
	return s.userRepository.ByID(id)
}

func (s *UserService) ByUsername(username string) (*model.User, error) {
	return s.userRepository.ByUsername(username)
}

// Principal loads the account and its role for the request context.
func (s *UserService) Principal(userID int64) (*model.Principal, error) {
	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return nil, err
	}

	role, err := s.roleRepository.ByID(user.RoleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get role for user %d: %w", userID, err)
	}

	return model.NewPrincipal(user, role), nil
}

// Roles lists the roles offered on the registration form.
func (s *UserService) Roles() ([]*model.Role, error) {
	return s.roleRepository.Roles()
}

func (s *UserService) RoleByName(name string) (*model.Role, error) {
	return s.roleRepository.ByName(name)
}
