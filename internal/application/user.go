package application

import (
	"errors"
	"time"

	"github.com/atelier-studio/atelier-go/internal/api/middleware"
	"github.com/atelier-studio/atelier-go/internal/config"
	"github.com/atelier-studio/atelier-go/internal/domain/user"
	"github.com/atelier-studio/atelier-go/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrIncorrectPassword   = errors.New("old password is incorrect")
	ErrMissingOldPassword  = errors.New("old password is required to change password")
	ErrPasswordHashFailure = errors.New("failed to hash new password")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrReservedAdminUser   = errors.New("cannot delete or downgrade reserved admin user '" + config.ReservedAdminUsername + "'")
)

type UserService struct {
	Repos *repository.Repos
}

func NewUserService(repos *repository.Repos) *UserService {
	return &UserService{
		Repos: repos,
	}
}

func (s *UserService) RegisterUser(input user.CreateUserInput) error {
	_, err := s.Repos.User.GetUserByUsername(input.Username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err == nil {
		return ErrUsernameTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return ErrPasswordHashFailure
	}

	usr := user.User{
		Username: input.Username,
		Password: string(hashed),
		Email:    input.Email,
		FullName: input.FullName,
		Role:     user.RoleClient,
	}
	if input.Role != nil {
		usr.Role = *input.Role
	}
	return s.Repos.User.SaveUser(&usr)
}

func (s *UserService) LoginUser(username, password string) (user.User, string, error) {
	usr, err := s.Repos.User.GetUserByUsername(username)
	if err != nil {
		return user.User{}, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usr.Password), []byte(password)); err != nil {
		return user.User{}, "", ErrInvalidCredentials
	}

	token, err := middleware.GenerateToken(usr.UID, usr.Username, usr.Role, 24*time.Hour)
	if err != nil {
		return user.User{}, "", err
	}
	return usr, token, nil
}

func (s *UserService) FindUserByID(id uint) (user.User, error) {
	usr, err := s.Repos.User.GetUserByID(id)
	if err != nil {
		return user.User{}, ErrUserNotFound
	}
	return usr, nil
}

func (s *UserService) ListUsers(page, limit int) ([]user.User, error) {
	return s.Repos.User.ListUsers(page, limit)
}

func (s *UserService) UpdateUser(id uint, input user.UpdateUserInput) (user.User, error) {
	usr, err := s.Repos.User.GetUserByID(id)
	if err != nil {
		return user.User{}, ErrUserNotFound
	}

	// The bootstrap admin keeps its role.
	if usr.Username == config.ReservedAdminUsername && input.Role != nil && *input.Role != user.RoleAdmin {
		return user.User{}, ErrReservedAdminUser
	}

	if input.Password != nil {
		if input.OldPassword == nil {
			return user.User{}, ErrMissingOldPassword
		}
		if err := bcrypt.CompareHashAndPassword([]byte(usr.Password), []byte(*input.OldPassword)); err != nil {
			return user.User{}, ErrIncorrectPassword
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return user.User{}, ErrPasswordHashFailure
		}
		usr.Password = string(hashed)
	}

	if input.Role != nil {
		usr.Role = *input.Role
	}
	if input.Email != nil {
		usr.Email = input.Email
	}
	if input.FullName != nil {
		usr.FullName = input.FullName
	}

	if err := s.Repos.User.SaveUser(&usr); err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (s *UserService) RemoveUser(id uint) error {
	usr, err := s.Repos.User.GetUserByID(id)
	if err != nil {
		return ErrUserNotFound
	}
	if usr.Username == config.ReservedAdminUsername {
		return ErrReservedAdminUser
	}
	return s.Repos.User.DeleteUser(id)
}
