package application

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/atelier-studio/atelier-go/internal/api/middleware"
	"github.com/atelier-studio/atelier-go/internal/config"
	"github.com/atelier-studio/atelier-go/internal/domain/user"
	"github.com/atelier-studio/atelier-go/internal/repository/memory"
)

func setupUserService(t *testing.T) (*UserService, *memory.Store) {
	t.Helper()
	config.JwtSecret = "test-secret"
	middleware.Init()

	st := memory.NewStore()
	return NewUserService(memory.NewRepos(st)), st
}

func ptrString(s string) *string { return &s }

func TestRegisterUser(t *testing.T) {
	svc, _ := setupUserService(t)

	err := svc.RegisterUser(user.CreateUserInput{
		Username: "alice",
		Password: "123456",
		Email:    ptrString("alice@test.com"),
	})
	require.NoError(t, err)

	usr, err := svc.Repos.User.GetUserByUsername("alice")
	require.NoError(t, err)
	require.Equal(t, user.RoleClient, usr.Role)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(usr.Password), []byte("123456")))
}

func TestRegisterUserDuplicate(t *testing.T) {
	svc, _ := setupUserService(t)

	require.NoError(t, svc.RegisterUser(user.CreateUserInput{Username: "alice", Password: "123456"}))
	err := svc.RegisterUser(user.CreateUserInput{Username: "alice", Password: "other"})
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestLoginUser(t *testing.T) {
	svc, _ := setupUserService(t)
	role := user.RoleCreator
	require.NoError(t, svc.RegisterUser(user.CreateUserInput{Username: "bob", Password: "123456", Role: &role}))

	usr, token, err := svc.LoginUser("bob", "123456")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, "bob", usr.Username)

	claims, err := middleware.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, usr.UID, claims.UserID)
	require.Equal(t, user.RoleCreator, claims.Role)
}

func TestLoginUserBadPassword(t *testing.T) {
	svc, _ := setupUserService(t)
	require.NoError(t, svc.RegisterUser(user.CreateUserInput{Username: "bob", Password: "123456"}))

	_, _, err := svc.LoginUser("bob", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.LoginUser("nobody", "123456")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateUserPassword(t *testing.T) {
	svc, _ := setupUserService(t)
	require.NoError(t, svc.RegisterUser(user.CreateUserInput{Username: "bob", Password: "123456"}))
	usr, err := svc.Repos.User.GetUserByUsername("bob")
	require.NoError(t, err)

	// Missing old password.
	_, err = svc.UpdateUser(usr.UID, user.UpdateUserInput{Password: ptrString("newpass")})
	require.ErrorIs(t, err, ErrMissingOldPassword)

	// Wrong old password.
	_, err = svc.UpdateUser(usr.UID, user.UpdateUserInput{Password: ptrString("newpass"), OldPassword: ptrString("bad")})
	require.ErrorIs(t, err, ErrIncorrectPassword)

	updated, err := svc.UpdateUser(usr.UID, user.UpdateUserInput{Password: ptrString("newpass"), OldPassword: ptrString("123456")})
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("newpass")))
}

func TestReservedAdminProtection(t *testing.T) {
	svc, _ := setupUserService(t)
	role := user.RoleAdmin
	require.NoError(t, svc.RegisterUser(user.CreateUserInput{
		Username: config.ReservedAdminUsername,
		Password: "rootpass",
		Role:     &role,
	}))
	admin, err := svc.Repos.User.GetUserByUsername(config.ReservedAdminUsername)
	require.NoError(t, err)

	_, err = svc.UpdateUser(admin.UID, user.UpdateUserInput{Role: ptrString(user.RoleClient)})
	require.ErrorIs(t, err, ErrReservedAdminUser)

	require.ErrorIs(t, svc.RemoveUser(admin.UID), ErrReservedAdminUser)
}

func TestRemoveUser(t *testing.T) {
	svc, _ := setupUserService(t)
	require.NoError(t, svc.RegisterUser(user.CreateUserInput{Username: "bob", Password: "123456"}))
	usr, err := svc.Repos.User.GetUserByUsername("bob")
	require.NoError(t, err)

	require.NoError(t, svc.RemoveUser(usr.UID))
	_, err = svc.FindUserByID(usr.UID)
	require.ErrorIs(t, err, ErrUserNotFound)
}
