package repository

import (
	"github.com/atelier-studio/atelier-go/internal/domain/user"
	"gorm.io/gorm"
)

type UserRepo interface {
	SaveUser(u *user.User) error
	GetUserByID(id uint) (user.User, error)
	GetUserByUsername(username string) (user.User, error)
	ListUsers(page, limit int) ([]user.User, error)
	DeleteUser(id uint) error
	WithTx(tx *gorm.DB) UserRepo
}

type DBUserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *DBUserRepo {
	return &DBUserRepo{db: db}
}

func (r *DBUserRepo) WithTx(tx *gorm.DB) UserRepo {
	if tx == nil {
		return r
	}
	return &DBUserRepo{db: tx}
}

func (r *DBUserRepo) SaveUser(u *user.User) error {
	return r.db.Save(u).Error
}

func (r *DBUserRepo) GetUserByID(id uint) (user.User, error) {
	var u user.User
	err := r.db.First(&u, id).Error
	return u, err
}

func (r *DBUserRepo) GetUserByUsername(username string) (user.User, error) {
	var u user.User
	err := r.db.Where("username = ?", username).First(&u).Error
	return u, err
}

func (r *DBUserRepo) ListUsers(page, limit int) ([]user.User, error) {
	var users []user.User
	q := r.db.Order("u_id ASC")
	if limit > 0 {
		if page < 1 {
			page = 1
		}
		q = q.Limit(limit).Offset((page - 1) * limit)
	}
	err := q.Find(&users).Error
	return users, err
}

func (r *DBUserRepo) DeleteUser(id uint) error {
	return r.db.Delete(&user.User{}, id).Error
}
