package repository

import (
	"fmt"

	"github.com/atelier-studio/atelier-go/internal/domain/file"
	"gorm.io/gorm"
)

type FileRepo interface {
	CreateFile(f *file.File) error
	GetFileByID(id uint) (file.File, error)
	// GetFilesByIDs errors when any referenced file is missing.
	GetFilesByIDs(ids []uint) ([]file.File, error)
	DeleteFile(id uint) error
	WithTx(tx *gorm.DB) FileRepo
}

type DBFileRepo struct {
	db *gorm.DB
}

func NewFileRepo(db *gorm.DB) *DBFileRepo {
	return &DBFileRepo{db: db}
}

func (r *DBFileRepo) WithTx(tx *gorm.DB) FileRepo {
	if tx == nil {
		return r
	}
	return &DBFileRepo{db: tx}
}

func (r *DBFileRepo) CreateFile(f *file.File) error {
	return r.db.Create(f).Error
}

func (r *DBFileRepo) GetFileByID(id uint) (file.File, error) {
	var f file.File
	err := r.db.First(&f, id).Error
	return f, err
}

func (r *DBFileRepo) GetFilesByIDs(ids []uint) ([]file.File, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var files []file.File
	if err := r.db.Where("f_id IN ?", ids).Find(&files).Error; err != nil {
		return nil, err
	}
	if len(files) != len(ids) {
		return nil, fmt.Errorf("%w: %d of %d files found", gorm.ErrRecordNotFound, len(files), len(ids))
	}
	return files, nil
}

func (r *DBFileRepo) DeleteFile(id uint) error {
	return r.db.Delete(&file.File{}, id).Error
}
