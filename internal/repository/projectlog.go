package repository

import (
	"github.com/atelier-studio/atelier-go/internal/domain/project"
	"gorm.io/gorm"
)

type LogRepo interface {
	AppendLog(l *project.ProjectLog) error
	ListLogsByProject(projectID uint) ([]project.ProjectLog, error)
	WithTx(tx *gorm.DB) LogRepo
}

type DBLogRepo struct {
	db *gorm.DB
}

func NewLogRepo(db *gorm.DB) *DBLogRepo {
	return &DBLogRepo{db: db}
}

func (r *DBLogRepo) WithTx(tx *gorm.DB) LogRepo {
	if tx == nil {
		return r
	}
	return &DBLogRepo{db: tx}
}

func (r *DBLogRepo) AppendLog(l *project.ProjectLog) error {
	return r.db.Create(l).Error
}

func (r *DBLogRepo) ListLogsByProject(projectID uint) ([]project.ProjectLog, error) {
	var logs []project.ProjectLog
	err := r.db.Where("project_id = ?", projectID).Order("id ASC").Find(&logs).Error
	return logs, err
}
