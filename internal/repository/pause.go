package repository

import (
	"github.com/atelier-studio/atelier-go/internal/domain/project"
	"gorm.io/gorm"
)

type PauseRepo interface {
	CreatePause(p *project.ProjectPause) error
	UpdatePause(p *project.ProjectPause) error
	ListPausesByPhase(phaseID uint) ([]project.ProjectPause, error)
	WithTx(tx *gorm.DB) PauseRepo
}

type DBPauseRepo struct {
	db *gorm.DB
}

func NewPauseRepo(db *gorm.DB) *DBPauseRepo {
	return &DBPauseRepo{db: db}
}

func (r *DBPauseRepo) WithTx(tx *gorm.DB) PauseRepo {
	if tx == nil {
		return r
	}
	return &DBPauseRepo{db: tx}
}

func (r *DBPauseRepo) CreatePause(p *project.ProjectPause) error {
	return r.db.Create(p).Error
}

func (r *DBPauseRepo) UpdatePause(p *project.ProjectPause) error {
	return r.db.Save(p).Error
}

func (r *DBPauseRepo) ListPausesByPhase(phaseID uint) ([]project.ProjectPause, error) {
	var pauses []project.ProjectPause
	err := r.db.Where("phase_id = ?", phaseID).Order("id ASC").Find(&pauses).Error
	return pauses, err
}
