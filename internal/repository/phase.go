package repository

import (
	"github.com/atelier-studio/atelier-go/internal/domain/file"
	"github.com/atelier-studio/atelier-go/internal/domain/project"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StageRepo interface {
	UpdateStage(st *project.Stage) error
	WithTx(tx *gorm.DB) StageRepo
}

type DBStageRepo struct {
	db *gorm.DB
}

func NewStageRepo(db *gorm.DB) *DBStageRepo {
	return &DBStageRepo{db: db}
}

func (r *DBStageRepo) WithTx(tx *gorm.DB) StageRepo {
	if tx == nil {
		return r
	}
	return &DBStageRepo{db: tx}
}

func (r *DBStageRepo) UpdateStage(st *project.Stage) error {
	return r.db.Omit(clause.Associations).Save(st).Error
}

type PhaseRepo interface {
	CreatePhase(ph *project.Phase) error
	UpdatePhase(ph *project.Phase) error
	ReplaceUploadFiles(ph *project.Phase, files []file.File) error
	DeletePhase(id uint) error
	WithTx(tx *gorm.DB) PhaseRepo
}

type DBPhaseRepo struct {
	db *gorm.DB
}

func NewPhaseRepo(db *gorm.DB) *DBPhaseRepo {
	return &DBPhaseRepo{db: db}
}

func (r *DBPhaseRepo) WithTx(tx *gorm.DB) PhaseRepo {
	if tx == nil {
		return r
	}
	return &DBPhaseRepo{db: tx}
}

func (r *DBPhaseRepo) CreatePhase(ph *project.Phase) error {
	return r.db.Omit(clause.Associations).Create(ph).Error
}

func (r *DBPhaseRepo) UpdatePhase(ph *project.Phase) error {
	return r.db.Omit(clause.Associations).Save(ph).Error
}

func (r *DBPhaseRepo) ReplaceUploadFiles(ph *project.Phase, files []file.File) error {
	return r.db.Model(ph).Association("UploadFiles").Replace(files)
}

// DeletePhase removes a round together with its pauses and file links.
func (r *DBPhaseRepo) DeletePhase(id uint) error {
	if err := r.db.Where("phase_id = ?", id).Delete(&project.ProjectPause{}).Error; err != nil {
		return err
	}
	if err := r.db.Exec("DELETE FROM phase_upload_files WHERE phase_ph_id = ?", id).Error; err != nil {
		return err
	}
	return r.db.Delete(&project.Phase{}, id).Error
}
