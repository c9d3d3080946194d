package repository

import (
	"github.com/atelier-studio/atelier-go/internal/domain/file"
	"github.com/atelier-studio/atelier-go/internal/domain/project"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectRepo interface {
	CreateProject(p *project.Project) error
	GetProjectByID(id uint) (project.Project, error)
	// GetProjectForUpdate loads the aggregate with the project row locked
	// until the surrounding transaction commits.
	GetProjectForUpdate(id uint) (project.Project, error)
	UpdateProject(p *project.Project) error
	ReplaceTags(p *project.Project, tags []project.Tag) error
	FindOrCreateTags(names []string) ([]project.Tag, error)
	ReplaceFiles(p *project.Project, files []file.File) error
	DeleteProject(id uint) error
	ListProjects(q project.ListQuery) ([]project.Project, int64, error)
	WithTx(tx *gorm.DB) ProjectRepo
}

type DBProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *DBProjectRepo {
	return &DBProjectRepo{db: db}
}

func (r *DBProjectRepo) WithTx(tx *gorm.DB) ProjectRepo {
	if tx == nil {
		return r
	}
	return &DBProjectRepo{db: tx}
}

// preload pulls the full aggregate in ladder order. Stage and phase order
// is semantically significant: it defines the progress cursor's target.
func (r *DBProjectRepo) preload(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Stages", func(db *gorm.DB) *gorm.DB {
			return db.Order("stages.sort ASC")
		}).
		Preload("Stages.Phases", func(db *gorm.DB) *gorm.DB {
			return db.Order("phases.sort ASC")
		}).
		Preload("Stages.Phases.UploadFiles").
		Preload("Tags").
		Preload("Files")
}

func (r *DBProjectRepo) CreateProject(p *project.Project) error {
	return r.db.Create(p).Error
}

func (r *DBProjectRepo) GetProjectByID(id uint) (project.Project, error) {
	var p project.Project
	err := r.preload(r.db).First(&p, id).Error
	return p, err
}

func (r *DBProjectRepo) GetProjectForUpdate(id uint) (project.Project, error) {
	var p project.Project
	err := r.preload(r.db.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "projects"}})).
		First(&p, id).Error
	return p, err
}

func (r *DBProjectRepo) UpdateProject(p *project.Project) error {
	return r.db.Omit(clause.Associations).Save(p).Error
}

func (r *DBProjectRepo) ReplaceTags(p *project.Project, tags []project.Tag) error {
	return r.db.Model(p).Association("Tags").Replace(tags)
}

func (r *DBProjectRepo) FindOrCreateTags(names []string) ([]project.Tag, error) {
	tags := make([]project.Tag, 0, len(names))
	for _, name := range names {
		var t project.Tag
		if err := r.db.Where(project.Tag{Name: name}).FirstOrCreate(&t).Error; err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, nil
}

func (r *DBProjectRepo) ReplaceFiles(p *project.Project, files []file.File) error {
	return r.db.Model(p).Association("Files").Replace(files)
}

func (r *DBProjectRepo) DeleteProject(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&project.ProjectPause{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&project.ProjectLog{}).Error; err != nil {
			return err
		}
		var phaseIDs []uint
		if err := tx.Model(&project.Phase{}).Where("project_id = ?", id).Pluck("ph_id", &phaseIDs).Error; err != nil {
			return err
		}
		if len(phaseIDs) > 0 {
			if err := tx.Exec("DELETE FROM phase_upload_files WHERE phase_ph_id IN ?", phaseIDs).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("project_id = ?", id).Delete(&project.Phase{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&project.Stage{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM project_tags WHERE project_p_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM project_files WHERE project_p_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&project.Project{}, id).Error
	})
}

func (r *DBProjectRepo) ListProjects(q project.ListQuery) ([]project.Project, int64, error) {
	query := r.db.Model(&project.Project{})

	if q.ClientID != nil {
		query = query.Where("client_id = ?", *q.ClientID)
	}
	if q.CreatorID != nil {
		query = query.Where("creator_id = ?", *q.CreatorID)
	}
	if len(q.Status) > 0 {
		query = query.Where("status IN ?", q.Status)
	}
	if q.Search != "" {
		query = query.Where("title LIKE ?", "%"+q.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := "p_id"
	switch q.OrderBy {
	case "title":
		orderBy = "title"
	case "start_date":
		orderBy = "start_date"
	}
	if q.Order == "desc" {
		orderBy += " DESC"
	}
	query = query.Order(orderBy)

	if q.PerPage > 0 {
		page := q.Page
		if page < 1 {
			page = 1
		}
		query = query.Limit(q.PerPage).Offset((page - 1) * q.PerPage)
	}

	var projects []project.Project
	err := r.preload(query).Find(&projects).Error
	return projects, total, err
}
