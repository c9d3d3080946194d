package application

import (
	"errors"
	"fmt"
	"time"

	"github.com/atelier-studio/atelier-go/internal/domain/project"
	"github.com/atelier-studio/atelier-go/internal/repository"
	"github.com/atelier-studio/atelier-go/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProjectService struct {
	Repos *repository.Repos
}

func NewProjectService(repos *repository.Repos) *ProjectService {
	return &ProjectService{
		Repos: repos,
	}
}

func (s *ProjectService) GetProject(id uint) (*project.Project, error) {
	p, err := s.Repos.Project.GetProjectByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *ProjectService) ListProjects(q project.ListQuery) ([]project.Project, int64, error) {
	return s.Repos.Project.ListProjects(q)
}

func (s *ProjectService) ListLogs(id uint) ([]project.ProjectLog, error) {
	if _, err := s.GetProject(id); err != nil {
		return nil, err
	}
	return s.Repos.Log.ListLogsByProject(id)
}

// CreateProject persists the full aggregate: the project row, its ordered
// stage ladder, resolved tags and attached files. The project starts in
// await with the progress cursor parked at zero.
func (s *ProjectService) CreateProject(c *gin.Context, operatorID uint, input project.CreateProjectDTO) (*project.Project, error) {
	var created project.Project

	err := s.Repos.ExecTx(func(tx *repository.Repos) error {
		p := project.Project{
			Title:     input.Title,
			Design:    input.Design,
			Remark:    input.Remark,
			ClientID:  input.ClientID,
			CreatorID: input.CreatorID,
			Status:    project.StatusAwait,
			Progress:  project.ProgressNotStarted,
		}
		for i, st := range input.Stages {
			p.Stages = append(p.Stages, project.Stage{
				Name:        st.Name,
				Description: st.Description,
				DaysPlanned: st.DaysPlanned,
				Sort:        i,
			})
		}
		if err := tx.Project.CreateProject(&p); err != nil {
			return err
		}

		if len(input.Tags) > 0 {
			tags, err := tx.Project.FindOrCreateTags(input.Tags)
			if err != nil {
				return err
			}
			if err := tx.Project.ReplaceTags(&p, tags); err != nil {
				return err
			}
		}
		if len(input.Files) > 0 {
			files, err := tx.File.GetFilesByIDs(input.Files)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrFileNotFound
				}
				return err
			}
			if err := tx.Project.ReplaceFiles(&p, files); err != nil {
				return err
			}
		}

		if err := tx.Log.AppendLog(&project.ProjectLog{
			ProjectID:  p.PID,
			Type:       project.LogCreate,
			OperatorID: operatorID,
			CreatedAt:  time.Now(),
		}); err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	go utils.LogAuditWithConsole(c, "create", "project", fmt.Sprintf("p_id=%d", created.PID), nil, created, "", s.Repos.Audit)

	return &created, nil
}

// UpdateProject edits descriptive fields and attachments. Lifecycle state
// and the stage ladder are out of its reach.
func (s *ProjectService) UpdateProject(c *gin.Context, id uint, input project.UpdateProjectDTO) (*project.Project, error) {
	var updated project.Project

	err := s.Repos.ExecTx(func(tx *repository.Repos) error {
		p, err := tx.Project.GetProjectForUpdate(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProjectNotFound
			}
			return err
		}
		before := p

		if input.Title != nil {
			p.Title = *input.Title
		}
		if input.Design != nil {
			p.Design = *input.Design
		}
		if input.Remark != nil {
			p.Remark = *input.Remark
		}
		if input.ClientID != nil {
			p.ClientID = *input.ClientID
		}
		if input.CreatorID != nil {
			p.CreatorID = *input.CreatorID
		}
		if err := tx.Project.UpdateProject(&p); err != nil {
			return err
		}

		if input.Tags != nil {
			tags, err := tx.Project.FindOrCreateTags(input.Tags)
			if err != nil {
				return err
			}
			if err := tx.Project.ReplaceTags(&p, tags); err != nil {
				return err
			}
		}
		if input.Files != nil {
			files, err := tx.File.GetFilesByIDs(input.Files)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrFileNotFound
				}
				return err
			}
			if err := tx.Project.ReplaceFiles(&p, files); err != nil {
				return err
			}
		}

		go utils.LogAuditWithConsole(c, "update", "project", fmt.Sprintf("p_id=%d", p.PID), before, p, "", s.Repos.Audit)

		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
