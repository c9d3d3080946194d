package application

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/atelier-studio/atelier-go/internal/domain/file"
	"github.com/atelier-studio/atelier-go/internal/domain/project"
	"github.com/atelier-studio/atelier-go/internal/repository/memory"
)

func setupProjectService(t *testing.T) (*ProjectService, *memory.Store, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/projects", nil)

	st := memory.NewStore()
	return NewProjectService(memory.NewRepos(st)), st, c
}

func TestCreateProjectBuildsLadder(t *testing.T) {
	svc, st, c := setupProjectService(t)

	p, err := svc.CreateProject(c, 1, project.CreateProjectDTO{
		Title:     "brand refresh",
		ClientID:  10,
		CreatorID: 20,
		Stages: []project.StageInput{
			{Name: "sketch", DaysPlanned: 5},
			{Name: "lineart", DaysPlanned: 3},
			{Name: "color", DaysPlanned: 4},
		},
		Tags: []string{"logo", "rush"},
	})
	require.NoError(t, err)
	require.NotZero(t, p.PID)
	require.Equal(t, project.StatusAwait, p.Status)
	require.Equal(t, project.ProgressNotStarted, p.Progress)

	got, err := svc.GetProject(p.PID)
	require.NoError(t, err)
	require.Len(t, got.Stages, 3)
	for i, s := range got.Stages {
		require.Equal(t, i, s.Sort)
	}
	require.Equal(t, "lineart", got.Stages[1].Name)

	logs := st.Logs()
	require.Len(t, logs, 1)
	require.Equal(t, project.LogCreate, logs[0].Type)
}

func TestCreateProjectRejectsUnknownFiles(t *testing.T) {
	svc, _, c := setupProjectService(t)

	_, err := svc.CreateProject(c, 1, project.CreateProjectDTO{
		Title:     "brand refresh",
		ClientID:  10,
		CreatorID: 20,
		Stages:    []project.StageInput{{Name: "sketch", DaysPlanned: 5}},
		Files:     []uint{99},
	})
	require.ErrorIs(t, err, ErrFileNotFound)
}

func TestUpdateProjectFields(t *testing.T) {
	svc, _, c := setupProjectService(t)

	created, err := svc.CreateProject(c, 1, project.CreateProjectDTO{
		Title:     "old title",
		ClientID:  10,
		CreatorID: 20,
		Stages:    []project.StageInput{{Name: "sketch", DaysPlanned: 5}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Repos.File.CreateFile(&file.File{Name: "ref.png"}))
	f, err := svc.Repos.File.GetFilesByIDs(nil)
	require.NoError(t, err)
	require.Nil(t, f)

	title := "new title"
	updated, err := svc.UpdateProject(c, created.PID, project.UpdateProjectDTO{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "new title", updated.Title)

	_, err = svc.UpdateProject(c, 9999, project.UpdateProjectDTO{Title: &title})
	require.ErrorIs(t, err, ErrProjectNotFound)
}
