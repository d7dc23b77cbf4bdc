package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secangkircinta/scug/internal/domain/entities"
	"github.com/secangkircinta/scug/internal/ports"
)

func TestProjectCRUD(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	svc := env.projects()

	_, err := svc.CreateProject(ctx, ports.CreateProjectRequest{Name: "   "})
	assert.ErrorIs(t, err, entities.ErrValidation)

	date := time.Date(2024, 11, 25, 0, 0, 0, 0, time.UTC)
	project, err := svc.CreateProject(ctx, ports.CreateProjectRequest{Name: " Hari Guru ", Description: "Donasi", Date: &date})
	require.NoError(t, err)
	assert.Equal(t, "Hari Guru", project.Name)

	name := "Hari Guru Nasional"
	updated, err := svc.UpdateProject(ctx, project.ID, ports.UpdateProjectRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, "Donasi", updated.Description)

	got, err := svc.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, name, got.Name)

	require.NoError(t, svc.DeleteProject(ctx, project.ID))
	_, err = svc.GetProject(ctx, project.ID)
	assert.ErrorIs(t, err, entities.ErrProjectNotFound)
	_, err = svc.UpdateProject(ctx, project.ID, ports.UpdateProjectRequest{Name: &name})
	assert.ErrorIs(t, err, entities.ErrProjectNotFound)
}

func TestListProjects(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	svc := env.projects()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var created []*entities.Project
	for i, name := range []string{"Bakti Guru", "Hari Guru", "Santunan Anak", "Bakti Sosial"} {
		svc.now = func() time.Time { return base.Add(time.Duration(i) * time.Hour) }
		created = append(created, createProjectWith(t, svc, name))
	}
	require.NoError(t, svc.DeleteProject(ctx, created[2].ID))

	projects, total, err := svc.ListProjects(ctx, ports.ProjectFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, projects, 3)
	assert.Equal(t, created[3].ID, projects[0].ID)

	search := " bakti "
	projects, total, err = svc.ListProjects(ctx, ports.ProjectFilter{Search: &search, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, projects, 1)
	assert.Equal(t, "Bakti Sosial", projects[0].Name)
}

func createProjectWith(t *testing.T, svc *ProjectService, name string) *entities.Project {
	t.Helper()
	project, err := svc.CreateProject(context.Background(), ports.CreateProjectRequest{Name: name})
	require.NoError(t, err)
	return project
}

func TestGetPublicProject_CachesAndInvalidates(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	svc := env.projects()

	project := createProject(t, env, "Hari Guru")

	view, err := svc.GetPublicProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Nil(t, view.CoverURL)
	assert.Empty(t, view.Slider)
	assert.True(t, env.redis.Exists(projectViewKey(project.ID)))

	cover, err := env.covers().Set(ctx, project.ID, uploadFile("a.png", "image/png", pngBytes))
	require.NoError(t, err)
	assert.False(t, env.redis.Exists(projectViewKey(project.ID)))

	uploadSlider(t, env, project.ID, 2)

	view, err = svc.GetPublicProject(ctx, project.ID)
	require.NoError(t, err)
	require.NotNil(t, view.CoverURL)
	assert.Equal(t, cover.ImageURL, *view.CoverURL)
	require.Len(t, view.Slider, 2)
	assert.Equal(t, "Hari Guru", view.Name)

	cached, err := svc.GetPublicProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, view.ID, cached.ID)
	assert.Equal(t, *view.CoverURL, *cached.CoverURL)
	assert.Len(t, cached.Slider, 2)

	require.NoError(t, svc.DeleteProject(ctx, project.ID))
	_, err = svc.GetPublicProject(ctx, project.ID)
	assert.ErrorIs(t, err, entities.ErrProjectNotFound)
}

func TestGetPublicProject_WithoutCache(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	svc := NewProjectService(env.repos, nil, env.logger)

	project := createProject(t, env, "Hari Guru")
	view, err := svc.GetPublicProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, view.ID)

	_, err = svc.GetPublicProject(ctx, uuid.New())
	assert.ErrorIs(t, err, entities.ErrProjectNotFound)
}

func TestGetStats(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	svc := env.projects()

	a := createProject(t, env, "A")
	b := createProject(t, env, "B")
	deleted := createProject(t, env, "C")

	task := createTask(t, env, a.ID, "Snack")
	createTask(t, env, a.ID, "Air")
	createTask(t, env, b.ID, "Buku")
	createTask(t, env, deleted.ID, "Pensil")
	require.NoError(t, svc.DeleteProject(ctx, deleted.ID))

	_, err := env.tasks().ClaimTask(ctx, ports.ClaimTaskRequest{ProjectID: a.ID, TaskID: task.ID, Name: "Sari", Phone: "0812"})
	require.NoError(t, err)

	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalProjects)
	assert.Equal(t, int64(2), stats.OpenTasks)
	assert.Equal(t, int64(1), stats.FilledTasks)
	assert.Equal(t, int64(1), stats.Members)
	assert.Len(t, stats.RecentProjects, 2)
}
