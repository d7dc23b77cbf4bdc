package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secangkircinta/scug/internal/adapters/repository/memory"
	"github.com/secangkircinta/scug/internal/adapters/storage"
	"github.com/secangkircinta/scug/internal/application/services"
	"github.com/secangkircinta/scug/internal/domain/entities"
	"github.com/secangkircinta/scug/internal/infrastructure/config"
	"github.com/secangkircinta/scug/internal/infrastructure/logger"
	"github.com/secangkircinta/scug/internal/infrastructure/metrics"
	"github.com/secangkircinta/scug/internal/ports"
)

var (
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)
	textBytes = []byte("laporan kegiatan\n")
)

type handlerEnv struct {
	e        *echo.Echo
	repos    ports.Repositories
	projects *services.ProjectService
	tasks    *services.TaskService
	auth     *services.AuthService
}

func newHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()

	log := logger.NewNop()
	repos := memory.NewRepositories()
	store := storage.NewMemoryStorage("/files")
	m := metrics.New()
	const maxBytes = 1 << 20

	env := &handlerEnv{
		e:        echo.New(),
		repos:    repos,
		projects: services.NewProjectService(repos, nil, log),
		tasks:    services.NewTaskService(repos.Tasks, repos.Projects, repos.Members, m, log),
		auth: services.NewAuthService(repos.Admins, config.JWTConfig{
			Secret:    "handler-secret",
			ExpiresIn: time.Hour,
			Issuer:    "scug-test",
		}, log),
	}
	env.e.Validator = NewValidator()
	env.e.HTTPErrorHandler = ErrorHandler(log)

	authHandler := NewAuthHandler(env.auth, log)
	projectHandler := NewProjectHandler(env.projects, log)
	taskHandler := NewTaskHandler(env.tasks, log)
	memberHandler := NewMemberHandler(services.NewMemberService(repos.Members, log), log)
	rosterHandler := NewProjectMemberHandler(services.NewProjectMemberService(repos, log), log)
	mediaHandler := NewMediaHandler(services.NewMediaService(repos.Media, repos.Projects, store, nil, maxBytes, m, log), log)
	attachmentHandler := NewAttachmentHandler(
		services.NewCoverService(repos.Covers, repos.Projects, store, nil, maxBytes, m, log),
		services.NewReportService(repos.Reports, repos.Projects, store, maxBytes, m, log),
		log,
	)

	e := env.e
	e.POST("/auth/login", authHandler.Login)
	e.GET("/projects", projectHandler.ListPublicProjects)
	e.GET("/projects/:id", projectHandler.GetPublicProject)
	e.GET("/projects/:id/tasks/open", taskHandler.GetOpenTaskBoard)
	e.GET("/projects/:id/tasks/:taskId", taskHandler.GetTask)
	e.POST("/projects/:id/tasks/:taskId/claim", taskHandler.ClaimTask)
	e.GET("/admin/projects", projectHandler.ListProjects)
	e.POST("/admin/projects", projectHandler.CreateProject)
	e.PUT("/admin/projects/:id", projectHandler.UpdateProject)
	e.DELETE("/admin/projects/:id", projectHandler.DeleteProject)
	e.GET("/admin/stats", projectHandler.GetStats)
	e.GET("/admin/projects/:id/tasks", taskHandler.ListProjectTasks)
	e.POST("/admin/projects/:id/tasks", taskHandler.CreateTask)
	e.PUT("/admin/tasks/:id", taskHandler.UpdateTask)
	e.GET("/admin/members", memberHandler.ListMembers)
	e.POST("/admin/members", memberHandler.CreateMember)
	e.DELETE("/admin/members/:id", memberHandler.DeleteMember)
	e.GET("/admin/projects/:id/members", rosterHandler.ListProjectMembers)
	e.POST("/admin/projects/:id/members", rosterHandler.AddProjectMember)
	e.DELETE("/admin/projects/:id/members/:memberId", rosterHandler.RemoveProjectMember)
	e.GET("/admin/projects/:id/media/:type", mediaHandler.ListMedia)
	e.POST("/admin/projects/:id/media/:type", mediaHandler.UploadMedia)
	e.POST("/admin/projects/:id/media/:type/reorder", mediaHandler.ReorderMedia)
	e.PUT("/admin/media/:id/caption", mediaHandler.SetCaption)
	e.DELETE("/admin/media/:id", mediaHandler.RemoveMedia)
	e.GET("/admin/projects/:id/cover", attachmentHandler.GetCover)
	e.PUT("/admin/projects/:id/cover", attachmentHandler.SetCover)
	e.DELETE("/admin/projects/:id/cover", attachmentHandler.RemoveCover)
	e.GET("/admin/projects/:id/reports", attachmentHandler.ListReports)
	e.POST("/admin/projects/:id/reports", attachmentHandler.UploadReport)
	e.DELETE("/admin/reports/:id", attachmentHandler.RemoveReport)

	return env
}

func (env *handlerEnv) doJSON(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

type formFileSpec struct {
	field, name, contentType string
	data                     []byte
}

func (env *handlerEnv) doMultipart(t *testing.T, method, target string, files ...formFileSpec) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		h := make(map[string][]string)
		h["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="%s"; filename="%s"`, f.field, f.name)}
		h["Content-Type"] = []string{f.contentType}
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (env *handlerEnv) seedProject(t *testing.T, name string) *entities.Project {
	t.Helper()
	project, err := env.projects.CreateProject(context.Background(), ports.CreateProjectRequest{Name: name})
	require.NoError(t, err)
	return project
}

func (env *handlerEnv) seedTask(t *testing.T, projectID uuid.UUID, name string) *entities.Task {
	t.Helper()
	task, err := env.tasks.CreateTask(context.Background(), ports.CreateTaskRequest{
		ProjectID: projectID,
		Name:      name,
		Quantity:  2,
		Unit:      "dus",
	})
	require.NoError(t, err)
	return task
}

func TestClaimTaskHandler(t *testing.T) {
	env := newHandlerEnv(t)
	project := env.seedProject(t, "Bakti Guru")
	task := env.seedTask(t, project.ID, "Air mineral")
	claimURL := fmt.Sprintf("/projects/%s/tasks/%s/claim", project.ID, task.ID)

	t.Run("missing volunteer details", func(t *testing.T) {
		rec := env.doJSON(t, http.MethodPost, claimURL, map[string]string{"name": " "})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		body := decode[ports.ErrorResponse](t, rec)
		assert.Contains(t, body.Details, "name")
		assert.Contains(t, body.Details, "phone")
	})

	t.Run("malformed id", func(t *testing.T) {
		rec := env.doJSON(t, http.MethodPost, fmt.Sprintf("/projects/%s/tasks/nope/claim", project.ID), map[string]string{"name": "Sari", "phone": "0812"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decode[ports.ErrorResponse](t, rec).Details, "taskId")
	})

	t.Run("unknown task", func(t *testing.T) {
		rec := env.doJSON(t, http.MethodPost, fmt.Sprintf("/projects/%s/tasks/%s/claim", project.ID, uuid.New()), map[string]string{"name": "Sari", "phone": "0812"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("first claim wins", func(t *testing.T) {
		rec := env.doJSON(t, http.MethodPost, claimURL, map[string]string{"name": "Sari", "phone": "0812-1111"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		result := decode[ports.ClaimResult](t, rec)
		assert.True(t, result.Task.Filled)
		assert.Equal(t, "08121111", result.Member.Phone)
		require.NotNil(t, result.Task.FilledByMemberID)
		assert.Equal(t, result.Member.ID, *result.Task.FilledByMemberID)
	})

	t.Run("second claim conflicts", func(t *testing.T) {
		rec := env.doJSON(t, http.MethodPost, claimURL, map[string]string{"name": "Budi", "phone": "0813"})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, entities.ErrTaskUnavailable.Error(), decode[ports.ErrorResponse](t, rec).Message)
	})
}

func TestTaskBoardHandler(t *testing.T) {
	env := newHandlerEnv(t)
	current := env.seedProject(t, "Current")
	other := env.seedProject(t, "Other")
	env.seedTask(t, current.ID, "Snack")
	env.seedTask(t, other.ID, "Kursi")

	rec := env.doJSON(t, http.MethodGet, fmt.Sprintf("/projects/%s/tasks/open", current.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	board := decode[ports.TaskBoard](t, rec)
	assert.Equal(t, current.ID, board.ProjectID)
	require.Len(t, board.Current, 1)
	assert.Equal(t, "Snack", board.Current[0].Name)
	require.Contains(t, board.Others, other.ID)
	assert.Equal(t, "Other", board.Others[other.ID].ProjectName)
}

func TestProjectHandlers(t *testing.T) {
	env := newHandlerEnv(t)

	rec := env.doJSON(t, http.MethodPost, "/admin/projects", map[string]string{"description": "no name"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[ports.ErrorResponse](t, rec).Details, "name")

	rec = env.doJSON(t, http.MethodPost, "/admin/projects", map[string]string{"name": "Bakti Guru", "description": "Donasi"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[entities.Project](t, rec)

	env.seedProject(t, "Kelas Inspirasi")

	rec = env.doJSON(t, http.MethodGet, "/admin/projects?search=bakti&limit=500", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[ports.PaginatedResponse[*entities.Project]](t, rec)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 100, page.Limit)
	require.Len(t, page.Data, 1)
	assert.Equal(t, created.ID, page.Data[0].ID)

	rec = env.doJSON(t, http.MethodGet, "/projects?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.doJSON(t, http.MethodPut, "/admin/projects/"+created.ID.String(), map[string]string{"name": "Bakti Guru 2"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bakti Guru 2", decode[entities.Project](t, rec).Name)

	rec = env.doJSON(t, http.MethodGet, "/projects/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[ports.PublicProject](t, rec)
	assert.Nil(t, view.CoverURL)
	assert.Empty(t, view.Slider)

	rec = env.doJSON(t, http.MethodDelete, "/admin/projects/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.doJSON(t, http.MethodGet, "/projects/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.doJSON(t, http.MethodGet, "/projects", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), decode[ports.PaginatedResponse[*entities.Project]](t, rec).Total)

	rec = env.doJSON(t, http.MethodGet, "/admin/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), decode[ports.DashboardStats](t, rec).TotalProjects)
}

func TestAdminTaskHandlers(t *testing.T) {
	env := newHandlerEnv(t)
	project := env.seedProject(t, "Bakti Guru")

	rec := env.doJSON(t, http.MethodPost, "/admin/projects/"+project.ID.String()+"/tasks", map[string]interface{}{"task_name": "Snack", "unit": "box"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[ports.ErrorResponse](t, rec).Details, "quantity")

	rec = env.doJSON(t, http.MethodPost, "/admin/projects/"+project.ID.String()+"/tasks", map[string]interface{}{"task_name": "Snack", "unit": "box", "quantity": 50})
	require.Equal(t, http.StatusCreated, rec.Code)
	task := decode[entities.Task](t, rec)
	assert.Equal(t, project.ID, task.ProjectID)

	_, err := env.tasks.ClaimTask(context.Background(), ports.ClaimTaskRequest{ProjectID: project.ID, TaskID: task.ID, Name: "Sari", Phone: "0812"})
	require.NoError(t, err)

	rec = env.doJSON(t, http.MethodPut, "/admin/tasks/"+task.ID.String(), map[string]interface{}{"quantity": 10})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.doJSON(t, http.MethodGet, "/admin/projects/"+project.ID.String()+"/tasks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tasks := decode[[]ports.TaskWithFulfiller](t, rec)
	require.Len(t, tasks, 1)
	require.NotNil(t, tasks[0].Fulfiller)
	assert.Equal(t, "Sari", tasks[0].Fulfiller.Name)
}

func TestMemberHandlers(t *testing.T) {
	env := newHandlerEnv(t)

	rec := env.doJSON(t, http.MethodPost, "/admin/members", map[string]string{"name": "Sari", "phone": "0812 1111"})
	require.Equal(t, http.StatusCreated, rec.Code)
	member := decode[entities.Member](t, rec)

	rec = env.doJSON(t, http.MethodPost, "/admin/members", map[string]string{"name": "Copy", "phone": "08121111"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.doJSON(t, http.MethodGet, "/admin/members?search=sar", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), decode[ports.PaginatedResponse[*entities.Member]](t, rec).Total)

	rec = env.doJSON(t, http.MethodDelete, "/admin/members/"+member.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.doJSON(t, http.MethodDelete, "/admin/members/"+member.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProjectMemberHandlers(t *testing.T) {
	env := newHandlerEnv(t)
	project := env.seedProject(t, "Bakti Guru")
	task := env.seedTask(t, project.ID, "Snack")
	membersURL := fmt.Sprintf("/admin/projects/%s/members", project.ID)

	rec := env.doJSON(t, http.MethodPost, membersURL, map[string]string{"role": "Koordinator"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	details := decode[ports.ErrorResponse](t, rec).Details
	assert.Contains(t, details, "name")
	assert.Contains(t, details, "phone")

	rec = env.doJSON(t, http.MethodPost, fmt.Sprintf("/admin/projects/%s/members", uuid.New()), map[string]string{"name": "Sari", "phone": "0812"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.doJSON(t, http.MethodPost, membersURL, map[string]string{"name": "Sari", "phone": "0812 1111", "role": "Koordinator"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	added := decode[ports.RosterEntry](t, rec)
	require.NotNil(t, added.Member)
	assert.Equal(t, "08121111", added.Phone)
	assert.Equal(t, "Koordinator", added.Role)
	assert.True(t, added.OnRoster)

	rec = env.doJSON(t, http.MethodPost, membersURL, map[string]string{"name": "Sari", "phone": "08121111"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.doJSON(t, http.MethodPost, fmt.Sprintf("/projects/%s/tasks/%s/claim", project.ID, task.ID), map[string]string{"name": "Budi", "phone": "0813"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSON(t, http.MethodGet, membersURL, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decode[[]ports.RosterEntry](t, rec)
	require.Len(t, entries, 2)
	assert.Equal(t, added.ID, entries[0].ID)
	assert.Equal(t, "Budi", entries[1].Name)
	assert.False(t, entries[1].OnRoster)
	assert.Equal(t, 1, entries[1].FilledTasks)

	rec = env.doJSON(t, http.MethodDelete, membersURL+"/nope", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[ports.ErrorResponse](t, rec).Details, "memberId")

	rec = env.doJSON(t, http.MethodDelete, membersURL+"/"+added.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.doJSON(t, http.MethodDelete, membersURL+"/"+added.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.doJSON(t, http.MethodGet, membersURL, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]ports.RosterEntry](t, rec), 1)
}

func TestMediaHandlers(t *testing.T) {
	env := newHandlerEnv(t)
	project := env.seedProject(t, "Bakti Guru")
	base := "/admin/projects/" + project.ID.String() + "/media/slider"

	rec := env.doMultipart(t, http.MethodPost, base,
		formFileSpec{"files", "a.png", "image/png", pngBytes},
		formFileSpec{"files", "notes.txt", "text/plain", textBytes},
		formFileSpec{"files", "b.png", "image/png", pngBytes},
	)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	upload := decode[ports.MediaUploadResponse](t, rec)
	require.Len(t, upload.Results, 3)
	assert.NotNil(t, upload.Results[0].Item)
	assert.NotEmpty(t, upload.Results[1].Error)
	assert.NotNil(t, upload.Results[2].Item)
	require.Len(t, upload.Items, 2)
	assert.True(t, strings.HasPrefix(upload.Items[0].ImageURL, "/files/media/"))

	rec = env.doJSON(t, http.MethodPost, "/admin/projects/"+project.ID.String()+"/media/poster", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.doJSON(t, http.MethodPost, base+"/reorder", map[string]int{"from": 1, "to": 0})
	require.Equal(t, http.StatusOK, rec.Code)
	reordered := decode[[]entities.MediaItem](t, rec)
	require.Len(t, reordered, 2)
	assert.Equal(t, upload.Items[1].ID, reordered[0].ID)
	assert.Equal(t, 0, reordered[0].OrderIndex)
	assert.Equal(t, 1, reordered[1].OrderIndex)

	rec = env.doJSON(t, http.MethodPost, base+"/reorder", map[string]int{"from": 0, "to": 5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.doJSON(t, http.MethodPut, "/admin/media/"+reordered[0].ID.String()+"/caption", map[string]string{"caption": "Pembukaan"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Pembukaan", decode[entities.MediaItem](t, rec).Caption)

	rec = env.doJSON(t, http.MethodDelete, "/admin/media/"+reordered[0].ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	remaining := decode[[]entities.MediaItem](t, rec)
	require.Len(t, remaining, 1)
	assert.Equal(t, 0, remaining[0].OrderIndex)

	rec = env.doJSON(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]entities.MediaItem](t, rec), 1)
}

func TestAttachmentHandlers(t *testing.T) {
	env := newHandlerEnv(t)
	project := env.seedProject(t, "Bakti Guru")
	coverURL := "/admin/projects/" + project.ID.String() + "/cover"
	reportsURL := "/admin/projects/" + project.ID.String() + "/reports"

	rec := env.doJSON(t, http.MethodGet, coverURL, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.doMultipart(t, http.MethodPut, coverURL, formFileSpec{"image", "a.png", "image/png", pngBytes})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.doMultipart(t, http.MethodPut, coverURL,
		formFileSpec{"file", "a.png", "image/png", pngBytes},
		formFileSpec{"file", "b.png", "image/png", pngBytes},
	)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.doMultipart(t, http.MethodPut, coverURL, formFileSpec{"file", "a.png", "image/png", pngBytes})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cover := decode[entities.CoverImage](t, rec)
	assert.True(t, strings.HasPrefix(cover.ImageURL, "/files/covers/"))

	rec = env.doJSON(t, http.MethodGet, "/projects/"+project.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[ports.PublicProject](t, rec)
	require.NotNil(t, view.CoverURL)
	assert.Equal(t, cover.ImageURL, *view.CoverURL)

	rec = env.doJSON(t, http.MethodDelete, coverURL, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.doMultipart(t, http.MethodPost, reportsURL, formFileSpec{"file", "laporan.txt", "text/plain", textBytes})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	report := decode[entities.ReportFile](t, rec)
	assert.Equal(t, "laporan.txt", report.FileName)

	rec = env.doJSON(t, http.MethodGet, reportsURL, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]entities.ReportFile](t, rec), 1)

	rec = env.doJSON(t, http.MethodDelete, "/admin/reports/"+report.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.doJSON(t, http.MethodDelete, "/admin/reports/"+report.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLoginHandler(t *testing.T) {
	env := newHandlerEnv(t)
	_, err := env.auth.CreateAdmin(context.Background(), ports.CreateAdminRequest{Email: "admin@scug.id", Password: "rahasia123"})
	require.NoError(t, err)

	rec := env.doJSON(t, http.MethodPost, "/auth/login", map[string]string{"email": "admin@scug.id"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.doJSON(t, http.MethodPost, "/auth/login", map[string]string{"email": "admin@scug.id", "password": "salah"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.doJSON(t, http.MethodPost, "/auth/login", map[string]string{"email": "admin@scug.id", "password": "rahasia123"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[ports.AuthResponse](t, rec)
	assert.NotEmpty(t, resp.AccessToken)

	claims, err := env.auth.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin@scug.id", claims.Email)
}
