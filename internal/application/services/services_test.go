package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/secangkircinta/scug/internal/adapters/cache"
	"github.com/secangkircinta/scug/internal/adapters/repository/memory"
	"github.com/secangkircinta/scug/internal/adapters/storage"
	"github.com/secangkircinta/scug/internal/domain/entities"
	"github.com/secangkircinta/scug/internal/infrastructure/logger"
	"github.com/secangkircinta/scug/internal/infrastructure/metrics"
	"github.com/secangkircinta/scug/internal/ports"
)

const testMaxUpload = 1 << 20

var (
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)
	jpegBytes = append([]byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, make([]byte, 64)...)
	textBytes = []byte("laporan kegiatan bakti guru\n")

	errBoom = errors.New("boom")
)

type testEnv struct {
	repos   ports.Repositories
	storage *storage.FileStorage
	metrics *metrics.Metrics
	logger  *logger.Logger
	redis   *miniredis.Miniredis
	views   *ProjectViewCache
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := logger.NewNop()
	return &testEnv{
		repos:   memory.NewRepositories(),
		storage: storage.NewMemoryStorage("/files"),
		metrics: metrics.New(),
		logger:  log,
		redis:   mr,
		views:   NewProjectViewCache(cache.NewRedisCache(client), time.Minute, log),
	}
}

func (e *testEnv) projects() *ProjectService {
	return NewProjectService(e.repos, e.views, e.logger)
}

func (e *testEnv) tasks() *TaskService {
	return NewTaskService(e.repos.Tasks, e.repos.Projects, e.repos.Members, e.metrics, e.logger)
}

func (e *testEnv) members() *MemberService {
	return NewMemberService(e.repos.Members, e.logger)
}

func (e *testEnv) roster() *ProjectMemberService {
	return NewProjectMemberService(e.repos, e.logger)
}

func (e *testEnv) media() *MediaService {
	return NewMediaService(e.repos.Media, e.repos.Projects, e.storage, e.views, testMaxUpload, e.metrics, e.logger)
}

func (e *testEnv) covers() *CoverService {
	return NewCoverService(e.repos.Covers, e.repos.Projects, e.storage, e.views, testMaxUpload, e.metrics, e.logger)
}

func (e *testEnv) reports() *ReportService {
	return NewReportService(e.repos.Reports, e.repos.Projects, e.storage, testMaxUpload, e.metrics, e.logger)
}

func createProject(t *testing.T, e *testEnv, name string) *entities.Project {
	t.Helper()
	project, err := e.projects().CreateProject(context.Background(), ports.CreateProjectRequest{Name: name})
	require.NoError(t, err)
	return project
}

func createTask(t *testing.T, e *testEnv, projectID uuid.UUID, name string) *entities.Task {
	t.Helper()
	task, err := e.tasks().CreateTask(context.Background(), ports.CreateTaskRequest{
		ProjectID: projectID,
		Name:      name,
		Quantity:  10,
		Unit:      "box",
	})
	require.NoError(t, err)
	return task
}

func uploadFile(name, contentType string, data []byte) ports.UploadFile {
	return ports.UploadFile{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Body:        bytes.NewReader(data),
	}
}

func objectCount(t *testing.T, e *testEnv, prefix string) int {
	t.Helper()
	objects, err := e.storage.List(context.Background(), prefix)
	require.NoError(t, err)
	return len(objects)
}

func orderIndexes(items []*entities.MediaItem) []int {
	out := make([]int, len(items))
	for i, item := range items {
		out[i] = item.OrderIndex
	}
	return out
}

type failingMediaRepo struct {
	ports.MediaRepository
}

func (failingMediaRepo) Create(ctx context.Context, item *entities.MediaItem) error {
	return entities.NewStoreError("insert media", errBoom)
}

type failingCoverRepo struct {
	ports.CoverRepository
}

func (failingCoverRepo) Upsert(ctx context.Context, cover *entities.CoverImage) (*entities.CoverImage, error) {
	return nil, entities.NewStoreError("upsert cover", errBoom)
}

type failingReportRepo struct {
	ports.ReportRepository
}

func (failingReportRepo) Create(ctx context.Context, report *entities.ReportFile) error {
	return entities.NewStoreError("insert report", errBoom)
}

func counterValue(t *testing.T, m *metrics.Metrics, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
	metrics:
		for _, metric := range family.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if want, ok := labels[pair.GetName()]; ok && want != pair.GetValue() {
					continue metrics
				}
			}
			return metric.GetCounter().GetValue()
		}
	}
	return 0
}
