package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secangkircinta/scug/internal/domain/entities"
	"github.com/secangkircinta/scug/internal/ports"
)

func uploadSlider(t *testing.T, env *testEnv, projectID uuid.UUID, n int) []*entities.MediaItem {
	t.Helper()

	files := make([]ports.UploadFile, n)
	for i := range files {
		files[i] = uploadFile("slide.png", "image/png", pngBytes)
	}
	resp, err := env.media().Upload(context.Background(), projectID, entities.MediaTypeSlider, files)
	require.NoError(t, err)
	require.Len(t, resp.Items, n)
	return resp.Items
}

func TestMediaUpload_PerFileResults(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	svc := env.media()

	project := createProject(t, env, "A")

	resp, err := svc.Upload(ctx, project.ID, entities.MediaTypeGallery, []ports.UploadFile{
		uploadFile("a.png", "image/png", pngBytes),
		uploadFile("fake.png", "image/png", textBytes),
		uploadFile("notes.txt", "text/plain", textBytes),
		uploadFile("b.jpg", "image/jpeg", jpegBytes),
		uploadFile("empty.png", "image/png", nil),
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 5)

	assert.Empty(t, resp.Results[0].Error)
	assert.ErrorIs(t, resp.Results[1].Err, entities.ErrValidation)
	assert.ErrorIs(t, resp.Results[2].Err, entities.ErrValidation)
	assert.Empty(t, resp.Results[3].Error)
	assert.ErrorIs(t, resp.Results[4].Err, entities.ErrValidation)
	assert.NotEmpty(t, resp.Results[4].Error)

	require.Len(t, resp.Items, 2)
	assert.Equal(t, []int{0, 1}, orderIndexes(resp.Items))
	assert.Equal(t, "image/png", resp.Items[0].ContentType)
	assert.Equal(t, "image/jpeg", resp.Items[1].ContentType)
	assert.True(t, strings.HasPrefix(resp.Items[0].ImageURL, "/files/media/"+project.ID.String()+"/gallery/"))
	assert.True(t, strings.HasSuffix(resp.Items[1].ObjectPath, ".jpg"))

	assert.Equal(t, 2, objectCount(t, env, "media"))
	assert.Equal(t, float64(3), counterValue(t, env.metrics, "scug_uploads_total", map[string]string{"kind": "media", "outcome": "error"}))
}

func TestMediaUpload_RejectsScope(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	svc := env.media()

	project := createProject(t, env, "A")
	files := []ports.UploadFile{uploadFile("a.png", "image/png", pngBytes)}

	_, err := svc.Upload(ctx, project.ID, entities.MediaType("banner"), files)
	assert.ErrorIs(t, err, entities.ErrValidation)

	_, err = svc.Upload(ctx, uuid.New(), entities.MediaTypeSlider, files)
	assert.ErrorIs(t, err, entities.ErrProjectNotFound)

	_, err = svc.Upload(ctx, project.ID, entities.MediaTypeSlider, nil)
	assert.ErrorIs(t, err, entities.ErrValidation)
}

func TestMediaUpload_OversizedFile(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	svc := NewMediaService(env.repos.Media, env.repos.Projects, env.storage, env.views, 16, env.metrics, env.logger)

	project := createProject(t, env, "A")

	resp, err := svc.Upload(ctx, project.ID, entities.MediaTypeSlider, []ports.UploadFile{uploadFile("a.png", "image/png", pngBytes)})
	require.NoError(t, err)
	assert.ErrorIs(t, resp.Results[0].Err, entities.ErrValidation)
	assert.Empty(t, resp.Items)
}

func TestMediaUpload_CompensatesFailedInsert(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	svc := NewMediaService(failingMediaRepo{env.repos.Media}, env.repos.Projects, env.storage, env.views, testMaxUpload, env.metrics, env.logger)

	project := createProject(t, env, "A")

	resp, err := svc.Upload(ctx, project.ID, entities.MediaTypeSlider, []ports.UploadFile{uploadFile("a.png", "image/png", pngBytes)})
	require.NoError(t, err)
	assert.ErrorIs(t, resp.Results[0].Err, entities.ErrStore)
	assert.Empty(t, resp.Items)
	assert.Zero(t, objectCount(t, env, "media"))
}

func TestMediaReorder(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	svc := env.media()

	project := createProject(t, env, "A")
	items := uploadSlider(t, env, project.ID, 4)
	ids := []uuid.UUID{items[0].ID, items[1].ID, items[2].ID, items[3].ID}

	reordered, err := svc.Reorder(ctx, project.ID, entities.MediaTypeSlider, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, orderIndexes(reordered))
	assert.Equal(t, []uuid.UUID{ids[1], ids[2], ids[0], ids[3]}, mediaIDs(reordered))

	reordered, err = svc.Reorder(ctx, project.ID, entities.MediaTypeSlider, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{ids[3], ids[1], ids[2], ids[0]}, mediaIDs(reordered))

	stored, err := svc.List(ctx, project.ID, entities.MediaTypeSlider)
	require.NoError(t, err)
	assert.Equal(t, mediaIDs(reordered), mediaIDs(stored))
	assert.Equal(t, []int{0, 1, 2, 3}, orderIndexes(stored))

	_, err = svc.Reorder(ctx, project.ID, entities.MediaTypeSlider, 0, 4)
	assert.ErrorIs(t, err, entities.ErrValidation)
}

func TestMediaRemove_KeepsOrderDense(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	svc := env.media()

	project := createProject(t, env, "A")
	items := uploadSlider(t, env, project.ID, 4)
	gallery, err := svc.Upload(ctx, project.ID, entities.MediaTypeGallery, []ports.UploadFile{uploadFile("g.png", "image/png", pngBytes)})
	require.NoError(t, err)

	rest, err := svc.Remove(ctx, items[1].ID)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, orderIndexes(rest))
	assert.Equal(t, []uuid.UUID{items[0].ID, items[2].ID, items[3].ID}, mediaIDs(rest))

	rest, err = svc.Remove(ctx, items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, orderIndexes(rest))

	stored, err := svc.List(ctx, project.ID, entities.MediaTypeSlider)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, orderIndexes(stored))

	// the other scope is untouched
	other, err := svc.List(ctx, project.ID, entities.MediaTypeGallery)
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, gallery.Items[0].ID, other[0].ID)

	assert.Equal(t, 3, objectCount(t, env, "media"))

	_, err = svc.Remove(ctx, items[0].ID)
	assert.ErrorIs(t, err, entities.ErrMediaNotFound)
}

func TestMediaSetCaption(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	svc := env.media()

	project := createProject(t, env, "A")
	items := uploadSlider(t, env, project.ID, 2)

	item, err := svc.SetCaption(ctx, items[1].ID, "Penyerahan donasi")
	require.NoError(t, err)
	assert.Equal(t, "Penyerahan donasi", item.Caption)
	assert.Equal(t, 1, item.OrderIndex)

	_, err = svc.SetCaption(ctx, items[1].ID, strings.Repeat("x", maxCaptionLength+1))
	assert.ErrorIs(t, err, entities.ErrValidation)

	_, err = svc.SetCaption(ctx, uuid.New(), "x")
	assert.ErrorIs(t, err, entities.ErrMediaNotFound)
}

func mediaIDs(items []*entities.MediaItem) []uuid.UUID {
	out := make([]uuid.UUID, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}
