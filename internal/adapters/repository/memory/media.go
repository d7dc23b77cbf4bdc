package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/secangkircinta/scug/internal/domain/entities"
)

type mediaRepository struct {
	db *DB
}

func (r *mediaRepository) Create(ctx context.Context, item *entities.MediaItem) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now()
	}

	m := *item
	r.db.media[m.ID] = &m
	return nil
}

func (r *mediaRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.MediaItem, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	m, ok := r.db.media[id]
	if !ok {
		return nil, entities.ErrMediaNotFound
	}
	out := *m
	return &out, nil
}

func (r *mediaRepository) List(ctx context.Context, projectID uuid.UUID, mediaType entities.MediaType) ([]*entities.MediaItem, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	scope := make([]entities.MediaItem, 0)
	for _, m := range r.db.media {
		if m.ProjectID == projectID && m.Type == mediaType {
			scope = append(scope, *m)
		}
	}
	entities.SortByOrder(scope)

	items := make([]*entities.MediaItem, len(scope))
	for i := range scope {
		items[i] = &scope[i]
	}
	return items, nil
}

func (r *mediaRepository) SetCaption(ctx context.Context, id uuid.UUID, caption string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	m, ok := r.db.media[id]
	if !ok {
		return entities.ErrMediaNotFound
	}
	m.Caption = caption
	return nil
}

// UpdateOrder validates every id before writing so the batch applies all or nothing
func (r *mediaRepository) UpdateOrder(ctx context.Context, items []entities.MediaItem) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	for _, item := range items {
		if _, ok := r.db.media[item.ID]; !ok {
			return entities.ErrMediaNotFound
		}
	}
	for _, item := range items {
		r.db.media[item.ID].OrderIndex = item.OrderIndex
	}
	return nil
}

func (r *mediaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.media[id]; !ok {
		return entities.ErrMediaNotFound
	}
	delete(r.db.media, id)
	return nil
}

func (r *mediaRepository) ObjectPaths(ctx context.Context) ([]string, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	paths := make([]string, 0, len(r.db.media))
	for _, m := range r.db.media {
		paths = append(paths, m.ObjectPath)
	}
	return paths, nil
}

type coverRepository struct {
	db *DB
}

func (r *coverRepository) Get(ctx context.Context, projectID uuid.UUID) (*entities.CoverImage, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	c, ok := r.db.covers[projectID]
	if !ok {
		return nil, entities.ErrCoverNotFound
	}
	out := *c
	return &out, nil
}

func (r *coverRepository) Upsert(ctx context.Context, cover *entities.CoverImage) (*entities.CoverImage, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if cover.CreatedAt.IsZero() {
		cover.CreatedAt = now()
	}

	previous := r.db.covers[cover.ProjectID]
	c := *cover
	r.db.covers[c.ProjectID] = &c
	return previous, nil
}

func (r *coverRepository) Delete(ctx context.Context, projectID uuid.UUID) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.covers[projectID]; !ok {
		return entities.ErrCoverNotFound
	}
	delete(r.db.covers, projectID)
	return nil
}

func (r *coverRepository) ObjectPaths(ctx context.Context) ([]string, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	paths := make([]string, 0, len(r.db.covers))
	for _, c := range r.db.covers {
		paths = append(paths, c.ObjectPath)
	}
	return paths, nil
}

type reportRepository struct {
	db *DB
}

func (r *reportRepository) Create(ctx context.Context, report *entities.ReportFile) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = now()
	}

	rf := *report
	r.db.reports[rf.ID] = &rf
	return nil
}

func (r *reportRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.ReportFile, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	rf, ok := r.db.reports[id]
	if !ok {
		return nil, entities.ErrReportNotFound
	}
	out := *rf
	return &out, nil
}

func (r *reportRepository) List(ctx context.Context, projectID uuid.UUID) ([]*entities.ReportFile, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	reports := make([]*entities.ReportFile, 0)
	for _, rf := range r.db.reports {
		if rf.ProjectID == projectID {
			out := *rf
			reports = append(reports, &out)
		}
	}
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
	return reports, nil
}

func (r *reportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.reports[id]; !ok {
		return entities.ErrReportNotFound
	}
	delete(r.db.reports, id)
	return nil
}

func (r *reportRepository) ObjectPaths(ctx context.Context) ([]string, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	paths := make([]string, 0, len(r.db.reports))
	for _, rf := range r.db.reports {
		paths = append(paths, rf.ObjectPath)
	}
	return paths, nil
}
