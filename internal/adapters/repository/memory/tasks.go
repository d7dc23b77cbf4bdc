package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/secangkircinta/scug/internal/domain/entities"
	"github.com/secangkircinta/scug/internal/ports"
)

type taskRepository struct {
	db *DB
}

func (r *taskRepository) Create(ctx context.Context, task *entities.Task) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now()
	}
	task.UpdatedAt = task.CreatedAt

	t := *task
	r.db.tasks[t.ID] = &t
	return nil
}

func (r *taskRepository) Get(ctx context.Context, projectID, id uuid.UUID) (*entities.Task, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	t, ok := r.db.tasks[id]
	if !ok || t.ProjectID != projectID {
		return nil, entities.ErrTaskNotFound
	}
	out := *t
	return &out, nil
}

func (r *taskRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	t, ok := r.db.tasks[id]
	if !ok {
		return nil, entities.ErrTaskNotFound
	}
	out := *t
	return &out, nil
}

func (r *taskRepository) Update(ctx context.Context, task *entities.Task) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	t, ok := r.db.tasks[task.ID]
	if !ok {
		return entities.ErrTaskNotFound
	}
	if !t.CanBeEdited() {
		return entities.ErrTaskFilled
	}

	task.UpdatedAt = now()
	t.Name, t.Quantity, t.Unit, t.Notes, t.UpdatedAt = task.Name, task.Quantity, task.Unit, task.Notes, task.UpdatedAt
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.tasks[id]; !ok {
		return entities.ErrTaskNotFound
	}
	delete(r.db.tasks, id)
	return nil
}

func (r *taskRepository) query(filter ports.TaskFilter) []*entities.Task {
	tasks := make([]*entities.Task, 0)
	for _, t := range r.db.tasks {
		if filter.ProjectID != nil && t.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.Filled != nil && t.Filled != *filter.Filled {
			continue
		}
		if filter.ActiveProjectsOnly {
			if p, ok := r.db.projects[t.ProjectID]; !ok || p.IsDeleted() {
				continue
			}
		}
		out := *t
		tasks = append(tasks, &out)
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		}
		return tasks[i].ID.String() < tasks[j].ID.String()
	})
	return tasks
}

func (r *taskRepository) List(ctx context.Context, filter ports.TaskFilter) ([]*entities.Task, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return page(r.query(filter), filter.Limit, filter.Offset), nil
}

func (r *taskRepository) Count(ctx context.Context, filter ports.TaskFilter) (int64, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return int64(len(r.query(filter))), nil
}

// Claim checks and fills under the write lock, the in-process equivalent of
// the conditional UPDATE used by the SQL store.
func (r *taskRepository) Claim(ctx context.Context, projectID, id, memberID uuid.UUID, at time.Time) (bool, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	t, ok := r.db.tasks[id]
	if !ok || t.ProjectID != projectID {
		return false, nil
	}
	if p, ok := r.db.projects[projectID]; !ok || p.IsDeleted() {
		return false, nil
	}
	if err := t.Fill(memberID, at); err != nil {
		return false, nil
	}
	return true, nil
}

type memberRepository struct {
	db *DB
}

func (r *memberRepository) phoneTaken(phone string, except uuid.UUID) bool {
	for _, m := range r.db.members {
		if m.ID != except && !m.IsDeleted() && m.Phone == phone {
			return true
		}
	}
	return false
}

func (r *memberRepository) Create(ctx context.Context, member *entities.Member) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if r.phoneTaken(member.Phone, uuid.Nil) {
		return entities.ErrPhoneTaken
	}

	if member.ID == uuid.Nil {
		member.ID = uuid.New()
	}
	if member.CreatedAt.IsZero() {
		member.CreatedAt = now()
	}
	member.UpdatedAt = member.CreatedAt

	m := *member
	r.db.members[m.ID] = &m
	return nil
}

func (r *memberRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Member, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	m, ok := r.db.members[id]
	if !ok {
		return nil, entities.ErrMemberNotFound
	}
	out := *m
	return &out, nil
}

func (r *memberRepository) GetByPhone(ctx context.Context, phone string) (*entities.Member, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	for _, m := range r.db.members {
		if !m.IsDeleted() && m.Phone == phone {
			out := *m
			return &out, nil
		}
	}
	return nil, entities.ErrMemberNotFound
}

func (r *memberRepository) Update(ctx context.Context, member *entities.Member) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	m, ok := r.db.members[member.ID]
	if !ok || m.IsDeleted() {
		return entities.ErrMemberNotFound
	}
	if r.phoneTaken(member.Phone, member.ID) {
		return entities.ErrPhoneTaken
	}

	member.UpdatedAt = now()
	m.Name, m.Phone, m.UpdatedAt = member.Name, member.Phone, member.UpdatedAt
	return nil
}

func (r *memberRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	m, ok := r.db.members[id]
	if !ok || m.IsDeleted() {
		return entities.ErrMemberNotFound
	}
	at := now()
	m.DeletedAt, m.UpdatedAt = &at, at
	return nil
}

func (r *memberRepository) query(filter ports.MemberFilter) []*entities.Member {
	members := make([]*entities.Member, 0)
	for _, m := range r.db.members {
		if m.IsDeleted() {
			continue
		}
		if !contains(m.Name, filter.Search) && !contains(m.Phone, filter.Search) {
			continue
		}
		out := *m
		members = append(members, &out)
	}

	sort.SliceStable(members, func(i, j int) bool {
		return members[i].CreatedAt.After(members[j].CreatedAt)
	})
	return members
}

func (r *memberRepository) List(ctx context.Context, filter ports.MemberFilter) ([]*entities.Member, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return page(r.query(filter), filter.Limit, filter.Offset), nil
}

func (r *memberRepository) Count(ctx context.Context, filter ports.MemberFilter) (int64, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return int64(len(r.query(filter))), nil
}

type rosterKey struct {
	projectID uuid.UUID
	memberID  uuid.UUID
}

type rosterRepository struct {
	db *DB
}

func (r *rosterRepository) Add(ctx context.Context, entry *entities.ProjectMember) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	key := rosterKey{projectID: entry.ProjectID, memberID: entry.MemberID}
	if _, ok := r.db.rosters[key]; ok {
		return entities.ErrAlreadyOnRoster
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now()
	}

	e := *entry
	r.db.rosters[key] = &e
	return nil
}

func (r *rosterRepository) Remove(ctx context.Context, projectID, memberID uuid.UUID) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	key := rosterKey{projectID: projectID, memberID: memberID}
	if _, ok := r.db.rosters[key]; !ok {
		return entities.ErrProjectMemberNotFound
	}
	delete(r.db.rosters, key)
	return nil
}

func (r *rosterRepository) List(ctx context.Context, projectID uuid.UUID) ([]*entities.ProjectMember, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	entries := make([]*entities.ProjectMember, 0)
	for key, e := range r.db.rosters {
		if key.projectID != projectID {
			continue
		}
		out := *e
		entries = append(entries, &out)
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		}
		return entries[i].MemberID.String() < entries[j].MemberID.String()
	})
	return entries, nil
}
