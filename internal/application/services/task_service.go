package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/secangkircinta/scug/internal/domain/entities"
	"github.com/secangkircinta/scug/internal/infrastructure/logger"
	"github.com/secangkircinta/scug/internal/infrastructure/metrics"
	"github.com/secangkircinta/scug/internal/ports"
)

// TaskService handles task listing, claiming and admin editing
type TaskService struct {
	taskRepo    ports.TaskRepository
	projectRepo ports.ProjectRepository
	memberRepo  ports.MemberRepository
	metrics     *metrics.Metrics
	logger      *logger.Logger
	now         Clock
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo ports.TaskRepository, projectRepo ports.ProjectRepository, memberRepo ports.MemberRepository, m *metrics.Metrics, logger *logger.Logger) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		memberRepo:  memberRepo,
		metrics:     m,
		logger:      logger.WithComponent("task_service"),
		now:         utcNow,
	}
}

// ClaimTask records a volunteer as the fulfiller of an unfilled task. The
// store's conditional update guarantees a single winner; a loser gets
// entities.ErrTaskUnavailable.
func (s *TaskService) ClaimTask(ctx context.Context, req ports.ClaimTaskRequest) (*ports.ClaimResult, error) {
	result, err := s.claimTask(ctx, req)

	switch {
	case err == nil:
		s.metrics.ObserveClaim(metrics.ClaimClaimed)
	case errors.Is(err, entities.ErrValidation):
		s.metrics.ObserveClaim(metrics.ClaimInvalid)
	case errors.Is(err, entities.ErrNotFound):
		s.metrics.ObserveClaim(metrics.ClaimNotFound)
	case errors.Is(err, entities.ErrConflict):
		s.metrics.ObserveClaim(metrics.ClaimConflict)
	default:
		s.metrics.ObserveClaim(metrics.ClaimError)
		s.logger.WithError(err).Errorw("Task claim failed", "task_id", req.TaskID, "project_id", req.ProjectID)
	}

	return result, err
}

func (s *TaskService) claimTask(ctx context.Context, req ports.ClaimTaskRequest) (*ports.ClaimResult, error) {
	verr := &entities.ValidationError{}
	name := requireText(verr, "name", req.Name, maxNameLength)
	phone := requireText(verr, "phone", entities.NormalizePhone(req.Phone), maxPhoneLength)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	task, err := s.GetTask(ctx, req.ProjectID, req.TaskID)
	if err != nil {
		return nil, err
	}
	if !task.CanBeClaimed() {
		return nil, entities.ErrTaskUnavailable
	}

	at := s.now()
	member, err := resolveMember(ctx, s.memberRepo, name, phone, at)
	if err != nil {
		return nil, fmt.Errorf("resolve member: %w", err)
	}

	claimed, err := s.taskRepo.Claim(ctx, req.ProjectID, req.TaskID, member.ID, at)
	if err != nil {
		return nil, fmt.Errorf("claim task: %w", err)
	}
	if !claimed {
		// lost the race, or the task or project vanished meanwhile
		if _, err := s.GetTask(ctx, req.ProjectID, req.TaskID); err != nil {
			return nil, err
		}
		return nil, entities.ErrTaskUnavailable
	}

	task, err = s.taskRepo.Get(ctx, req.ProjectID, req.TaskID)
	if err != nil {
		return nil, fmt.Errorf("reload claimed task: %w", err)
	}

	s.logger.Infow("Task claimed", "task_id", task.ID, "project_id", task.ProjectID, "member_id", member.ID)

	return &ports.ClaimResult{Task: task, Member: member}, nil
}

// GetTask returns a task of a visible project, filled or not
func (s *TaskService) GetTask(ctx context.Context, projectID, taskID uuid.UUID) (*entities.Task, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, entities.ErrProjectNotFound) {
			return nil, entities.ErrTaskNotFound
		}
		return nil, err
	}

	return s.taskRepo.Get(ctx, projectID, taskID)
}

// GetOpenTaskBoard lists the unfilled tasks of a project and, grouped by
// project, those of every other visible project.
func (s *TaskService) GetOpenTaskBoard(ctx context.Context, projectID uuid.UUID) (*ports.TaskBoard, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	unfilled := false
	tasks, err := s.taskRepo.List(ctx, ports.TaskFilter{Filled: &unfilled, ActiveProjectsOnly: true})
	if err != nil {
		return nil, fmt.Errorf("list open tasks: %w", err)
	}

	projects, err := s.projectRepo.List(ctx, ports.ProjectFilter{})
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	names := make(map[uuid.UUID]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}

	board := &ports.TaskBoard{
		ProjectID: projectID,
		Current:   []*entities.Task{},
		Others:    map[uuid.UUID]*ports.ProjectTasks{},
	}
	for _, task := range tasks {
		if task.ProjectID == projectID {
			board.Current = append(board.Current, task)
			continue
		}

		name, ok := names[task.ProjectID]
		if !ok {
			// project deleted between the two reads
			continue
		}
		group, ok := board.Others[task.ProjectID]
		if !ok {
			group = &ports.ProjectTasks{ProjectName: name}
			board.Others[task.ProjectID] = group
		}
		group.Tasks = append(group.Tasks, task)
	}

	return board, nil
}

// CreateTask adds an unfilled task to a visible project
func (s *TaskService) CreateTask(ctx context.Context, req ports.CreateTaskRequest) (*entities.Task, error) {
	verr := &entities.ValidationError{}
	name := requireText(verr, "task_name", req.Name, maxNameLength)
	unit := requireText(verr, "unit", req.Unit, maxUnitLength)
	if req.Quantity < 1 {
		verr.Add("quantity", "must be at least 1")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if _, err := s.projectRepo.GetByID(ctx, req.ProjectID); err != nil {
		return nil, err
	}

	task := &entities.Task{
		ID:        uuid.New(),
		ProjectID: req.ProjectID,
		Name:      name,
		Quantity:  req.Quantity,
		Unit:      unit,
		Notes:     req.Notes,
		CreatedAt: s.now(),
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Infow("Task created", "task_id", task.ID, "project_id", task.ProjectID)

	return task, nil
}

// UpdateTask edits an unfilled task
func (s *TaskService) UpdateTask(ctx context.Context, id uuid.UUID, req ports.UpdateTaskRequest) (*entities.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !task.CanBeEdited() {
		return nil, entities.ErrTaskFilled
	}

	verr := &entities.ValidationError{}
	if req.Name != nil {
		task.Name = requireText(verr, "task_name", *req.Name, maxNameLength)
	}
	if req.Unit != nil {
		task.Unit = requireText(verr, "unit", *req.Unit, maxUnitLength)
	}
	if req.Quantity != nil {
		if *req.Quantity < 1 {
			verr.Add("quantity", "must be at least 1")
		}
		task.Quantity = *req.Quantity
	}
	if req.Notes != nil {
		task.Notes = req.Notes
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.logger.Infow("Task updated", "task_id", task.ID)

	return task, nil
}

// DeleteTask removes a task in any state
func (s *TaskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.Infow("Task deleted", "task_id", id)
	return nil
}

// ListProjectTasks returns every task of a project with its fulfiller
func (s *TaskService) ListProjectTasks(ctx context.Context, projectID uuid.UUID) ([]*ports.TaskWithFulfiller, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.List(ctx, ports.TaskFilter{ProjectID: &projectID})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	members := map[uuid.UUID]*entities.Member{}
	out := make([]*ports.TaskWithFulfiller, 0, len(tasks))
	for _, task := range tasks {
		view := &ports.TaskWithFulfiller{Task: task}
		if task.FilledByMemberID != nil {
			member, ok := members[*task.FilledByMemberID]
			if !ok {
				member, err = s.memberRepo.GetByID(ctx, *task.FilledByMemberID)
				if err != nil && !errors.Is(err, entities.ErrNotFound) {
					return nil, fmt.Errorf("load fulfiller: %w", err)
				}
				members[*task.FilledByMemberID] = member
			}
			view.Fulfiller = member
		}
		out = append(out, view)
	}

	return out, nil
}
