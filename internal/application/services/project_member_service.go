package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/secangkircinta/scug/internal/domain/entities"
	"github.com/secangkircinta/scug/internal/infrastructure/logger"
	"github.com/secangkircinta/scug/internal/ports"
)

// ProjectMemberService manages the member roster of each project. The
// roster shown to admins also lists everyone who filled one of the
// project's tasks.
type ProjectMemberService struct {
	rosterRepo  ports.ProjectMemberRepository
	projectRepo ports.ProjectRepository
	taskRepo    ports.TaskRepository
	memberRepo  ports.MemberRepository
	logger      *logger.Logger
	now         Clock
}

// NewProjectMemberService creates a new project roster service
func NewProjectMemberService(repos ports.Repositories, logger *logger.Logger) *ProjectMemberService {
	return &ProjectMemberService{
		rosterRepo:  repos.Rosters,
		projectRepo: repos.Projects,
		taskRepo:    repos.Tasks,
		memberRepo:  repos.Members,
		logger:      logger.WithComponent("project_member_service"),
		now:         utcNow,
	}
}

// ListProjectMembers returns roster entries in the order they were added,
// followed by fulfillers who are not on the roster, sorted by name.
func (s *ProjectMemberService) ListProjectMembers(ctx context.Context, projectID uuid.UUID) ([]*ports.RosterEntry, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	roster, err := s.rosterRepo.List(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	fills, err := s.filledTasks(ctx, projectID)
	if err != nil {
		return nil, err
	}

	entries := make([]*ports.RosterEntry, 0, len(roster)+len(fills))
	listed := make(map[uuid.UUID]bool, len(roster))
	for _, e := range roster {
		member, err := s.memberRepo.GetByID(ctx, e.MemberID)
		if errors.Is(err, entities.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load roster member: %w", err)
		}

		addedAt := e.CreatedAt
		entries = append(entries, &ports.RosterEntry{
			Member:      member,
			Role:        e.Role,
			OnRoster:    true,
			AddedAt:     &addedAt,
			FilledTasks: fills[e.MemberID],
		})
		listed[e.MemberID] = true
	}

	fulfillers := make([]*ports.RosterEntry, 0, len(fills))
	for memberID, count := range fills {
		if listed[memberID] {
			continue
		}
		member, err := s.memberRepo.GetByID(ctx, memberID)
		if errors.Is(err, entities.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load fulfiller: %w", err)
		}
		fulfillers = append(fulfillers, &ports.RosterEntry{Member: member, FilledTasks: count})
	}

	sort.Slice(fulfillers, func(i, j int) bool {
		a, b := strings.ToLower(fulfillers[i].Name), strings.ToLower(fulfillers[j].Name)
		if a != b {
			return a < b
		}
		return fulfillers[i].ID.String() < fulfillers[j].ID.String()
	})

	return append(entries, fulfillers...), nil
}

// AddProjectMember resolves the member by phone, creating it when needed,
// and puts it on the project roster.
func (s *ProjectMemberService) AddProjectMember(ctx context.Context, projectID uuid.UUID, req ports.AddProjectMemberRequest) (*ports.RosterEntry, error) {
	verr := &entities.ValidationError{}
	name := requireText(verr, "name", req.Name, maxNameLength)
	phone := requireText(verr, "phone", entities.NormalizePhone(req.Phone), maxPhoneLength)
	role := strings.TrimSpace(req.Role)
	if utf8.RuneCountInString(role) > maxRoleLength {
		verr.Add("role", fmt.Sprintf("must be at most %d characters", maxRoleLength))
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	at := s.now()
	member, err := resolveMember(ctx, s.memberRepo, name, phone, at)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve member: %w", err)
	}

	entry := &entities.ProjectMember{ProjectID: projectID, MemberID: member.ID, Role: role, CreatedAt: at}
	if err := s.rosterRepo.Add(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to add project member: %w", err)
	}

	fills, err := s.filledTasks(ctx, projectID)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Project member added", "project_id", projectID, "member_id", member.ID)
	return &ports.RosterEntry{
		Member:      member,
		Role:        role,
		OnRoster:    true,
		AddedAt:     &entry.CreatedAt,
		FilledTasks: fills[member.ID],
	}, nil
}

// RemoveProjectMember takes a member off the roster. Tasks the member
// filled are untouched, so a fulfiller keeps appearing in the listing.
func (s *ProjectMemberService) RemoveProjectMember(ctx context.Context, projectID, memberID uuid.UUID) error {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return err
	}

	if err := s.rosterRepo.Remove(ctx, projectID, memberID); err != nil {
		return fmt.Errorf("failed to remove project member: %w", err)
	}

	s.logger.Infow("Project member removed", "project_id", projectID, "member_id", memberID)
	return nil
}

// filledTasks counts the filled tasks of a project per fulfilling member
func (s *ProjectMemberService) filledTasks(ctx context.Context, projectID uuid.UUID) (map[uuid.UUID]int, error) {
	filled := true
	tasks, err := s.taskRepo.List(ctx, ports.TaskFilter{ProjectID: &projectID, Filled: &filled})
	if err != nil {
		return nil, fmt.Errorf("list filled tasks: %w", err)
	}

	counts := map[uuid.UUID]int{}
	for _, task := range tasks {
		if task.FilledByMemberID != nil {
			counts[*task.FilledByMemberID]++
		}
	}
	return counts, nil
}
