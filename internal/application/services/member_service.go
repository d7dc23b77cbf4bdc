package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/secangkircinta/scug/internal/domain/entities"
	"github.com/secangkircinta/scug/internal/infrastructure/logger"
	"github.com/secangkircinta/scug/internal/ports"
)

// MemberService handles member management
type MemberService struct {
	memberRepo ports.MemberRepository
	logger     *logger.Logger
	now        Clock
}

// NewMemberService creates a new member service
func NewMemberService(memberRepo ports.MemberRepository, logger *logger.Logger) *MemberService {
	return &MemberService{
		memberRepo: memberRepo,
		logger:     logger.WithComponent("member_service"),
		now:        utcNow,
	}
}

// resolveMember returns the live member owning phone, creating it if needed.
// A concurrent create of the same phone loses on the unique index and
// re-reads the winner.
func resolveMember(ctx context.Context, repo ports.MemberRepository, name, phone string, at time.Time) (*entities.Member, error) {
	member, err := repo.GetByPhone(ctx, phone)
	if err == nil {
		return member, nil
	}
	if !errors.Is(err, entities.ErrMemberNotFound) {
		return nil, err
	}

	member = &entities.Member{ID: uuid.New(), Name: name, Phone: phone, CreatedAt: at}
	err = repo.Create(ctx, member)
	if errors.Is(err, entities.ErrPhoneTaken) {
		return repo.GetByPhone(ctx, phone)
	}
	if err != nil {
		return nil, err
	}
	return member, nil
}

// CreateMember registers a member; the phone must not belong to a live member
func (s *MemberService) CreateMember(ctx context.Context, req ports.CreateMemberRequest) (*entities.Member, error) {
	verr := &entities.ValidationError{}
	name := requireText(verr, "name", req.Name, maxNameLength)
	phone := requireText(verr, "phone", entities.NormalizePhone(req.Phone), maxPhoneLength)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	member := &entities.Member{ID: uuid.New(), Name: name, Phone: phone, CreatedAt: s.now()}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	s.logger.Infow("Member created", "member_id", member.ID)
	return member, nil
}

// UpdateMember changes name and/or phone of a live member
func (s *MemberService) UpdateMember(ctx context.Context, id uuid.UUID, req ports.UpdateMemberRequest) (*entities.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if member.IsDeleted() {
		return nil, entities.ErrMemberNotFound
	}

	verr := &entities.ValidationError{}
	if req.Name != nil {
		member.Name = requireText(verr, "name", *req.Name, maxNameLength)
	}
	if req.Phone != nil {
		member.Phone = requireText(verr, "phone", entities.NormalizePhone(*req.Phone), maxPhoneLength)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}

	s.logger.Infow("Member updated", "member_id", member.ID)
	return member, nil
}

// DeleteMember soft-deletes a member; tasks keep referencing it
func (s *MemberService) DeleteMember(ctx context.Context, id uuid.UUID) error {
	if err := s.memberRepo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}

	s.logger.Infow("Member deleted", "member_id", id)
	return nil
}

// ListMembers returns live members, newest first
func (s *MemberService) ListMembers(ctx context.Context, filter ports.MemberFilter) ([]*entities.Member, int64, error) {
	filter.Limit, filter.Offset = ports.PageBounds(filter.Limit, filter.Offset)

	members, err := s.memberRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list members: %w", err)
	}
	total, err := s.memberRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count members: %w", err)
	}

	return members, total, nil
}
