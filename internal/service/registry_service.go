package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ops-kit/netops-service/internal/domain"
	"github.com/ops-kit/netops-service/internal/repository"
	"github.com/ops-kit/netops-service/pkg/util/errorutil"
)

// RegistryService manages the priority, type and source reference tables.
// Removal is a soft disable; tickets keep their key either way.
type RegistryService struct {
	priorities repository.PriorityRepository
	types      repository.ReferenceRepository
	sources    repository.ReferenceRepository
}

// NewRegistryService constructs the service.
func NewRegistryService(priorities repository.PriorityRepository, types, sources repository.ReferenceRepository) *RegistryService {
	return &RegistryService{priorities: priorities, types: types, sources: sources}
}

// PriorityInput describes priority registry payloads.
type PriorityInput struct {
	Key            string
	DisplayName    string
	Level          int
	SLATargetHours int
	ColorCode      string
}

// ReferenceInput describes type/source registry payloads.
type ReferenceInput struct {
	Key         string
	DisplayName string
}

// CreatePriority adds a priority; keys are unique and SLA targets positive.
func (s *RegistryService) CreatePriority(ctx context.Context, input PriorityInput) (*domain.Priority, error) {
	key := normalizeKey(input.Key)
	if key == "" {
		return nil, errorutil.NewValidationError("key required", nil)
	}
	if input.SLATargetHours <= 0 {
		return nil, errorutil.NewValidationError("sla_target_hours must be positive",
			map[string]any{"sla_target_hours": input.SLATargetHours})
	}
	if _, err := s.priorities.GetByKey(ctx, key); err == nil {
		return nil, errorutil.NewConflict("priority key already exists", map[string]any{"key": key})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, errorutil.NewPersistenceError(err)
	}

	priority := &domain.Priority{
		Key:            key,
		DisplayName:    displayNameOrKey(input.DisplayName, key),
		Level:          input.Level,
		SLATargetHours: input.SLATargetHours,
		ColorCode:      input.ColorCode,
		Enabled:        true,
	}
	if err := s.priorities.Create(ctx, priority); err != nil {
		return nil, errorutil.NewPersistenceError(err)
	}
	return priority, nil
}

// UpdatePriority mutates a priority registry entry. The key itself is
// immutable once issued.
func (s *RegistryService) UpdatePriority(ctx context.Context, key string, input PriorityInput) (*domain.Priority, error) {
	priority, err := s.getPriority(ctx, key)
	if err != nil {
		return nil, err
	}
	if input.SLATargetHours <= 0 {
		return nil, errorutil.NewValidationError("sla_target_hours must be positive",
			map[string]any{"sla_target_hours": input.SLATargetHours})
	}
	priority.DisplayName = displayNameOrKey(input.DisplayName, priority.Key)
	priority.Level = input.Level
	priority.SLATargetHours = input.SLATargetHours
	priority.ColorCode = input.ColorCode
	if err := s.priorities.Update(ctx, priority); err != nil {
		return nil, errorutil.NewPersistenceError(err)
	}
	return priority, nil
}

// DisablePriority soft-disables the entry; existing tickets are untouched.
func (s *RegistryService) DisablePriority(ctx context.Context, key string) error {
	priority, err := s.getPriority(ctx, key)
	if err != nil {
		return err
	}
	priority.Enabled = false
	if err := s.priorities.Update(ctx, priority); err != nil {
		return errorutil.NewPersistenceError(err)
	}
	return nil
}

// ListPriorities lists registry entries ordered by level.
func (s *RegistryService) ListPriorities(ctx context.Context, includeDisabled bool) ([]domain.Priority, error) {
	result, err := s.priorities.List(ctx, includeDisabled)
	if err != nil {
		return nil, errorutil.NewPersistenceError(err)
	}
	return result, nil
}

// CreateReference adds a type or source entry.
func (s *RegistryService) CreateReference(ctx context.Context, kind domain.ReferenceKind, input ReferenceInput) (*domain.ReferenceEntry, error) {
	repo, err := s.referenceRepo(kind)
	if err != nil {
		return nil, err
	}
	key := normalizeKey(input.Key)
	if key == "" {
		return nil, errorutil.NewValidationError("key required", nil)
	}
	if _, err := repo.GetByKey(ctx, key); err == nil {
		return nil, errorutil.NewConflict(string(kind)+" key already exists", map[string]any{"key": key})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, errorutil.NewPersistenceError(err)
	}

	entry := &domain.ReferenceEntry{
		Key:         key,
		DisplayName: displayNameOrKey(input.DisplayName, key),
		Enabled:     true,
	}
	if err := repo.Create(ctx, entry); err != nil {
		return nil, errorutil.NewPersistenceError(err)
	}
	return entry, nil
}

// UpdateReference mutates a type or source entry.
func (s *RegistryService) UpdateReference(ctx context.Context, kind domain.ReferenceKind, key string, input ReferenceInput) (*domain.ReferenceEntry, error) {
	repo, err := s.referenceRepo(kind)
	if err != nil {
		return nil, err
	}
	entry, err := s.getReference(ctx, repo, kind, key)
	if err != nil {
		return nil, err
	}
	entry.DisplayName = displayNameOrKey(input.DisplayName, entry.Key)
	if err := repo.Update(ctx, entry); err != nil {
		return nil, errorutil.NewPersistenceError(err)
	}
	return entry, nil
}

// DisableReference soft-disables a type or source entry.
func (s *RegistryService) DisableReference(ctx context.Context, kind domain.ReferenceKind, key string) error {
	repo, err := s.referenceRepo(kind)
	if err != nil {
		return err
	}
	entry, err := s.getReference(ctx, repo, kind, key)
	if err != nil {
		return err
	}
	entry.Enabled = false
	if err := repo.Update(ctx, entry); err != nil {
		return errorutil.NewPersistenceError(err)
	}
	return nil
}

// ListReferences lists type or source entries.
func (s *RegistryService) ListReferences(ctx context.Context, kind domain.ReferenceKind, includeDisabled bool) ([]domain.ReferenceEntry, error) {
	repo, err := s.referenceRepo(kind)
	if err != nil {
		return nil, err
	}
	result, err := repo.List(ctx, includeDisabled)
	if err != nil {
		return nil, errorutil.NewPersistenceError(err)
	}
	return result, nil
}

func (s *RegistryService) referenceRepo(kind domain.ReferenceKind) (repository.ReferenceRepository, error) {
	switch kind {
	case domain.ReferenceKindType:
		return s.types, nil
	case domain.ReferenceKindSource:
		return s.sources, nil
	default:
		return nil, errorutil.NewValidationError("unknown registry kind", map[string]any{"kind": kind})
	}
}

func (s *RegistryService) getPriority(ctx context.Context, key string) (*domain.Priority, error) {
	priority, err := s.priorities.GetByKey(ctx, normalizeKey(key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("priority", map[string]any{"key": key})
		}
		return nil, errorutil.NewPersistenceError(err)
	}
	return priority, nil
}

func (s *RegistryService) getReference(ctx context.Context, repo repository.ReferenceRepository, kind domain.ReferenceKind, key string) (*domain.ReferenceEntry, error) {
	entry, err := repo.GetByKey(ctx, normalizeKey(key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound(string(kind), map[string]any{"key": key})
		}
		return nil, errorutil.NewPersistenceError(err)
	}
	return entry, nil
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func displayNameOrKey(name, key string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return key
	}
	return name
}
