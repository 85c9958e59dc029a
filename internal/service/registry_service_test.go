package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ops-kit/netops-service/internal/domain"
	"github.com/ops-kit/netops-service/pkg/util/errorutil"
)

func newRegistryFixture() *RegistryService {
	return NewRegistryService(
		newFakePriorityRepo(domain.Priority{Key: "high", DisplayName: "High", Level: 3, SLATargetHours: 8, Enabled: true}),
		newFakeReferenceRepo("fault"),
		newFakeReferenceRepo("monitoring"),
	)
}

func TestCreatePriority(t *testing.T) {
	svc := newRegistryFixture()
	ctx := context.Background()

	priority, err := svc.CreatePriority(ctx, PriorityInput{Key: "  Urgent ", Level: 4, SLATargetHours: 4, ColorCode: "#ff0000"})
	require.NoError(t, err)
	assert.Equal(t, "urgent", priority.Key, "keys are normalized")
	assert.Equal(t, "urgent", priority.DisplayName, "display name falls back to the key")
	assert.True(t, priority.Enabled)

	_, err = svc.CreatePriority(ctx, PriorityInput{Key: "urgent", Level: 4, SLATargetHours: 4})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", errorutil.ToDomainError(err).Code)

	_, err = svc.CreatePriority(ctx, PriorityInput{Key: "nosla", Level: 1, SLATargetHours: 0})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", errorutil.ToDomainError(err).Code)

	_, err = svc.CreatePriority(ctx, PriorityInput{Key: "  ", Level: 1, SLATargetHours: 1})
	require.Error(t, err)
}

func TestUpdatePriorityKeyImmutable(t *testing.T) {
	svc := newRegistryFixture()
	ctx := context.Background()

	updated, err := svc.UpdatePriority(ctx, "high", PriorityInput{Key: "renamed", DisplayName: "Very High", Level: 5, SLATargetHours: 6})
	require.NoError(t, err)
	assert.Equal(t, "high", updated.Key)
	assert.Equal(t, "Very High", updated.DisplayName)
	assert.Equal(t, 6, updated.SLATargetHours)

	_, err = svc.UpdatePriority(ctx, "missing", PriorityInput{SLATargetHours: 1})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", errorutil.ToDomainError(err).Code)
}

func TestDisablePriority(t *testing.T) {
	svc := newRegistryFixture()
	ctx := context.Background()

	require.NoError(t, svc.DisablePriority(ctx, "high"))

	enabled, err := svc.ListPriorities(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, enabled)

	all, err := svc.ListPriorities(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].Enabled)
}

func TestReferenceLifecycle(t *testing.T) {
	svc := newRegistryFixture()
	ctx := context.Background()

	entry, err := svc.CreateReference(ctx, domain.ReferenceKindType, ReferenceInput{Key: "Change", DisplayName: "Change Request"})
	require.NoError(t, err)
	assert.Equal(t, "change", entry.Key)

	_, err = svc.CreateReference(ctx, domain.ReferenceKindType, ReferenceInput{Key: "change"})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", errorutil.ToDomainError(err).Code)

	// same key is free in the other registry
	_, err = svc.CreateReference(ctx, domain.ReferenceKindSource, ReferenceInput{Key: "change"})
	require.NoError(t, err)

	require.NoError(t, svc.DisableReference(ctx, domain.ReferenceKindType, "change"))
	enabled, err := svc.ListReferences(ctx, domain.ReferenceKindType, false)
	require.NoError(t, err)
	for _, e := range enabled {
		assert.NotEqual(t, "change", e.Key)
	}

	_, err = svc.CreateReference(ctx, domain.ReferenceKind("bogus"), ReferenceInput{Key: "x"})
	require.Error(t, err)
}
