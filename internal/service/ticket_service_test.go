package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ops-kit/netops-service/internal/domain"
	"github.com/ops-kit/netops-service/internal/events"
	"github.com/ops-kit/netops-service/internal/repository"
	"github.com/ops-kit/netops-service/pkg/util/errorutil"
)

func newTicketFixture(t *testing.T, start time.Time) (*TicketService, *fakeTicketRepo, *fakeAuditRepo, *capturingDispatcher, *fakeClock) {
	t.Helper()
	clock := newFakeClock(start)
	tickets := newFakeTicketRepo(clock)
	audits := &fakeAuditRepo{}
	dispatcher := &capturingDispatcher{}
	priorities := newFakePriorityRepo(
		domain.Priority{Key: "urgent", DisplayName: "Urgent", Level: 4, SLATargetHours: 4, Enabled: true},
		domain.Priority{Key: "low", DisplayName: "Low", Level: 1, SLATargetHours: 72, Enabled: true},
		domain.Priority{Key: "retired", DisplayName: "Retired", Level: 0, SLATargetHours: 24, Enabled: false},
	)
	svc := NewTicketService(TicketDependencies{
		TicketRepo:   tickets,
		AuditRepo:    audits,
		PriorityRepo: priorities,
		TypeRepo:     newFakeReferenceRepo("fault", "request"),
		SourceRepo:   newFakeReferenceRepo("monitoring", "manual"),
		Dispatcher:   dispatcher,
		Now:          clock.Now,
	})
	return svc, tickets, audits, dispatcher, clock
}

func createTicket(t *testing.T, svc *TicketService, priorityKey string) *domain.Ticket {
	t.Helper()
	ticket, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		Title:       "core switch unreachable",
		Description: "uplink down on sw-core-01",
		PriorityKey: priorityKey,
		TypeKey:     "fault",
		SourceKey:   "monitoring",
		CreatorID:   "op-1",
	})
	require.NoError(t, err)
	return ticket
}

func TestCreateTicketValidation(t *testing.T) {
	svc, _, _, _, _ := newTicketFixture(t, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	tests := []struct {
		name  string
		input TicketCreateInput
		code  string
	}{
		{
			name:  "missing title",
			input: TicketCreateInput{PriorityKey: "urgent", TypeKey: "fault", SourceKey: "monitoring", CreatorID: "op-1"},
			code:  "VALIDATION_FAILED",
		},
		{
			name:  "missing creator",
			input: TicketCreateInput{Title: "x", PriorityKey: "urgent", TypeKey: "fault", SourceKey: "monitoring"},
			code:  "VALIDATION_FAILED",
		},
		{
			name:  "unknown priority",
			input: TicketCreateInput{Title: "x", PriorityKey: "nope", TypeKey: "fault", SourceKey: "monitoring", CreatorID: "op-1"},
			code:  "VALIDATION_FAILED",
		},
		{
			name:  "disabled priority",
			input: TicketCreateInput{Title: "x", PriorityKey: "retired", TypeKey: "fault", SourceKey: "monitoring", CreatorID: "op-1"},
			code:  "VALIDATION_FAILED",
		},
		{
			name:  "unknown type",
			input: TicketCreateInput{Title: "x", PriorityKey: "urgent", TypeKey: "nope", SourceKey: "monitoring", CreatorID: "op-1"},
			code:  "VALIDATION_FAILED",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateTicket(ctx, tc.input)
			require.Error(t, err)
			assert.Equal(t, tc.code, errorutil.ToDomainError(err).Code)
		})
	}
}

func TestTicketLifecycle(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc, _, _, dispatcher, clock := newTicketFixture(t, start)
	ctx := context.Background()

	ticket := createTicket(t, svc, "urgent")
	assert.Equal(t, domain.TicketStatusCreated, ticket.Status)
	assert.NotEmpty(t, ticket.ID)
	assert.Regexp(t, `^OPS-[0-9A-F]{8}$`, ticket.ReferenceKey)

	clock.Advance(30 * time.Minute)
	ticket, err := svc.AssignTicket(ctx, ticket.ID, "eng-7", "op-1")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusAssigned, ticket.Status)
	require.NotNil(t, ticket.AssigneeID)
	assert.Equal(t, "eng-7", *ticket.AssigneeID)
	require.NotNil(t, ticket.AssignedAt)
	assert.Equal(t, start.Add(30*time.Minute), *ticket.AssignedAt)

	clock.Advance(30 * time.Minute)
	ticket, err = svc.StartProcessing(ctx, ticket.ID, "eng-7")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, ticket.Status)
	require.NotNil(t, ticket.StartedAt)

	clock.Advance(2 * time.Hour)
	ticket, err = svc.CompleteTicket(ctx, ticket.ID, "eng-7")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusCompleted, ticket.Status)
	require.NotNil(t, ticket.ResolvedAt)
	require.NotNil(t, ticket.SLACompliant)
	assert.True(t, *ticket.SLACompliant, "3h resolution within the 4h target")
	assert.InDelta(t, 3.0, ticket.ResolutionHours(), 0.01)

	clock.Advance(time.Hour)
	ticket, err = svc.CloseTicket(ctx, ticket.ID, "op-1")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, ticket.Status)
	require.NotNil(t, ticket.ClosedAt)

	entries, err := svc.ListAudit(ctx, ticket.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, domain.TicketStatusClosed, entries[0].ToStatus)
	assert.Equal(t, domain.TicketStatusCreated, entries[3].FromStatus)
	for _, entry := range entries {
		assert.Equal(t, ticket.ID, entry.TicketID)
	}

	published := dispatcher.published()
	require.Len(t, published, 5)
	assert.Equal(t, events.EventTicketCreated, published[0].Type)
	assert.Equal(t, events.EventTicketClosed, published[4].Type)
	for _, event := range published {
		assert.NotEmpty(t, event.ID)
		assert.False(t, event.Timestamp.IsZero())
	}
}

func TestCompleteTicketPastTarget(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc, _, _, _, clock := newTicketFixture(t, start)
	ctx := context.Background()

	ticket := createTicket(t, svc, "urgent")
	_, err := svc.AssignTicket(ctx, ticket.ID, "eng-7", "op-1")
	require.NoError(t, err)
	_, err = svc.StartProcessing(ctx, ticket.ID, "eng-7")
	require.NoError(t, err)

	clock.Advance(5 * time.Hour)
	completed, err := svc.CompleteTicket(ctx, ticket.ID, "eng-7")
	require.NoError(t, err)
	require.NotNil(t, completed.SLACompliant)
	assert.False(t, *completed.SLACompliant, "5h resolution past the 4h target")
}

func TestInvalidTransitionLeavesTicketUntouched(t *testing.T) {
	svc, tickets, _, _, _ := newTicketFixture(t, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	ticket := createTicket(t, svc, "low")

	_, err := svc.StartProcessing(ctx, ticket.ID, "op-1")
	require.Error(t, err)
	assert.Equal(t, "INVALID_STATE", errorutil.ToDomainError(err).Code)

	_, err = svc.CompleteTicket(ctx, ticket.ID, "op-1")
	require.Error(t, err)
	assert.Equal(t, "INVALID_STATE", errorutil.ToDomainError(err).Code)

	_, err = svc.CloseTicket(ctx, ticket.ID, "op-1")
	require.Error(t, err)

	stored, err := tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusCreated, stored.Status)
	assert.Nil(t, stored.StartedAt)
	assert.Nil(t, stored.ResolvedAt)
}

func TestAssignTicketRejectsDoubleAssign(t *testing.T) {
	svc, _, _, _, _ := newTicketFixture(t, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	ticket := createTicket(t, svc, "low")
	_, err := svc.AssignTicket(ctx, ticket.ID, "eng-1", "op-1")
	require.NoError(t, err)

	_, err = svc.AssignTicket(ctx, ticket.ID, "eng-2", "op-1")
	require.Error(t, err)
	assert.Equal(t, "INVALID_STATE", errorutil.ToDomainError(err).Code)
}

func TestAssignBatchPartialFailure(t *testing.T) {
	svc, _, _, _, _ := newTicketFixture(t, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	fresh := createTicket(t, svc, "low")
	taken := createTicket(t, svc, "low")
	_, err := svc.AssignTicket(ctx, taken.ID, "eng-1", "op-1")
	require.NoError(t, err)

	results := svc.AssignBatch(ctx, []string{fresh.ID, taken.ID, "missing-id"}, "eng-2", "op-1")
	require.Len(t, results, 3)

	assert.True(t, results[0].Assigned)
	assert.Empty(t, results[0].Reason)

	assert.False(t, results[1].Assigned)
	assert.NotEmpty(t, results[1].Reason)

	assert.False(t, results[2].Assigned)
	assert.NotEmpty(t, results[2].Reason)

	assigned, err := svc.GetTicket(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusAssigned, assigned.Status)
}

func TestDeleteTicketSoftDelete(t *testing.T) {
	svc, _, _, dispatcher, _ := newTicketFixture(t, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	ticket := createTicket(t, svc, "low")
	keep := createTicket(t, svc, "low")

	require.NoError(t, svc.DeleteTicket(ctx, ticket.ID, "op-1"))
	// idempotent
	require.NoError(t, svc.DeleteTicket(ctx, ticket.ID, "op-1"))

	listed, total, err := svc.ListTickets(ctx, repository.TicketFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, listed, 1)
	assert.Equal(t, keep.ID, listed[0].ID)

	// still readable by id for audit purposes
	deleted, err := svc.GetTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)

	// but no longer transitionable
	_, err = svc.AssignTicket(ctx, ticket.ID, "eng-1", "op-1")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", errorutil.ToDomainError(err).Code)

	var deleteEvents int
	for _, event := range dispatcher.published() {
		if event.Type == events.EventTicketDeleted {
			deleteEvents++
		}
	}
	assert.Equal(t, 1, deleteEvents, "second delete is a no-op")
}

func TestDeleteTicketInAnyState(t *testing.T) {
	svc, _, _, _, _ := newTicketFixture(t, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	ticket := createTicket(t, svc, "urgent")
	_, err := svc.AssignTicket(ctx, ticket.ID, "eng-1", "op-1")
	require.NoError(t, err)
	_, err = svc.StartProcessing(ctx, ticket.ID, "eng-1")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTicket(ctx, ticket.ID, "op-1"))
}

func TestUpdateTicket(t *testing.T) {
	svc, _, _, _, _ := newTicketFixture(t, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	ticket := createTicket(t, svc, "low")

	title := "core switch flapping"
	priority := "urgent"
	updated, err := svc.UpdateTicket(ctx, ticket.ID, TicketUpdateInput{Title: &title, PriorityKey: &priority})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, "urgent", updated.PriorityKey)
	assert.Equal(t, domain.TicketStatusCreated, updated.Status)

	empty := "   "
	_, err = svc.UpdateTicket(ctx, ticket.ID, TicketUpdateInput{Title: &empty})
	require.Error(t, err)

	bad := "nope"
	_, err = svc.UpdateTicket(ctx, ticket.ID, TicketUpdateInput{PriorityKey: &bad})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", errorutil.ToDomainError(err).Code)
}

func TestGetTicketNotFound(t *testing.T) {
	svc, _, _, _, _ := newTicketFixture(t, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	_, err := svc.GetTicket(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", errorutil.ToDomainError(err).Code)
}

func TestGetTicketByKey(t *testing.T) {
	svc, _, _, _, _ := newTicketFixture(t, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	ticket := createTicket(t, svc, "urgent")

	found, err := svc.GetTicketByKey(ctx, ticket.ReferenceKey)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, found.ID)

	// lookup is case-insensitive on the key
	found, err = svc.GetTicketByKey(ctx, "  "+strings.ToLower(ticket.ReferenceKey)+" ")
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, found.ID)

	_, err = svc.GetTicketByKey(ctx, "OPS-FFFFFFFF")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", errorutil.ToDomainError(err).Code)

	_, err = svc.GetTicketByKey(ctx, "   ")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", errorutil.ToDomainError(err).Code)
}
