package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ops-kit/netops-service/internal/domain"
	"github.com/ops-kit/netops-service/internal/events"
	"github.com/ops-kit/netops-service/internal/repository"
)

// fakeClock is an adjustable time source for lifecycle tests.
type fakeClock struct {
	current time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{current: start}
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

type fakeTicketRepo struct {
	tickets map[string]*domain.Ticket
	clock   *fakeClock
}

func newFakeTicketRepo(clock *fakeClock) *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]*domain.Ticket{}, clock: clock}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = r.clock.Now()
	}
	ticket.UpdatedAt = ticket.CreatedAt
	stored := *ticket
	r.tickets[ticket.ID] = &stored
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = r.clock.Now()
	stored := *ticket
	r.tickets[ticket.ID] = &stored
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) GetByReferenceKey(_ context.Context, key string) (*domain.Ticket, error) {
	for _, ticket := range r.tickets {
		if ticket.ReferenceKey == key {
			copied := *ticket
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if r.matches(ticket, filter) {
			result = append(result, *ticket)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *fakeTicketRepo) CountWithFilter(_ context.Context, filter repository.TicketFilter) (int64, error) {
	var count int64
	for _, ticket := range r.tickets {
		if r.matches(ticket, filter) {
			count++
		}
	}
	return count, nil
}

func (r *fakeTicketRepo) matches(ticket *domain.Ticket, filter repository.TicketFilter) bool {
	if ticket.Deleted && !filter.IncludeDeleted {
		return false
	}
	if len(filter.Statuses) > 0 {
		found := false
		for _, status := range filter.Statuses {
			if ticket.Status == status {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	if filter.AssigneeID != nil {
		if ticket.AssigneeID == nil || *ticket.AssigneeID != *filter.AssigneeID {
			return false
		}
	}
	return true
}

type fakeAuditRepo struct {
	entries []domain.TicketAudit
}

func (r *fakeAuditRepo) Create(_ context.Context, entry *domain.TicketAudit) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) ListByTicket(_ context.Context, ticketID string, limit, offset int) ([]domain.TicketAudit, error) {
	var result []domain.TicketAudit
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].TicketID == ticketID {
			result = append(result, r.entries[i])
		}
	}
	if offset >= len(result) {
		return nil, nil
	}
	result = result[offset:]
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

type fakePriorityRepo struct {
	byKey map[string]*domain.Priority
}

func newFakePriorityRepo(priorities ...domain.Priority) *fakePriorityRepo {
	repo := &fakePriorityRepo{byKey: map[string]*domain.Priority{}}
	for i := range priorities {
		stored := priorities[i]
		if stored.ID == "" {
			stored.ID = uuid.NewString()
		}
		repo.byKey[stored.Key] = &stored
	}
	return repo
}

func (r *fakePriorityRepo) Create(_ context.Context, priority *domain.Priority) error {
	if priority.ID == "" {
		priority.ID = uuid.NewString()
	}
	stored := *priority
	r.byKey[priority.Key] = &stored
	return nil
}

func (r *fakePriorityRepo) Update(_ context.Context, priority *domain.Priority) error {
	if _, ok := r.byKey[priority.Key]; !ok {
		return pgx.ErrNoRows
	}
	stored := *priority
	r.byKey[priority.Key] = &stored
	return nil
}

func (r *fakePriorityRepo) GetByKey(_ context.Context, key string) (*domain.Priority, error) {
	priority, ok := r.byKey[key]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *priority
	return &copied, nil
}

func (r *fakePriorityRepo) List(_ context.Context, includeDisabled bool) ([]domain.Priority, error) {
	var result []domain.Priority
	for _, priority := range r.byKey {
		if priority.Enabled || includeDisabled {
			result = append(result, *priority)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Level > result[j].Level })
	return result, nil
}

type fakeReferenceRepo struct {
	byKey map[string]*domain.ReferenceEntry
}

func newFakeReferenceRepo(keys ...string) *fakeReferenceRepo {
	repo := &fakeReferenceRepo{byKey: map[string]*domain.ReferenceEntry{}}
	for _, key := range keys {
		repo.byKey[key] = &domain.ReferenceEntry{ID: uuid.NewString(), Key: key, DisplayName: key, Enabled: true}
	}
	return repo
}

func (r *fakeReferenceRepo) Create(_ context.Context, entry *domain.ReferenceEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	stored := *entry
	r.byKey[entry.Key] = &stored
	return nil
}

func (r *fakeReferenceRepo) Update(_ context.Context, entry *domain.ReferenceEntry) error {
	if _, ok := r.byKey[entry.Key]; !ok {
		return pgx.ErrNoRows
	}
	stored := *entry
	r.byKey[entry.Key] = &stored
	return nil
}

func (r *fakeReferenceRepo) GetByKey(_ context.Context, key string) (*domain.ReferenceEntry, error) {
	entry, ok := r.byKey[key]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *entry
	return &copied, nil
}

func (r *fakeReferenceRepo) List(_ context.Context, includeDisabled bool) ([]domain.ReferenceEntry, error) {
	var result []domain.ReferenceEntry
	for _, entry := range r.byKey {
		if entry.Enabled || includeDisabled {
			result = append(result, *entry)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result, nil
}

type fakeCategoryRepo struct {
	byID map[string]*domain.AssetCategory
}

func newFakeCategoryRepo(categories ...domain.AssetCategory) *fakeCategoryRepo {
	repo := &fakeCategoryRepo{byID: map[string]*domain.AssetCategory{}}
	for i := range categories {
		stored := categories[i]
		repo.byID[stored.ID] = &stored
	}
	return repo
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *domain.AssetCategory) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	stored := *category
	r.byID[category.ID] = &stored
	return nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *domain.AssetCategory) error {
	if _, ok := r.byID[category.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *category
	r.byID[category.ID] = &stored
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id string) (*domain.AssetCategory, error) {
	category, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *category
	return &copied, nil
}

func (r *fakeCategoryRepo) ListAll(_ context.Context) ([]domain.AssetCategory, error) {
	var result []domain.AssetCategory
	for _, category := range r.byID {
		result = append(result, *category)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeCategoryRepo) CountChildren(_ context.Context, id string) (int64, error) {
	var count int64
	for _, category := range r.byID {
		if category.ParentID != nil && *category.ParentID == id {
			count++
		}
	}
	return count, nil
}

type fakeAssetRepo struct {
	byID map[string]*domain.Asset
}

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{byID: map[string]*domain.Asset{}}
}

func (r *fakeAssetRepo) Create(_ context.Context, asset *domain.Asset) error {
	if asset.ID == "" {
		asset.ID = uuid.NewString()
	}
	stored := *asset
	r.byID[asset.ID] = &stored
	return nil
}

func (r *fakeAssetRepo) Update(_ context.Context, asset *domain.Asset) error {
	if _, ok := r.byID[asset.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *asset
	r.byID[asset.ID] = &stored
	return nil
}

func (r *fakeAssetRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeAssetRepo) GetByID(_ context.Context, id string) (*domain.Asset, error) {
	asset, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *asset
	return &copied, nil
}

func (r *fakeAssetRepo) ListWithFilter(_ context.Context, filter repository.AssetFilter) ([]domain.Asset, error) {
	var result []domain.Asset
	for _, asset := range r.byID {
		if r.matches(asset, filter) {
			result = append(result, *asset)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *fakeAssetRepo) CountWithFilter(_ context.Context, filter repository.AssetFilter) (int64, error) {
	var count int64
	for _, asset := range r.byID {
		if r.matches(asset, filter) {
			count++
		}
	}
	return count, nil
}

func (r *fakeAssetRepo) CountByCategory(_ context.Context, categoryID string) (int64, error) {
	var count int64
	for _, asset := range r.byID {
		if asset.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (r *fakeAssetRepo) matches(asset *domain.Asset, filter repository.AssetFilter) bool {
	if len(filter.CategoryIDs) > 0 {
		found := false
		for _, id := range filter.CategoryIDs {
			if asset.CategoryID == id {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	if len(filter.Statuses) > 0 {
		found := false
		for _, status := range filter.Statuses {
			if asset.Status == status {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	return true
}

type fakeAlertRepo struct {
	byID map[string]*domain.Alert
}

func newFakeAlertRepo() *fakeAlertRepo {
	return &fakeAlertRepo{byID: map[string]*domain.Alert{}}
}

func (r *fakeAlertRepo) Create(_ context.Context, alert *domain.Alert) error {
	if alert.ID == "" {
		alert.ID = uuid.NewString()
	}
	stored := *alert
	r.byID[alert.ID] = &stored
	return nil
}

func (r *fakeAlertRepo) Update(_ context.Context, alert *domain.Alert) error {
	if _, ok := r.byID[alert.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *alert
	r.byID[alert.ID] = &stored
	return nil
}

func (r *fakeAlertRepo) GetByID(_ context.Context, id string) (*domain.Alert, error) {
	alert, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *alert
	return &copied, nil
}

func (r *fakeAlertRepo) ListWithFilter(_ context.Context, filter repository.AlertFilter) ([]domain.Alert, error) {
	var result []domain.Alert
	for _, alert := range r.byID {
		if matchesAlert(alert, filter) {
			result = append(result, *alert)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FiredAt.After(result[j].FiredAt) })
	return result, nil
}

func (r *fakeAlertRepo) CountWithFilter(_ context.Context, filter repository.AlertFilter) (int64, error) {
	var count int64
	for _, alert := range r.byID {
		if matchesAlert(alert, filter) {
			count++
		}
	}
	return count, nil
}

func matchesAlert(alert *domain.Alert, filter repository.AlertFilter) bool {
	if filter.AssetID != nil {
		if alert.AssetID == nil || *alert.AssetID != *filter.AssetID {
			return false
		}
	}
	if len(filter.Statuses) > 0 {
		found := false
		for _, status := range filter.Statuses {
			if alert.Status == status {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// fakeReportRepo returns preloaded rows for the aggregation queries.
type fakeReportRepo struct {
	statusCounts   []repository.StatusCount
	priorityCounts []repository.StatusCount
	slaSamples     []repository.SLASample
	ticketVolumes  []repository.VolumePoint
	assetStatus    []repository.StatusCount
	categoryCounts []repository.CategoryCount
	topAssets      []repository.AssetMetricRow
	alertSeverity  []repository.StatusCount
	alertVolumes   []repository.VolumePoint
}

func (r *fakeReportRepo) TicketStatusCounts(_ context.Context, _, _ time.Time) ([]repository.StatusCount, error) {
	return r.statusCounts, nil
}

func (r *fakeReportRepo) TicketPriorityCounts(_ context.Context, _, _ time.Time) ([]repository.StatusCount, error) {
	return r.priorityCounts, nil
}

func (r *fakeReportRepo) SLASamples(_ context.Context, _, _ time.Time) ([]repository.SLASample, error) {
	return r.slaSamples, nil
}

func (r *fakeReportRepo) TicketVolumeBuckets(_ context.Context, _, _ time.Time, _ bool) ([]repository.VolumePoint, error) {
	return r.ticketVolumes, nil
}

func (r *fakeReportRepo) AssetStatusCounts(_ context.Context) ([]repository.StatusCount, error) {
	return r.assetStatus, nil
}

func (r *fakeReportRepo) AssetCategoryCounts(_ context.Context) ([]repository.CategoryCount, error) {
	return r.categoryCounts, nil
}

func (r *fakeReportRepo) TopAssetsByMetric(_ context.Context, _ string, _ int) ([]repository.AssetMetricRow, error) {
	return r.topAssets, nil
}

func (r *fakeReportRepo) AlertSeverityCounts(_ context.Context, _, _ time.Time) ([]repository.StatusCount, error) {
	return r.alertSeverity, nil
}

func (r *fakeReportRepo) AlertVolumeBuckets(_ context.Context, _, _ time.Time) ([]repository.VolumePoint, error) {
	return r.alertVolumes, nil
}

// capturingDispatcher records published events for assertions.
type capturingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *capturingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *capturingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *capturingDispatcher) published() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]events.Event{}, d.events...)
}
