package organization

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/outletkit/outletkit/internal/logger"
	"github.com/outletkit/outletkit/internal/slug"
	"github.com/outletkit/outletkit/internal/storage"
	"github.com/outletkit/outletkit/internal/types"
)

// Store holds the organization list and its UI state in memory. Mutations are
// synchronous and atomic under the store mutex; every entity mutation
// enqueues a fire-and-forget write of the full snapshot to the durable store.
// A failed write is logged and swallowed; the in-memory state stays
// authoritative and the durable copy catches up on the next mutation.
type Store struct {
	mu            sync.RWMutex
	list          []Organization
	selectedID    string
	searchQuery   string
	sortBy        types.OrganizationSortField
	sortDirection types.SortDirection
	initialized   bool

	doc storage.Document[Snapshot]
	log *logger.Logger

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int

	persistMu  sync.Mutex
	pending    *Snapshot
	persisting bool
	persistWG  sync.WaitGroup
}

func NewStore(doc storage.Document[Snapshot], log *logger.Logger) *Store {
	return &Store{
		sortBy:        types.OrganizationSortByCreatedAt,
		sortDirection: types.SortDesc,
		doc:           doc,
		log:           log,
		subs:          make(map[int]func()),
	}
}

// Initialize performs the one-time load from the durable store, applies the
// snapshot migration chain and installs the result. It never blocks the
// caller on failure: a load error leaves the store empty and still marks it
// initialized.
func (s *Store) Initialize(ctx context.Context) {
	snap, found, err := s.doc.Load(ctx)
	if err != nil {
		s.log.Errorw("failed to initialize organizations storage", "error", err)
		s.markInitialized()
		return
	}
	if !found {
		s.markInitialized()
		return
	}

	snap = migrateSnapshot(snap)

	s.mu.Lock()
	s.list = snap.OrganizationList
	if snap.SelectedOrganization != nil {
		s.selectedID = snap.SelectedOrganization.ID
	}
	s.searchQuery = snap.SearchQuery
	if snap.SortBy.Validate() {
		s.sortBy = snap.SortBy
	}
	if snap.SortDirection.Validate() {
		s.sortDirection = snap.SortDirection
	}
	s.initialized = true
	s.mu.Unlock()
	s.notify()
}

func (s *Store) markInitialized() {
	s.mu.Lock()
	s.initialized = true
	s.mu.Unlock()
	s.notify()
}

// IsInitialized is false until the one-time load completes or fails.
// Consumers must treat false as "loading" and not draw conclusions from an
// empty list.
func (s *Store) IsInitialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// Create assigns id, slug and timestamps, appends the organization to the end
// of the list and returns it.
func (s *Store) Create(ctx context.Context, input CreateInput) Organization {
	now := time.Now().UTC()

	s.mu.Lock()
	taken := make([]string, len(s.list))
	for i, org := range s.list {
		taken[i] = org.Slug
	}
	org := Organization{
		ID:         types.GenerateUUID(),
		Slug:       slug.Generate(input.Name, taken),
		Logo:       input.Logo,
		Name:       input.Name,
		Phone:      input.Phone,
		Province:   input.Province,
		City:       input.City,
		Address:    input.Address,
		PostalCode: input.PostalCode,
		Latitude:   input.Latitude,
		Longitude:  input.Longitude,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.list = append(s.list, org)
	s.mu.Unlock()

	s.persist(ctx)
	s.notify()
	return org
}

// Update merges the patch into the organization with the given slug and
// refreshes updatedAt. A missing target is a silent no-op.
func (s *Store) Update(ctx context.Context, slugValue string, patch Patch) {
	s.mu.Lock()
	idx := s.indexBySlug(slugValue)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	updated := s.list[idx].applyPatch(patch)
	updated.UpdatedAt = time.Now().UTC()
	s.list[idx] = updated
	s.mu.Unlock()

	s.persist(ctx)
	s.notify()
}

// Delete removes the organization with the given slug; no-op if not found.
// The selection is a weak reference, so deleting the selected organization
// simply leaves the store with no selectable match.
func (s *Store) Delete(ctx context.Context, slugValue string) {
	s.mu.Lock()
	idx := s.indexBySlug(slugValue)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.list = append(s.list[:idx], s.list[idx+1:]...)
	s.mu.Unlock()

	s.persist(ctx)
	s.notify()
}

// Select makes the organization with the given id the current filtering
// scope; an empty id clears the selection.
func (s *Store) Select(ctx context.Context, id string) {
	s.mu.Lock()
	s.selectedID = id
	s.mu.Unlock()

	s.persist(ctx)
	s.notify()
}

func (s *Store) GetByID(id string) (Organization, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, org := range s.list {
		if org.ID == id {
			return org, true
		}
	}
	return Organization{}, false
}

func (s *Store) GetBySlug(slugValue string) (Organization, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexBySlug(slugValue); idx >= 0 {
		return s.list[idx], true
	}
	return Organization{}, false
}

// Selected resolves the weak selection reference against the current list.
func (s *Store) Selected() (Organization, bool) {
	s.mu.RLock()
	id := s.selectedID
	s.mu.RUnlock()
	if id == "" {
		return Organization{}, false
	}
	return s.GetByID(id)
}

func (s *Store) SelectedID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedID
}

// List returns the organizations in insertion order.
func (s *Store) List() []Organization {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Organization, len(s.list))
	copy(out, s.list)
	return out
}

// UI-state setters. These never persist by themselves: search/sort state is
// reseeded from URL parameters on each route visit, so losing it on reload is
// intentional.

func (s *Store) SetSearchQuery(query string) {
	s.mu.Lock()
	s.searchQuery = query
	s.mu.Unlock()
	s.notify()
}

func (s *Store) SetSortBy(field types.OrganizationSortField) {
	s.mu.Lock()
	s.sortBy = field
	s.mu.Unlock()
	s.notify()
}

func (s *Store) SetSortDirection(direction types.SortDirection) {
	s.mu.Lock()
	s.sortDirection = direction
	s.mu.Unlock()
	s.notify()
}

// SortedAndFilteredList is the derived view: case-insensitive substring match
// of the search query against name, city and address, then a stable sort by
// the selected field. Ties keep insertion order.
func (s *Store) SortedAndFilteredList() []Organization {
	s.mu.RLock()
	query := strings.ToLower(s.searchQuery)
	sortBy := s.sortBy
	direction := s.sortDirection

	filtered := make([]Organization, 0, len(s.list))
	for _, org := range s.list {
		if query == "" ||
			strings.Contains(strings.ToLower(org.Name), query) ||
			strings.Contains(strings.ToLower(org.City), query) ||
			strings.Contains(strings.ToLower(org.Address), query) {
			filtered = append(filtered, org)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(filtered, func(i, j int) bool {
		less := organizationLess(filtered[i], filtered[j], sortBy)
		if direction == types.SortAsc {
			return less
		}
		return organizationLess(filtered[j], filtered[i], sortBy)
	})
	return filtered
}

func organizationLess(a, b Organization, field types.OrganizationSortField) bool {
	switch field {
	case types.OrganizationSortByName:
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	case types.OrganizationSortByCity:
		return strings.ToLower(a.City) < strings.ToLower(b.City)
	default:
		return a.CreatedAt.Before(b.CreatedAt)
	}
}

func (s *Store) indexBySlug(slugValue string) int {
	for i, org := range s.list {
		if org.Slug == slugValue {
			return i
		}
	}
	return -1
}

// Subscribe registers a callback invoked after every state change. The
// returned function unsubscribes.
func (s *Store) Subscribe(fn func()) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (s *Store) snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Organization, len(s.list))
	copy(list, s.list)

	var selected *Organization
	for i := range list {
		if list[i].ID == s.selectedID {
			selected = &list[i]
			break
		}
	}

	return Snapshot{
		OrganizationList:     list,
		SelectedOrganization: selected,
		SearchQuery:          s.searchQuery,
		SortBy:               s.sortBy,
		SortDirection:        s.sortDirection,
	}
}

// persist enqueues a non-blocking snapshot write. A single drainer goroutine
// writes pending snapshots one at a time, always picking up the newest one,
// so the durable copy never regresses to an older state no matter how the
// writes are scheduled. Persistence has no cancellation or retry semantics:
// the write either lands or the error is logged.
func (s *Store) persist(ctx context.Context) {
	snap := s.snapshot()

	s.persistMu.Lock()
	s.pending = &snap
	if s.persisting {
		s.persistMu.Unlock()
		return
	}
	s.persisting = true
	s.persistWG.Add(1)
	s.persistMu.Unlock()

	go s.drainPersist(context.WithoutCancel(ctx))
}

func (s *Store) drainPersist(ctx context.Context) {
	defer s.persistWG.Done()
	for {
		s.persistMu.Lock()
		snap := s.pending
		s.pending = nil
		if snap == nil {
			s.persisting = false
			s.persistMu.Unlock()
			return
		}
		s.persistMu.Unlock()

		if err := s.doc.Save(ctx, *snap); err != nil {
			s.log.Errorw("failed to save organizations snapshot", "error", err)
		}
	}
}

// Flush blocks until all enqueued persistence writes have settled. Used on
// shutdown and in tests.
func (s *Store) Flush() {
	s.persistWG.Wait()
}
