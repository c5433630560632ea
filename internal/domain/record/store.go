package record

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/outletkit/outletkit/internal/logger"
	"github.com/outletkit/outletkit/internal/scope"
	"github.com/outletkit/outletkit/internal/slug"
	"github.com/outletkit/outletkit/internal/storage"
	"github.com/outletkit/outletkit/internal/types"
)

// Store holds the data record list and its UI state in memory, mirroring the
// organization store: synchronous mutations under a mutex, fire-and-forget
// snapshot persistence, subscriber notification after every change.
type Store struct {
	mu            sync.RWMutex
	list          []Record
	selectedID    string
	searchQuery   string
	filterStatus  types.FilterStatus
	sortBy        types.RecordSortField
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
		filterStatus:  types.FilterStatusAll,
		sortBy:        types.RecordSortByCreatedAt,
		sortDirection: types.SortDesc,
		doc:           doc,
		log:           log,
		subs:          make(map[int]func()),
	}
}

// Initialize performs the one-time load from the durable store, applies the
// snapshot migration chain and installs the result. Failures are logged and
// the store is marked initialized regardless, so consumers are never blocked.
func (s *Store) Initialize(ctx context.Context) {
	snap, found, err := s.doc.Load(ctx)
	if err != nil {
		s.log.Errorw("failed to initialize data storage", "error", err)
		s.markInitialized()
		return
	}
	if !found {
		s.markInitialized()
		return
	}

	snap = migrateSnapshot(snap)

	s.mu.Lock()
	s.list = snap.DataList
	if snap.SelectedData != nil {
		s.selectedID = snap.SelectedData.ID
	}
	s.searchQuery = snap.SearchQuery
	if snap.FilterStatus.Validate() {
		s.filterStatus = snap.FilterStatus
	}
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

func (s *Store) IsInitialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// Create assigns id, business code and timestamps, forces the draft status
// and appends the record to the end of the list. organizationName feeds the
// initials part of the business code.
func (s *Store) Create(ctx context.Context, input CreateInput, organizationName string) Record {
	now := time.Now().UTC()
	rec := Record{
		ID:             types.GenerateUUID(),
		Slug:           slug.OrderCode(organizationName),
		OrganizationID: input.OrganizationID,
		Name:           input.Name,
		Phone:          input.Phone,
		Price:          input.Price,
		Quantity:       input.Quantity,
		Weight:         input.Weight,
		Date:           input.Date,
		Notes:          input.Notes,
		Status:         types.StatusDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	s.mu.Lock()
	s.list = append(s.list, rec)
	s.mu.Unlock()

	s.persist(ctx)
	s.notify()
	return rec
}

// Update merges the patch into the record with the given slug and refreshes
// updatedAt. A missing target is a silent no-op.
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

// Delete removes the record with the given slug; no-op if not found.
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

// MarkAsCompleted transitions the record to completed; no-op if not found.
// The transition is not guarded against already-completed or cancelled
// records: re-marking just sets the status again.
func (s *Store) MarkAsCompleted(ctx context.Context, slugValue string) {
	s.mu.Lock()
	idx := s.indexBySlug(slugValue)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.list[idx].Status = types.StatusCompleted
	s.list[idx].UpdatedAt = time.Now().UTC()
	s.mu.Unlock()

	s.persist(ctx)
	s.notify()
}

// Select points the weak selection reference at a record; empty id clears it.
// Selection is UI state here and does not persist by itself.
func (s *Store) Select(id string) {
	s.mu.Lock()
	s.selectedID = id
	s.mu.Unlock()
	s.notify()
}

func (s *Store) Selected() (Record, bool) {
	s.mu.RLock()
	id := s.selectedID
	s.mu.RUnlock()
	if id == "" {
		return Record{}, false
	}
	return s.GetByID(id)
}

func (s *Store) GetByID(id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.list {
		if rec.ID == id {
			return rec, true
		}
	}
	return Record{}, false
}

func (s *Store) GetBySlug(slugValue string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexBySlug(slugValue); idx >= 0 {
		return s.list[idx], true
	}
	return Record{}, false
}

// List returns the records in insertion order.
func (s *Store) List() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, len(s.list))
	copy(out, s.list)
	return out
}

// UI-state setters; never persisted on their own.

func (s *Store) SetSearchQuery(query string) {
	s.mu.Lock()
	s.searchQuery = query
	s.mu.Unlock()
	s.notify()
}

func (s *Store) SetFilterStatus(status types.FilterStatus) {
	s.mu.Lock()
	s.filterStatus = status
	s.mu.Unlock()
	s.notify()
}

func (s *Store) SetSortBy(field types.RecordSortField) {
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

// SortedAndFilteredList is the derived view over the whole list: status
// filter, then case-insensitive substring match against name and business
// code, then a stable sort by the selected field.
func (s *Store) SortedAndFilteredList() []Record {
	return s.sortAndFilter(s.List())
}

// VisibleSortedAndFilteredList applies the organization-scope filter before
// the derived view, which is what every record list screen renders.
func (s *Store) VisibleSortedAndFilteredList(selectedOrganizationID string) []Record {
	return s.sortAndFilter(scope.FilterByOrganization(s.List(), selectedOrganizationID))
}

func (s *Store) sortAndFilter(list []Record) []Record {
	s.mu.RLock()
	query := strings.ToLower(s.searchQuery)
	filterStatus := s.filterStatus
	sortBy := s.sortBy
	direction := s.sortDirection
	s.mu.RUnlock()

	filtered := make([]Record, 0, len(list))
	for _, rec := range list {
		if !filterStatus.Matches(rec.Status) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(rec.Name), query) &&
			!strings.Contains(strings.ToLower(rec.Slug), query) {
			continue
		}
		filtered = append(filtered, rec)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		less := recordLess(filtered[i], filtered[j], sortBy)
		if direction == types.SortAsc {
			return less
		}
		return recordLess(filtered[j], filtered[i], sortBy)
	})
	return filtered
}

func recordLess(a, b Record, field types.RecordSortField) bool {
	if field == types.RecordSortByName {
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

func (s *Store) indexBySlug(slugValue string) int {
	for i, rec := range s.list {
		if rec.Slug == slugValue {
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

	list := make([]Record, len(s.list))
	copy(list, s.list)

	var selected *Record
	for i := range list {
		if list[i].ID == s.selectedID {
			selected = &list[i]
			break
		}
	}

	return Snapshot{
		DataList:      list,
		SelectedData:  selected,
		SearchQuery:   s.searchQuery,
		FilterStatus:  s.filterStatus,
		SortBy:        s.sortBy,
		SortDirection: s.sortDirection,
	}
}

// persist enqueues a non-blocking snapshot write. A single drainer goroutine
// writes pending snapshots one at a time, always picking up the newest one,
// so the durable copy never regresses to an older state no matter how the
// writes are scheduled.
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
			s.log.Errorw("failed to save data snapshot", "error", err)
		}
	}
}

// Flush blocks until all enqueued persistence writes have settled.
func (s *Store) Flush() {
	s.persistWG.Wait()
}
