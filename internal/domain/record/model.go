package record

import (
	"time"

	"github.com/outletkit/outletkit/internal/types"
)

// Record is a transactional entity (an order) always tied to one
// organization. Numeric fields stay string-encoded the way the forms submit
// them; parsing happens at the DTO boundary. JSON field names match the
// snapshots written by earlier releases.
type Record struct {
	ID             string             `json:"id"`
	Slug           string             `json:"slug"`
	OrganizationID string             `json:"organizationId"`
	Name           string             `json:"name"`
	Phone          string             `json:"phone"`
	Price          string             `json:"price"`
	Quantity       string             `json:"quantity"`
	Weight         string             `json:"weight"`
	Date           string             `json:"date"`
	Notes          string             `json:"notes"`
	Status         types.RecordStatus `json:"status"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

// Scope returns the owning organization id, making records filterable by the
// organization-scope rules.
func (r Record) Scope() string {
	return r.OrganizationID
}

// CreateInput carries the caller-provided fields of a new record. ID, slug,
// status and timestamps are assigned by the store.
type CreateInput struct {
	OrganizationID string
	Name           string
	Phone          string
	Price          string
	Quantity       string
	Weight         string
	Date           string
	Notes          string
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	OrganizationID *string
	Name           *string
	Phone          *string
	Price          *string
	Quantity       *string
	Weight         *string
	Date           *string
	Notes          *string
	Status         *types.RecordStatus
}

func (r Record) applyPatch(p Patch) Record {
	if p.OrganizationID != nil {
		r.OrganizationID = *p.OrganizationID
	}
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Phone != nil {
		r.Phone = *p.Phone
	}
	if p.Price != nil {
		r.Price = *p.Price
	}
	if p.Quantity != nil {
		r.Quantity = *p.Quantity
	}
	if p.Weight != nil {
		r.Weight = *p.Weight
	}
	if p.Date != nil {
		r.Date = *p.Date
	}
	if p.Notes != nil {
		r.Notes = *p.Notes
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	return r
}

// Snapshot is the persisted form of the whole store.
type Snapshot struct {
	DataList      []Record              `json:"dataList"`
	SelectedData  *Record               `json:"selectedData"`
	SearchQuery   string                `json:"searchQuery"`
	FilterStatus  types.FilterStatus    `json:"filterStatus"`
	SortBy        types.RecordSortField `json:"sortBy"`
	SortDirection types.SortDirection   `json:"sortDirection"`
}
