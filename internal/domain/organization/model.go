package organization

import (
	"time"

	"github.com/outletkit/outletkit/internal/types"
)

// Organization is an outlet: a physical location records can be scoped to.
// JSON field names match the snapshots written by earlier releases and must
// not change without a snapshot migration.
type Organization struct {
	ID         string    `json:"id"`
	Slug       string    `json:"slug"`
	Logo       string    `json:"logo,omitempty"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Province   string    `json:"province"`
	City       string    `json:"city"`
	Address    string    `json:"address"`
	PostalCode string    `json:"postalCode"`
	Latitude   *float64  `json:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CreateInput carries the caller-provided fields of a new organization.
// ID, slug and timestamps are assigned by the store.
type CreateInput struct {
	Logo       string
	Name       string
	Phone      string
	Province   string
	City       string
	Address    string
	PostalCode string
	Latitude   *float64
	Longitude  *float64
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	Logo       *string
	Name       *string
	Phone      *string
	Province   *string
	City       *string
	Address    *string
	PostalCode *string
	Latitude   *float64
	Longitude  *float64
}

func (o Organization) applyPatch(p Patch) Organization {
	if p.Logo != nil {
		o.Logo = *p.Logo
	}
	if p.Name != nil {
		o.Name = *p.Name
	}
	if p.Phone != nil {
		o.Phone = *p.Phone
	}
	if p.Province != nil {
		o.Province = *p.Province
	}
	if p.City != nil {
		o.City = *p.City
	}
	if p.Address != nil {
		o.Address = *p.Address
	}
	if p.PostalCode != nil {
		o.PostalCode = *p.PostalCode
	}
	if p.Latitude != nil {
		o.Latitude = p.Latitude
	}
	if p.Longitude != nil {
		o.Longitude = p.Longitude
	}
	return o
}

// Snapshot is the persisted form of the whole store: the entity list plus the
// UI state that survives restarts. isInitialized is in-memory only.
type Snapshot struct {
	OrganizationList     []Organization              `json:"organizationList"`
	SelectedOrganization *Organization               `json:"selectedOrganization"`
	SearchQuery          string                      `json:"searchQuery"`
	SortBy               types.OrganizationSortField `json:"sortBy"`
	SortDirection        types.SortDirection         `json:"sortDirection"`
}
