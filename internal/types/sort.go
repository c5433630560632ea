package types

// SortDirection flips the comparator polarity of derived list views.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

func (d SortDirection) Validate() bool {
	return d == SortAsc || d == SortDesc
}

// OrganizationSortField selects the sort key for organization list views.
// The values match the keys persisted by earlier releases, so they must not
// be renamed without a snapshot migration.
type OrganizationSortField string

const (
	OrganizationSortByName      OrganizationSortField = "name"
	OrganizationSortByCity      OrganizationSortField = "city"
	OrganizationSortByCreatedAt OrganizationSortField = "createdAt"
)

func (f OrganizationSortField) Validate() bool {
	switch f {
	case OrganizationSortByName, OrganizationSortByCity, OrganizationSortByCreatedAt:
		return true
	}
	return false
}

// RecordSortField selects the sort key for data record list views.
type RecordSortField string

const (
	RecordSortByName      RecordSortField = "name"
	RecordSortByCreatedAt RecordSortField = "createdAt"
)

func (f RecordSortField) Validate() bool {
	return f == RecordSortByName || f == RecordSortByCreatedAt
}
