package types

// RecordStatus tracks the lifecycle of a data record. Records start as draft
// and move one-way to completed or cancelled; the stores never perform the
// reverse transition.
type RecordStatus string

const (
	StatusDraft     RecordStatus = "draft"
	StatusCompleted RecordStatus = "completed"
	StatusCancelled RecordStatus = "cancelled"
)

func (s RecordStatus) Validate() bool {
	switch s {
	case StatusDraft, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// FilterStatus is a RecordStatus or the catch-all "all" used by list views.
type FilterStatus string

const FilterStatusAll FilterStatus = "all"

func (f FilterStatus) Validate() bool {
	return f == FilterStatusAll || RecordStatus(f).Validate()
}

// Matches reports whether a record with the given status passes the filter.
func (f FilterStatus) Matches(status RecordStatus) bool {
	return f == FilterStatusAll || RecordStatus(f) == status
}
