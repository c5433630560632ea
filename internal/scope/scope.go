// Package scope implements organization-scoped visibility: entities with no
// organization binding are global and visible everywhere, entities bound to
// an organization are visible only when that organization is selected.
package scope

import "github.com/samber/lo"

// Scoped is any entity carrying an optional organization binding. An empty
// string means the entity is global.
type Scoped interface {
	Scope() string
}

// FilterByOrganization returns the entities visible under the selected
// organization: all of them when no organization is selected, otherwise the
// union of global entities and entities bound to selectedID.
func FilterByOrganization[T Scoped](list []T, selectedID string) []T {
	if selectedID == "" {
		return list
	}
	return lo.Filter(list, func(entity T, _ int) bool {
		return entity.Scope() == "" || entity.Scope() == selectedID
	})
}

// IsGlobalEntity reports whether the entity is visible under every
// organization.
func IsGlobalEntity[T Scoped](entity T) bool {
	return entity.Scope() == ""
}

// BelongsToOrganization reports whether the entity is bound to the given
// organization.
func BelongsToOrganization[T Scoped](entity T, organizationID string) bool {
	return entity.Scope() == organizationID
}

// Grouped partitions a list into the global bucket and a per-organization
// mapping, preserving list order inside each bucket.
type Grouped[T Scoped] struct {
	Global         []T
	ByOrganization map[string][]T
}

// GroupByOrganizationScope buckets entities for aggregate and summary views.
func GroupByOrganizationScope[T Scoped](list []T) Grouped[T] {
	grouped := Grouped[T]{ByOrganization: make(map[string][]T)}
	for _, entity := range list {
		if entity.Scope() == "" {
			grouped.Global = append(grouped.Global, entity)
			continue
		}
		grouped.ByOrganization[entity.Scope()] = append(grouped.ByOrganization[entity.Scope()], entity)
	}
	return grouped
}

// Label returns the display label for a scope: "All Organizations" when no
// organization is selected, else the organization's name with a generic
// fallback.
func Label(organizationID, organizationName string) string {
	if organizationID == "" {
		return "All Organizations"
	}
	if organizationName == "" {
		return "Organization-specific"
	}
	return organizationName
}
