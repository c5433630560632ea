package organization

import "github.com/outletkit/outletkit/internal/slug"

// Snapshot migrations run in order on every load, before the snapshot is
// installed in memory. Each step must be a no-op on snapshots that already
// have the upgraded shape.
type snapshotMigration struct {
	name  string
	apply func(Snapshot) Snapshot
}

var migrations = []snapshotMigration{
	{name: "backfill_slugs", apply: backfillSlugs},
	{name: "default_selected", apply: defaultSelected},
}

func migrateSnapshot(snap Snapshot) Snapshot {
	for _, m := range migrations {
		snap = m.apply(snap)
	}
	return snap
}

// backfillSlugs derives slugs for organizations persisted before slugs
// existed, feeding each new slug back into the taken set so duplicates get a
// numeric suffix.
func backfillSlugs(snap Snapshot) Snapshot {
	taken := make([]string, 0, len(snap.OrganizationList))
	for _, org := range snap.OrganizationList {
		if org.Slug != "" {
			taken = append(taken, org.Slug)
		}
	}

	for i, org := range snap.OrganizationList {
		if org.Slug != "" {
			continue
		}
		newSlug := slug.Generate(org.Name, taken)
		snap.OrganizationList[i].Slug = newSlug
		taken = append(taken, newSlug)
	}
	return snap
}

// defaultSelected selects the first organization when the snapshot has none
// selected but the list is non-empty.
func defaultSelected(snap Snapshot) Snapshot {
	if snap.SelectedOrganization == nil && len(snap.OrganizationList) > 0 {
		first := snap.OrganizationList[0]
		snap.SelectedOrganization = &first
	}
	return snap
}
