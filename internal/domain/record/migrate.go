package record

// OrganizationIDMigrationNeeded marks records persisted before records were
// tied to organizations. It flags them for manual reassignment rather than
// guessing an owner.
const OrganizationIDMigrationNeeded = "MIGRATION_NEEDED"

type snapshotMigration struct {
	name  string
	apply func(Snapshot) Snapshot
}

var migrations = []snapshotMigration{
	{name: "backfill_organization_id", apply: backfillOrganizationID},
}

func migrateSnapshot(snap Snapshot) Snapshot {
	for _, m := range migrations {
		snap = m.apply(snap)
	}
	return snap
}

func backfillOrganizationID(snap Snapshot) Snapshot {
	for i, rec := range snap.DataList {
		if rec.OrganizationID == "" {
			snap.DataList[i].OrganizationID = OrganizationIDMigrationNeeded
		}
	}
	return snap
}
