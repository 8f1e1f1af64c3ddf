package repository

// notDeleted is the shared soft-delete filter. Every read query over a
// soft-deletable table must include it; lookups never see tombstoned rows.
const notDeleted = "deleted_at IS NULL"
