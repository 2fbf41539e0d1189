package lifecycle

import "protostats/internal/models"

// RecordLifecycle ties a record to its normalized moments. A record whose
// release timestamp does not parse has no lifecycle at all and is excluded
// from every release-keyed aggregate.
type RecordLifecycle struct {
	Record  *models.Record
	Create  *Moment
	Release Moment
	Update  *Moment
	Sunset  *Moment
}

// Build derives the lifecycle for one record. ok is false when the release
// timestamp is unparsable. Sunset is the update moment iff the record carries
// the retired status.
func Build(r *models.Record, retiredStatus int) (RecordLifecycle, bool) {
	release, ok := Normalize(r.ReleaseAt)
	if !ok {
		return RecordLifecycle{}, false
	}

	rl := RecordLifecycle{Record: r, Release: release}

	if create, ok := Normalize(r.CreatedAt); ok {
		rl.Create = &create
	}
	if update, ok := Normalize(r.UpdatedAt); ok {
		rl.Update = &update
		if r.Retired(retiredStatus) {
			rl.Sunset = &update
		}
	}

	return rl, true
}

// BuildAll derives lifecycles for the whole record set, dropping records
// without a parseable release timestamp.
func BuildAll(records []models.Record, retiredStatus int) []RecordLifecycle {
	out := make([]RecordLifecycle, 0, len(records))
	for i := range records {
		if rl, ok := Build(&records[i], retiredStatus); ok {
			out = append(out, rl)
		}
	}
	return out
}
