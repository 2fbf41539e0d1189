// Package anniversary splits anniversary detection into a
// timezone-independent windowing phase (safe to run server-side) and a
// timezone-sensitive evaluation phase that must see the viewer's clock.
package anniversary

import (
	"time"

	"protostats/internal/lifecycle"
	"protostats/internal/models"
)

const isoMillis = "2006-01-02T15:04:05.000Z"

// Candidate is the minimal projection that crosses the server->client
// boundary. Everything but id, title and release timestamp is stripped.
type Candidate struct {
	Id        int    `json:"id"`
	Title     string `json:"title"`
	ReleaseAt string `json:"releaseAt"`
}

type WindowUTC struct {
	FromISO string `json:"fromISO"`
	ToISO   string `json:"toISO"`
}

// WindowMeta documents when and for which UTC three-day span the candidates
// were computed. It is descriptive only: candidate membership is decided by
// month-day equality across all years, not by containment in this window.
type WindowMeta struct {
	ComputedAt string    `json:"computedAt"`
	WindowUTC  WindowUTC `json:"windowUTC"`
}

type CandidateSet struct {
	Metadata   WindowMeta  `json:"metadata"`
	Candidates []Candidate `json:"candidates"`
}

// BuildCandidates filters records down to those whose release month-day
// (fixed offset) falls on yesterday, today or tomorrow relative to ref,
// in any year. Runs in O(n); ref is always passed in explicitly so the
// computation stays deterministic and testable.
func BuildCandidates(records []models.Record, ref time.Time) CandidateSet {
	utcDay := ref.UTC().Truncate(24 * time.Hour)
	meta := WindowMeta{
		ComputedAt: ref.UTC().Format(isoMillis),
		WindowUTC: WindowUTC{
			FromISO: utcDay.AddDate(0, 0, -1).Format(isoMillis),
			ToISO:   utcDay.AddDate(0, 0, 2).Add(-time.Millisecond).Format(isoMillis),
		},
	}

	wanted := map[string]struct{}{
		lifecycle.ShiftedMonthDay(ref, -1): {},
		lifecycle.ShiftedMonthDay(ref, 0):  {},
		lifecycle.ShiftedMonthDay(ref, 1):  {},
	}

	candidates := make([]Candidate, 0)
	for i := range records {
		moment, ok := lifecycle.Normalize(records[i].ReleaseAt)
		if !ok {
			continue
		}
		if _, match := wanted[moment.MonthDay]; !match {
			continue
		}
		candidates = append(candidates, Candidate{
			Id:        records[i].Id,
			Title:     records[i].Name,
			ReleaseAt: records[i].ReleaseAt,
		})
	}

	return CandidateSet{Metadata: meta, Candidates: candidates}
}
