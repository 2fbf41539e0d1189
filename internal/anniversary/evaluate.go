package anniversary

import (
	"time"

	"protostats/internal/lifecycle"
)

type Hit struct {
	Id        int    `json:"id"`
	Title     string `json:"title"`
	ReleaseAt string `json:"releaseAt"`
	Age       int    `json:"age"`
}

// ClientAnalysis is the timezone-sensitive half of the anniversary result.
type ClientAnalysis struct {
	Birthdays []Hit `json:"birthdays"`
	Newborns  []Hit `json:"newborns"`
}

// Evaluate classifies candidates against hostNow's calendar day. hostNow must
// be the viewer's wall clock to be authoritative: the same candidate set
// evaluated in two timezones can legitimately differ, and that is intended.
// A candidate released today is a newborn; one released on this month-day in
// an earlier year is a birthday. Never both.
func Evaluate(candidates []Candidate, hostNow time.Time) ClientAnalysis {
	today := hostNow.Format("01-02")
	todayDate := hostNow.Format("2006-01-02")
	thisYear := hostNow.Year()

	out := ClientAnalysis{
		Birthdays: make([]Hit, 0),
		Newborns:  make([]Hit, 0),
	}

	for _, cand := range candidates {
		moment, ok := lifecycle.Normalize(cand.ReleaseAt)
		if !ok {
			continue
		}
		hit := Hit{Id: cand.Id, Title: cand.Title, ReleaseAt: cand.ReleaseAt, Age: thisYear - moment.Year}

		switch {
		case moment.FullDate == todayDate:
			hit.Age = 0
			out.Newborns = append(out.Newborns, hit)
		case moment.MonthDay == today && hit.Age > 0:
			out.Birthdays = append(out.Birthdays, hit)
		}
	}

	return out
}
