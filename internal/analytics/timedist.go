package analytics

import "protostats/internal/lifecycle"

// TimeDistribution is one set of calendar histograms over fixed-offset
// moments: 7 weekday buckets, 24 hour buckets, a 7x24 heatmap, 12 month
// buckets, a per-year count and a year->month->day drill-down.
type TimeDistribution struct {
	Weekday   [7]int                      `json:"weekday"`
	Hour      [24]int                     `json:"hour"`
	Heatmap   [7][24]int                  `json:"heatmap"`
	Month     [12]int                     `json:"month"`
	Year      map[int]int                 `json:"year"`
	Drilldown map[int]map[int]map[int]int `json:"drilldown"`
}

func newTimeDistribution() *TimeDistribution {
	return &TimeDistribution{
		Year:      make(map[int]int),
		Drilldown: make(map[int]map[int]map[int]int),
	}
}

func (d *TimeDistribution) add(m lifecycle.Moment) {
	d.Weekday[m.Weekday]++
	d.Hour[m.HourOfDay]++
	d.Heatmap[m.Weekday][m.HourOfDay]++
	d.Month[m.Month-1]++

	// Years at or below 1900 are parser noise, not data.
	if m.Year <= 1900 {
		return
	}
	d.Year[m.Year]++

	months, ok := d.Drilldown[m.Year]
	if !ok {
		months = make(map[int]map[int]int)
		d.Drilldown[m.Year] = months
	}
	days, ok := months[m.Month]
	if !ok {
		days = make(map[int]int)
		months[m.Month] = days
	}
	days[m.Day]++
}

type TimeDistributions struct {
	Create  *TimeDistribution `json:"create"`
	Release *TimeDistribution `json:"release"`
	Update  *TimeDistribution `json:"update"`
}

// BuildTimeDistributions computes the create/release/update distributions in
// a single pass. A record lacking a given moment is skipped for that
// distribution only.
func BuildTimeDistributions(lifes []lifecycle.RecordLifecycle) TimeDistributions {
	dist := TimeDistributions{
		Create:  newTimeDistribution(),
		Release: newTimeDistribution(),
		Update:  newTimeDistribution(),
	}
	for i := range lifes {
		if lifes[i].Create != nil {
			dist.Create.add(*lifes[i].Create)
		}
		dist.Release.add(lifes[i].Release)
		if lifes[i].Update != nil {
			dist.Update.add(*lifes[i].Update)
		}
	}
	return dist
}
