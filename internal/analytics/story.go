package analytics

import (
	"sort"

	"protostats/internal/lifecycle"
	"protostats/internal/models"
)

// specialDays maps notable month-days to their labels. Table order doubles
// as the tie-break for equal counts.
var specialDays = []struct {
	MonthDay string
	Label    string
}{
	{"01-01", "New Year's Day"},
	{"02-14", "Valentine's Day"},
	{"04-01", "April Fools' Day"},
	{"07-07", "Tanabata"},
	{"10-31", "Halloween"},
	{"12-24", "Christmas Eve"},
	{"12-25", "Christmas"},
	{"12-31", "New Year's Eve"},
}

const (
	specialDayExamples = 5
	pioneerTagLimit    = 10
	weekendWindowHours = 78
)

type RecordRef struct {
	Id        int    `json:"id"`
	Title     string `json:"title"`
	ReleaseAt string `json:"releaseAt"`
}

type FirstRelease struct {
	Year   int       `json:"year"`
	Record RecordRef `json:"record"`
}

type ReleaseGroup struct {
	ReleaseAt string      `json:"releaseAt"`
	Records   []RecordRef `json:"records"`
}

type SpecialDayStat struct {
	Label    string      `json:"label"`
	MonthDay string      `json:"monthDay"`
	Count    int         `json:"count"`
	Examples []RecordRef `json:"examples"`
}

type TagPioneer struct {
	Tag    string    `json:"tag"`
	Record RecordRef `json:"record"`
}

type BandCount struct {
	Band  string `json:"band"`
	Count int    `json:"count"`
}

type GestationEntry struct {
	Record RecordRef `json:"record"`
	Days   float64   `json:"days"`
}

type GestationStats struct {
	Bands   []BandCount      `json:"bands"`
	Longest []GestationEntry `json:"longest"`
}

type EventOriginStats struct {
	Events           []RankEntry `json:"events"`
	IndependentCount int         `json:"independentCount"`
	IndependentRatio float64     `json:"independentRatio"`
}

type DailySpike struct {
	Date  string  `json:"date"`
	Count int     `json:"count"`
	Score float64 `json:"score"`
}

type WeekendHabits struct {
	WeekendWindow [weekendWindowHours]int `json:"weekendWindow"`
	Night         int                     `json:"night"`
	Day           int                     `json:"day"`
	Sprint        int                     `json:"sprint"`
}

type CalendarHotspot struct {
	MonthDay string `json:"monthDay"`
	Count    int    `json:"count"`
}

type MaintenanceEntry struct {
	Record RecordRef `json:"record"`
	Days   float64   `json:"days"`
}

type MaintenanceStats struct {
	Longest       []MaintenanceEntry `json:"longest"`
	AverageDays   float64            `json:"averageDays"`
	PositiveRatio float64            `json:"positiveRatio"`
}

type StoryMetrics struct {
	FirstOfYear      []FirstRelease    `json:"firstOfYear"`
	Simultaneous     []ReleaseGroup    `json:"simultaneous"`
	SpecialDays      []SpecialDayStat  `json:"specialDays"`
	TagPioneers      []TagPioneer      `json:"tagPioneers"`
	Gestation        GestationStats    `json:"gestation"`
	EventOrigin      EventOriginStats  `json:"eventOrigin"`
	DailySpikes      []DailySpike      `json:"dailySpikes"`
	WeekendHabits    WeekendHabits     `json:"weekendHabits"`
	CalendarHotspots []CalendarHotspot `json:"calendarHotspots"`
	Maintenance      MaintenanceStats  `json:"maintenance"`
}

var gestationBands = []struct {
	Label   string
	MaxDays float64
}{
	{"<1w", 7},
	{"1w-1m", 30},
	{"1-3m", 90},
	{"3-6m", 180},
	{"6-12m", 365},
	{">1y", 0},
}

func ref(r *models.Record) RecordRef {
	return RecordRef{Id: r.Id, Title: r.Name, ReleaseAt: r.ReleaseAt}
}

// weekendWindowIndex maps a weekday+hour to its slot in the 78-hour window
// spanning Friday 18:00 through Monday 23:59, or -1 outside the window.
func weekendWindowIndex(weekday, hour int) int {
	switch weekday {
	case 5:
		if hour >= 18 {
			return hour - 18
		}
	case 6:
		return 6 + hour
	case 0:
		return 30 + hour
	case 1:
		return 54 + hour
	}
	return -1
}

func gestationBand(days float64) string {
	for _, band := range gestationBands {
		if band.MaxDays > 0 && days < band.MaxDays {
			return band.Label
		}
	}
	return gestationBands[len(gestationBands)-1].Label
}

// BuildStory computes every storytelling metric in a single traversal of the
// lifecycle set. Records lacking a moment required by one metric are skipped
// for that metric only.
func BuildStory(lifes []lifecycle.RecordLifecycle) StoryMetrics {
	type groupAcc struct {
		epochMs int64
		records []RecordRef
	}
	type specialAcc struct {
		count    int
		examples []lifecycle.RecordLifecycle
	}

	firstOfYear := make(map[int]*lifecycle.RecordLifecycle)
	groups := make(map[string]*groupAcc)
	specials := make(map[string]*specialAcc, len(specialDays))
	tagEarliest := make(map[string]*lifecycle.RecordLifecycle)
	tagCounts := newCounter()
	eventCounts := newCounter()
	dayCounts := newCounter()
	monthDayCounts := newCounter()

	var gestBands = make(map[string]int)
	var gestEntries []GestationEntry
	var habits WeekendHabits
	var maintEntries []MaintenanceEntry
	var maintSum float64
	var independent int

	specialByMonthDay := make(map[string]string, len(specialDays))
	for _, sd := range specialDays {
		specialByMonthDay[sd.MonthDay] = sd.Label
	}

	for i := range lifes {
		rl := &lifes[i]
		rec := rl.Record
		release := rl.Release

		// first release per year
		if cur, ok := firstOfYear[release.Year]; !ok || release.EpochMs < cur.Release.EpochMs {
			firstOfYear[release.Year] = rl
		}

		// simultaneous releases keyed by the exact timestamp string
		g, ok := groups[rec.ReleaseAt]
		if !ok {
			g = &groupAcc{epochMs: release.EpochMs}
			groups[rec.ReleaseAt] = g
		}
		g.records = append(g.records, ref(rec))

		// special calendar days
		if label, ok := specialByMonthDay[release.MonthDay]; ok {
			acc, ok := specials[label]
			if !ok {
				acc = &specialAcc{}
				specials[label] = acc
			}
			acc.count++
			acc.examples = append(acc.examples, *rl)
		}

		// earliest adopter per tag
		for _, tag := range rec.Tags {
			tagCounts.add(tag)
			if cur, ok := tagEarliest[tag]; !ok || release.EpochMs < cur.Release.EpochMs {
				tagEarliest[tag] = rl
			}
		}

		// gestation: create -> release, positive spans only
		if rl.Create != nil {
			days := float64(release.EpochMs-rl.Create.EpochMs) / msPerDay
			if days > 0 {
				gestBands[gestationBand(days)]++
				gestEntries = append(gestEntries, GestationEntry{Record: ref(rec), Days: days})
				if days < 7 {
					habits.Sprint++
				}
			}
		}

		// event participation vs independent builds
		if len(rec.Events) == 0 {
			independent++
		}
		for _, ev := range rec.Events {
			eventCounts.add(ev)
		}

		// daily spikes and recurring hot-spots
		dayCounts.add(release.FullDate)
		monthDayCounts.add(release.MonthDay)

		// weekend window and night-owl counters
		if idx := weekendWindowIndex(release.Weekday, release.HourOfDay); idx >= 0 {
			habits.WeekendWindow[idx]++
		}
		if release.HourOfDay >= 22 || release.HourOfDay < 6 {
			habits.Night++
		} else {
			habits.Day++
		}

		// post-release maintenance
		if rl.Update != nil {
			days := float64(rl.Update.EpochMs-release.EpochMs) / msPerDay
			if days > 0 {
				maintEntries = append(maintEntries, MaintenanceEntry{Record: ref(rec), Days: days})
				maintSum += days
			}
		}
	}

	story := StoryMetrics{WeekendHabits: habits}

	// first-of-year, oldest year first
	years := make([]int, 0, len(firstOfYear))
	for y := range firstOfYear {
		years = append(years, y)
	}
	sort.Ints(years)
	for _, y := range years {
		story.FirstOfYear = append(story.FirstOfYear, FirstRelease{Year: y, Record: ref(firstOfYear[y].Record)})
	}

	// simultaneous groups, most recent first
	grouped := make([]*groupAcc, 0, len(groups))
	keys := make(map[*groupAcc]string, len(groups))
	for key, g := range groups {
		if len(g.records) < 2 {
			continue
		}
		grouped = append(grouped, g)
		keys[g] = key
	}
	sort.Slice(grouped, func(i, j int) bool { return grouped[i].epochMs > grouped[j].epochMs })
	if len(grouped) > TopLimit {
		grouped = grouped[:TopLimit]
	}
	for _, g := range grouped {
		story.Simultaneous = append(story.Simultaneous, ReleaseGroup{ReleaseAt: keys[g], Records: g.records})
	}

	// special days with at least one match, highest count first
	for _, sd := range specialDays {
		acc, ok := specials[sd.Label]
		if !ok {
			continue
		}
		sort.Slice(acc.examples, func(i, j int) bool {
			return acc.examples[i].Release.EpochMs > acc.examples[j].Release.EpochMs
		})
		examples := acc.examples
		if len(examples) > specialDayExamples {
			examples = examples[:specialDayExamples]
		}
		stat := SpecialDayStat{Label: sd.Label, MonthDay: sd.MonthDay, Count: acc.count}
		for _, ex := range examples {
			stat.Examples = append(stat.Examples, ref(ex.Record))
		}
		story.SpecialDays = append(story.SpecialDays, stat)
	}
	sort.SliceStable(story.SpecialDays, func(i, j int) bool {
		return story.SpecialDays[i].Count > story.SpecialDays[j].Count
	})

	// earliest adopter for each of the top tags
	for _, entry := range tagCounts.top(pioneerTagLimit) {
		if rl, ok := tagEarliest[entry.Name]; ok {
			story.TagPioneers = append(story.TagPioneers, TagPioneer{Tag: entry.Name, Record: ref(rl.Record)})
		}
	}

	// gestation bands in fixed order, longest gestations first
	for _, band := range gestationBands {
		if count, ok := gestBands[band.Label]; ok {
			story.Gestation.Bands = append(story.Gestation.Bands, BandCount{Band: band.Label, Count: count})
		}
	}
	sort.Slice(gestEntries, func(i, j int) bool { return gestEntries[i].Days > gestEntries[j].Days })
	if len(gestEntries) > TopLimit {
		gestEntries = gestEntries[:TopLimit]
	}
	story.Gestation.Longest = gestEntries

	story.EventOrigin = EventOriginStats{
		Events:           eventCounts.top(TopLimit),
		IndependentCount: independent,
	}
	if len(lifes) > 0 {
		story.EventOrigin.IndependentRatio = float64(independent) / float64(len(lifes))
	}

	for _, entry := range dayCounts.top(TopLimit) {
		story.DailySpikes = append(story.DailySpikes, DailySpike{Date: entry.Name, Count: entry.Count, Score: float64(entry.Count)})
	}

	for _, entry := range monthDayCounts.top(TopLimit) {
		story.CalendarHotspots = append(story.CalendarHotspots, CalendarHotspot{MonthDay: entry.Name, Count: entry.Count})
	}

	sort.Slice(maintEntries, func(i, j int) bool { return maintEntries[i].Days > maintEntries[j].Days })
	story.Maintenance.Longest = maintEntries
	if len(maintEntries) > 0 {
		story.Maintenance.AverageDays = maintSum / float64(len(maintEntries))
	}
	if len(maintEntries) > TopLimit {
		story.Maintenance.Longest = maintEntries[:TopLimit]
	}
	if len(lifes) > 0 {
		story.Maintenance.PositiveRatio = float64(len(maintEntries)) / float64(len(lifes))
	}

	return story
}
