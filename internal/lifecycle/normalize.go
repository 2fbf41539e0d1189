// Package lifecycle converts raw catalog timestamps into fixed-offset
// calendar decompositions. All timezone-independent aggregates are computed
// on these fields, so results are reproducible regardless of where the
// process runs.
package lifecycle

import (
	"fmt"
	"strings"
	"time"
)

// OffsetHours is the fixed calendar offset (UTC+9) applied before extracting
// calendar fields. It is a design constant, not a host setting.
const OffsetHours = 9

const (
	offsetMs  = int64(OffsetHours) * 3600 * 1000
	dayMs     = int64(24) * 3600 * 1000
	daySlopMs = int64(1000)
)

// Moment is the calendar decomposition of one timestamp at the fixed offset.
type Moment struct {
	IsoSource string `json:"isoSource"`
	EpochMs   int64  `json:"epochMs"`
	Year      int    `json:"year"`
	MonthDay  string `json:"monthDay"`
	FullDate  string `json:"fullDate"`
	Weekday   int    `json:"weekday"`
	HourOfDay int    `json:"hourOfDay"`

	Month int `json:"-"`
	Day   int `json:"-"`
}

var parseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalize parses iso and returns its fixed-offset decomposition.
// Absence (ok == false) is the only failure signal: empty or unparsable
// input never yields a poisoned zero moment.
func Normalize(iso string) (Moment, bool) {
	trimmed := strings.TrimSpace(iso)
	if trimmed == "" {
		return Moment{}, false
	}

	var parsed time.Time
	var err error
	for _, layout := range parseLayouts {
		parsed, err = time.Parse(layout, trimmed)
		if err == nil {
			break
		}
	}
	if err != nil {
		return Moment{}, false
	}

	epochMs := parsed.UnixMilli()
	shifted := parsed.UTC().Add(OffsetHours * time.Hour)

	return Moment{
		IsoSource: iso,
		EpochMs:   epochMs,
		Year:      shifted.Year(),
		MonthDay:  shifted.Format("01-02"),
		FullDate:  shifted.Format("2006-01-02"),
		Weekday:   int(shifted.Weekday()),
		HourOfDay: shifted.Hour(),
		Month:     int(shifted.Month()),
		Day:       shifted.Day(),
	}, true
}

// DayKey maps the moment to its fixed-offset calendar day as an integer
// (days since the Unix epoch). Consecutive calendar days differ by exactly 1.
func (m Moment) DayKey() int64 {
	return EpochDayKey(m.EpochMs)
}

// EpochDayKey converts an epoch-ms instant to its fixed-offset day number,
// tolerating up to a second of slop below a midnight boundary.
func EpochDayKey(epochMs int64) int64 {
	shifted := epochMs + offsetMs
	if rem := mod(shifted, dayMs); rem >= dayMs-daySlopMs {
		shifted += dayMs - rem
	}
	return floorDiv(shifted, dayMs)
}

// DayKeyDate renders a day key back to its YYYY-MM-DD label.
func DayKeyDate(key int64) string {
	return time.Unix(key*86400, 0).UTC().Format("2006-01-02")
}

// ShiftedMonthDay returns t's month-day at the fixed offset, for comparing a
// reference instant against release month-days.
func ShiftedMonthDay(t time.Time, dayDelta int) string {
	shifted := t.UTC().Add(OffsetHours * time.Hour).AddDate(0, 0, dayDelta)
	return shifted.Format("01-02")
}

// ShiftedDate returns t's full date at the fixed offset.
func ShiftedDate(t time.Time) string {
	return t.UTC().Add(OffsetHours * time.Hour).Format("2006-01-02")
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func mod(a, b int64) int64 {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}

func (m Moment) String() string {
	return fmt.Sprintf("%s %02d:00 (wd %d)", m.FullDate, m.HourOfDay, m.Weekday)
}
