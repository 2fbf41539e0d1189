package analytics

import (
	"sort"
	"strings"

	"protostats/internal/models"
)

// TopLimit caps every ranking and group listing produced by the aggregators.
const TopLimit = 30

type RankEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// counter accumulates frequencies while remembering first-encountered order,
// so equal counts rank deterministically for equal input order.
type counter struct {
	counts map[string]int
	order  map[string]int
}

func newCounter() *counter {
	return &counter{
		counts: make(map[string]int),
		order:  make(map[string]int),
	}
}

func (c *counter) add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order[key] = len(c.order)
	}
	c.counts[key]++
}

func (c *counter) top(limit int) []RankEntry {
	entries := make([]RankEntry, 0, len(c.counts))
	for key, count := range c.counts {
		entries = append(entries, RankEntry{Name: key, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return c.order[entries[i].Name] < c.order[entries[j].Name]
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// TopTags ranks tag frequency across the record set.
func TopTags(records []models.Record, limit int) []RankEntry {
	c := newCounter()
	for i := range records {
		for _, tag := range records[i].Tags {
			c.add(tag)
		}
	}
	return c.top(limit)
}

// TopMaterials ranks material frequency across the record set.
func TopMaterials(records []models.Record, limit int) []RankEntry {
	c := newCounter()
	for i := range records {
		for _, m := range records[i].Materials {
			c.add(m)
		}
	}
	return c.top(limit)
}

// TopTeams ranks team frequency. Team names are trimmed before counting and
// blank names are excluded.
func TopTeams(records []models.Record, limit int) []RankEntry {
	c := newCounter()
	for i := range records {
		team := strings.TrimSpace(records[i].TeamName)
		if team == "" {
			continue
		}
		c.add(team)
	}
	return c.top(limit)
}
