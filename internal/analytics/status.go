package analytics

import "protostats/internal/models"

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// StatusHistogram counts records per status code. Records with a missing or
// undecodable status are counted under the "unknown" bucket, never dropped.
func StatusHistogram(records []models.Record) []StatusCount {
	c := newCounter()
	for i := range records {
		c.add(records[i].Status.String())
	}

	ranked := c.top(0)
	out := make([]StatusCount, len(ranked))
	for i, e := range ranked {
		out[i] = StatusCount{Status: e.Name, Count: e.Count}
	}
	return out
}
