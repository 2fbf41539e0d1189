package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"protostats/internal/lifecycle"
	"protostats/internal/models"
)

func TestBuildTimeDistributions_ReleaseBuckets(t *testing.T) {
	records := []models.Record{
		// Saturday 2025-06-07 14:00 at +9
		{Id: 1, ReleaseAt: "2025-06-07T14:00:00+09:00"},
		{Id: 2, ReleaseAt: "2025-06-07T14:30:00+09:00"},
		// Sunday 2025-06-08 03:00 at +9
		{Id: 3, ReleaseAt: "2025-06-08T03:00:00+09:00"},
	}
	lifes := lifecycle.BuildAll(records, 4)
	dist := BuildTimeDistributions(lifes)

	assert.Equal(t, 2, dist.Release.Weekday[6])
	assert.Equal(t, 1, dist.Release.Weekday[0])
	assert.Equal(t, 2, dist.Release.Hour[14])
	assert.Equal(t, 1, dist.Release.Hour[3])
	assert.Equal(t, 2, dist.Release.Heatmap[6][14])
	assert.Equal(t, 1, dist.Release.Heatmap[0][3])
	assert.Equal(t, 3, dist.Release.Month[5])
	assert.Equal(t, 3, dist.Release.Year[2025])
	assert.Equal(t, 2, dist.Release.Drilldown[2025][6][7])
	assert.Equal(t, 1, dist.Release.Drilldown[2025][6][8])
}

func TestBuildTimeDistributions_MissingMomentsSkippedPerDistribution(t *testing.T) {
	records := []models.Record{
		{Id: 1, ReleaseAt: "2025-06-07T14:00:00+09:00", CreatedAt: "bad", UpdatedAt: ""},
	}
	lifes := lifecycle.BuildAll(records, 4)
	dist := BuildTimeDistributions(lifes)

	assert.Equal(t, 1, dist.Release.Weekday[6])
	assert.Zero(t, dist.Create.Hour[14])
	assert.Zero(t, dist.Update.Hour[14])
}

func TestTimeDistribution_AncientYearsExcluded(t *testing.T) {
	records := []models.Record{
		{Id: 1, ReleaseAt: "1899-01-01T00:00:00Z"},
		{Id: 2, ReleaseAt: "2024-01-01T12:00:00Z"},
	}
	lifes := lifecycle.BuildAll(records, 4)
	require.Len(t, lifes, 2)
	dist := BuildTimeDistributions(lifes)

	_, ok := dist.Release.Year[1899]
	assert.False(t, ok)
	assert.Equal(t, 1, dist.Release.Year[2024])
	// Weekday and hour buckets still count the ancient record.
	total := 0
	for _, c := range dist.Release.Weekday {
		total += c
	}
	assert.Equal(t, 2, total)
}
