package analytics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"protostats/internal/models"
)

func TestTopTags_CountsAndOrder(t *testing.T) {
	records := []models.Record{
		{Tags: []string{"led", "arduino"}},
		{Tags: []string{"arduino"}},
		{Tags: []string{"led", "sensor"}},
	}

	top := TopTags(records, TopLimit)
	require.Len(t, top, 3)
	assert.Equal(t, RankEntry{Name: "led", Count: 2}, top[0])
	assert.Equal(t, RankEntry{Name: "arduino", Count: 2}, top[1])
	assert.Equal(t, RankEntry{Name: "sensor", Count: 1}, top[2])
}

func TestTopTags_TiesAreStableForEqualInputOrder(t *testing.T) {
	records := []models.Record{
		{Tags: []string{"b", "a", "c"}},
	}

	first := TopTags(records, TopLimit)
	second := TopTags(records, TopLimit)
	assert.Equal(t, first, second)
	assert.Equal(t, "b", first[0].Name)
	assert.Equal(t, "a", first[1].Name)
	assert.Equal(t, "c", first[2].Name)
}

func TestTopTags_NeverExceedsLimit(t *testing.T) {
	var records []models.Record
	for i := 0; i < 100; i++ {
		records = append(records, models.Record{Tags: []string{fmt.Sprintf("tag-%d", i)}})
	}
	assert.Len(t, TopTags(records, TopLimit), TopLimit)
}

func TestTopTeams_TrimsAndExcludesBlank(t *testing.T) {
	records := []models.Record{
		{TeamName: "  makers  "},
		{TeamName: "makers"},
		{TeamName: "   "},
		{TeamName: ""},
		{TeamName: "solo"},
	}

	top := TopTeams(records, TopLimit)
	require.Len(t, top, 2)
	assert.Equal(t, RankEntry{Name: "makers", Count: 2}, top[0])
	assert.Equal(t, RankEntry{Name: "solo", Count: 1}, top[1])
}

func TestTopMaterials_Empty(t *testing.T) {
	assert.Empty(t, TopMaterials(nil, TopLimit))
}
