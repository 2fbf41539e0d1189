package analytics

import (
	"time"

	"protostats/internal/anniversary"
	"protostats/internal/lifecycle"
	"protostats/internal/models"
	"protostats/internal/providers"
	"protostats/internal/structures"
)

// ServerAnalysis bundles every timezone-independent aggregate plus the
// pre-filtered anniversary candidates. Field names are a wire contract with
// the presentation layer and must stay stable.
type ServerAnalysis struct {
	GeneratedAt       string                   `json:"generatedAt"`
	TotalRecords      int                      `json:"totalRecords"`
	WithLifecycle     int                      `json:"withLifecycle"`
	StatusCounts      []StatusCount            `json:"statusCounts"`
	Tags              []RankEntry              `json:"tags"`
	Teams             []RankEntry              `json:"teams"`
	Materials         []RankEntry              `json:"materials"`
	AverageAgeDays    float64                  `json:"averageAgeDays"`
	TimeDistributions TimeDistributions        `json:"timeDistributions"`
	Streak            CreationStreak           `json:"streak"`
	Story             StoryMetrics             `json:"story"`
	Anniversary       anniversary.CandidateSet `json:"anniversary"`
}

type Analyzer struct {
	logger        providers.Logger
	retiredStatus int
}

func NewAnalyzer(conf *structures.Config, logger providers.Logger) *Analyzer {
	return &Analyzer{
		logger:        logger,
		retiredStatus: conf.Analysis.RetiredStatus,
	}
}

// Analyze runs every batch aggregator over the record set against the given
// reference instant. The input is consumed read-only; the record set is
// traversed once per logical aggregate group.
func (a *Analyzer) Analyze(records []models.Record, now time.Time) *ServerAnalysis {
	start := time.Now()

	lifes := lifecycle.BuildAll(records, a.retiredStatus)

	analysis := &ServerAnalysis{
		GeneratedAt:       now.UTC().Format(time.RFC3339),
		TotalRecords:      len(records),
		WithLifecycle:     len(lifes),
		StatusCounts:      StatusHistogram(records),
		Tags:              TopTags(records, TopLimit),
		Teams:             TopTeams(records, TopLimit),
		Materials:         TopMaterials(records, TopLimit),
		AverageAgeDays:    AverageAgeDays(lifes, now),
		TimeDistributions: BuildTimeDistributions(lifes),
		Streak:            Streak(lifes, now),
		Story:             BuildStory(lifes),
		Anniversary:       anniversary.BuildCandidates(records, now),
	}

	a.logger.Debugf(providers.TypeApp, "analysis complete: %d records (%d with lifecycle), %d candidates, %dms",
		len(records), len(lifes), len(analysis.Anniversary.Candidates), time.Since(start).Milliseconds())

	return analysis
}
