package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"protostats/internal/analytics"
	"protostats/internal/anniversary"
	"protostats/internal/models"
	"protostats/internal/providers"
	"protostats/internal/structures"
)

type schedTestLogger struct{}

func (m *schedTestLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *schedTestLogger) Warnf(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *schedTestLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *schedTestLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *schedTestLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *schedTestLogger) Close()                                                  {}

type schedTestService struct {
	refreshCalls int
	refreshErr   error
}

func (m *schedTestService) GetRecords(_ context.Context) ([]models.Record, bool, error) {
	return nil, false, nil
}
func (m *schedTestService) GetRecord(_ context.Context, _ int) (models.Record, error) {
	return models.Record{}, nil
}
func (m *schedTestService) GetRandomRecord(_ context.Context) (models.Record, error) {
	return models.Record{}, nil
}
func (m *schedTestService) Refresh(_ context.Context) error {
	m.refreshCalls++
	return m.refreshErr
}
func (m *schedTestService) ServerAnalysis(_ context.Context) (*analytics.ServerAnalysis, error) {
	return nil, nil
}
func (m *schedTestService) ClientAnalysis(_ context.Context, _ time.Time) (anniversary.ClientAnalysis, error) {
	return anniversary.ClientAnalysis{}, nil
}
func (m *schedTestService) SnapshotInfo() (int, time.Time, bool) {
	return 0, time.Time{}, true
}

func TestScheduler_PrimeDelegatesToRefresh(t *testing.T) {
	svc := &schedTestService{}
	s := NewScheduler(&structures.Config{}, &schedTestLogger{}, svc)

	assert.NoError(t, s.Prime())
	assert.Equal(t, 1, svc.refreshCalls)
}

func TestScheduler_PrimePropagatesError(t *testing.T) {
	svc := &schedTestService{refreshErr: errors.New("upstream down")}
	s := NewScheduler(&structures.Config{}, &schedTestLogger{}, svc)

	assert.Error(t, s.Prime())
}

func TestScheduler_StopBeforeInitIsSafe(t *testing.T) {
	s := NewScheduler(&structures.Config{}, &schedTestLogger{}, &schedTestService{})
	s.Stop()
}

func TestScheduler_InitStartsAndStops(t *testing.T) {
	svc := &schedTestService{}
	conf := &structures.Config{
		Snapshot: structures.SnapshotConfig{RefreshInterval: time.Hour},
	}
	s := NewScheduler(conf, &schedTestLogger{}, svc)

	s.Init()
	s.Stop()
	// The hour-long interval never fires inside the test.
	assert.Zero(t, svc.refreshCalls)
}
