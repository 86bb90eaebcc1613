package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satellite-agent/internal/domain/entity"
	"satellite-agent/internal/infrastructure/browser/browsertest"
)

func newTranslator() *Translator {
	return NewTranslator(browsertest.NopLogger{}, 0)
}

func apply(t *testing.T, s *browsertest.ScriptedSession, q entity.SearchQuery) {
	t.Helper()
	require.NoError(t, newTranslator().Apply(context.Background(), s, q))
}

func TestApply_RelativeWeekOptical(t *testing.T) {
	s := browsertest.NewSession()
	apply(t, s, entity.SearchQuery{
		Location:   "Rome",
		TimePeriod: "last week",
		ImageType:  entity.ImageOptical,
	})

	assert.Equal(t, []string{
		"clickText:Open search",
		"waitVisible:input[placeholder='Search area']",
		"fill:input[placeholder='Search area']=Rome",
		"pressEnter",
		"click:.date-filter",
		"clickText:Last week",
		"clickText:Sentinel-2",
		"clickText:Search",
		"waitVisible:.search-results",
	}, s.Calls)
}

func TestApply_RadarSelectsSentinel1(t *testing.T) {
	s := browsertest.NewSession()
	apply(t, s, entity.SearchQuery{
		Location:   "Iceland",
		TimePeriod: "last month",
		ImageType:  entity.ImageRadar,
	})

	assert.Contains(t, s.Calls, "clickText:Last month")
	assert.Contains(t, s.Calls, "clickText:Sentinel-1")
	assert.NotContains(t, s.Calls, "clickText:Sentinel-2")
}

func TestApply_ExplicitRange(t *testing.T) {
	s := browsertest.NewSession()
	apply(t, s, entity.SearchQuery{
		Location:   "Rome",
		TimePeriod: "2024-01-01 to 2024-01-15",
		ImageType:  entity.ImageOptical,
	})

	assert.Contains(t, s.Calls, "clickText:Custom range")
	assert.Contains(t, s.Calls, "fill:.start-date input=2024-01-01")
	assert.Contains(t, s.Calls, "fill:.end-date input=2024-01-15")
}

func TestApply_SingleDateFillsBothEnds(t *testing.T) {
	s := browsertest.NewSession()
	apply(t, s, entity.SearchQuery{
		Location:   "Rome",
		TimePeriod: "2024-03-05",
		ImageType:  entity.ImageOptical,
	})

	assert.Contains(t, s.Calls, "fill:.start-date input=2024-03-05")
	assert.Contains(t, s.Calls, "fill:.end-date input=2024-03-05")
}

func TestApply_RelativeBeatsRange(t *testing.T) {
	s := browsertest.NewSession()
	apply(t, s, entity.SearchQuery{
		Location:   "Rome",
		TimePeriod: "last week to today",
		ImageType:  entity.ImageOptical,
	})

	assert.Contains(t, s.Calls, "clickText:Last week")
	assert.NotContains(t, s.Calls, "clickText:Custom range")
}

func TestApply_MultiDayUsesDayPreset(t *testing.T) {
	s := browsertest.NewSession()
	apply(t, s, entity.SearchQuery{
		Location:   "Rome",
		TimePeriod: "last 5 days",
		ImageType:  entity.ImageOptical,
	})

	assert.Contains(t, s.Calls, "clickText:Last 24 hours")
}

func TestApply_UnknownUnitDegradesToEmptyCustomRange(t *testing.T) {
	s := browsertest.NewSession()
	apply(t, s, entity.SearchQuery{
		Location:   "Rome",
		TimePeriod: "last fortnight",
		ImageType:  entity.ImageOptical,
	})

	assert.Contains(t, s.Calls, "clickText:Custom range")
	for _, call := range s.Calls {
		assert.NotContains(t, call, ".start-date", "degraded path must not populate dates")
		assert.NotContains(t, call, ".end-date", "degraded path must not populate dates")
	}
}

func TestApply_SubmitFailurePropagates(t *testing.T) {
	s := browsertest.NewSession()
	s.FailOn["clickText:Search"] = errors.New("button gone")

	err := newTranslator().Apply(context.Background(), s, entity.SearchQuery{
		Location:   "Rome",
		TimePeriod: "last week",
		ImageType:  entity.ImageOptical,
	})
	assert.ErrorContains(t, err, "submit search")
}
