// Package query turns a SearchQuery into the portal's UI interactions.
package query

import (
	"context"
	"fmt"
	"time"

	"satellite-agent/internal/application/port/output"
	"satellite-agent/internal/domain/entity"
)

const (
	openSearchText = "Open search"
	areaField      = "input[placeholder='Search area']"
	dateFilter     = ".date-filter"
	startDateField = ".start-date input"
	endDateField   = ".end-date input"
	searchButton   = "Search"

	// ResultContainer is the region the result list renders into.
	ResultContainer = ".search-results"

	presetLast24h   = "Last 24 hours"
	presetLastWeek  = "Last week"
	presetLastMonth = "Last month"
	presetCustom    = "Custom range"

	opticalFilter = "Sentinel-2"
	radarFilter   = "Sentinel-1"

	defaultResultsWait = 30 * time.Second
	fieldWait          = 10 * time.Second
)

// Translator applies a query to the live page: location, time period,
// sensor filter, then submit. The portal binds these selectors literally; a
// portal UI change is an external-interface break, not a bug here.
type Translator struct {
	log         output.LoggerPort
	resultsWait time.Duration
}

func NewTranslator(log output.LoggerPort, resultsWait time.Duration) *Translator {
	if resultsWait <= 0 {
		resultsWait = defaultResultsWait
	}
	return &Translator{log: log, resultsWait: resultsWait}
}

// Apply performs the full interaction sequence in order and waits for the
// result container to render.
func (t *Translator) Apply(ctx context.Context, s output.BrowserSession, q entity.SearchQuery) error {
	if err := s.ClickText(ctx, openSearchText); err != nil {
		return fmt.Errorf("open search interface: %w", err)
	}
	if err := s.WaitVisible(ctx, areaField, fieldWait); err != nil {
		return fmt.Errorf("search area field did not render: %w", err)
	}

	if err := s.Fill(ctx, areaField, q.Location); err != nil {
		return fmt.Errorf("fill search area: %w", err)
	}
	if err := s.PressEnter(ctx); err != nil {
		return fmt.Errorf("submit search area: %w", err)
	}

	period := entity.ParseTimePeriod(q.TimePeriod)
	if err := t.applyPeriod(ctx, s, period, q.TimePeriod); err != nil {
		return fmt.Errorf("apply time period: %w", err)
	}

	if err := t.applyImageType(ctx, s, q.ImageType); err != nil {
		return fmt.Errorf("apply image type: %w", err)
	}

	if err := s.ClickText(ctx, searchButton); err != nil {
		return fmt.Errorf("submit search: %w", err)
	}
	if err := s.WaitVisible(ctx, ResultContainer, t.resultsWait); err != nil {
		return fmt.Errorf("result container did not render: %w", err)
	}

	return nil
}

func (t *Translator) applyPeriod(ctx context.Context, s output.BrowserSession, p entity.TimePeriod, raw string) error {
	if err := s.Click(ctx, dateFilter); err != nil {
		return fmt.Errorf("open date filter: %w", err)
	}

	if p.Kind == entity.PeriodRelative {
		return t.applyRelative(ctx, s, p, raw)
	}

	// Range and single-date periods share the custom-range path; a single
	// date fills both ends.
	if err := s.ClickText(ctx, presetCustom); err != nil {
		return fmt.Errorf("select custom range: %w", err)
	}
	if err := s.Fill(ctx, startDateField, p.Start); err != nil {
		return fmt.Errorf("fill start date: %w", err)
	}
	if err := s.Fill(ctx, endDateField, p.End); err != nil {
		return fmt.Errorf("fill end date: %w", err)
	}
	return nil
}

func (t *Translator) applyRelative(ctx context.Context, s output.BrowserSession, p entity.TimePeriod, raw string) error {
	switch p.Unit {
	case entity.UnitDay:
		if p.Count > 1 {
			t.log.Info("approximating multi-day period with the 24h preset", "days", p.Count)
		}
		return s.ClickText(ctx, presetLast24h)
	case entity.UnitWeek:
		return s.ClickText(ctx, presetLastWeek)
	case entity.UnitMonth:
		return s.ClickText(ctx, presetLastMonth)
	default:
		// Degraded path: no preset matches this unit and the expression
		// carries no explicit dates to fill in.
		t.log.Warn("unrecognized relative unit, leaving custom range empty", "period", raw)
		return s.ClickText(ctx, presetCustom)
	}
}

func (t *Translator) applyImageType(ctx context.Context, s output.BrowserSession, it entity.ImageType) error {
	switch it {
	case entity.ImageRadar:
		return s.ClickText(ctx, radarFilter)
	default:
		return s.ClickText(ctx, opticalFilter)
	}
}
