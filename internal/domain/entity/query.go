package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// ImageType selects the sensor family the portal should filter on.
type ImageType string

const (
	ImageOptical ImageType = "Optical"
	ImageRadar   ImageType = "Radar"
)

// ParseImageType accepts the user-facing spellings, including "SAR" as an
// alias for radar imagery.
func ParseImageType(s string) (ImageType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "optical":
		return ImageOptical, nil
	case "radar", "sar":
		return ImageRadar, nil
	default:
		return "", fmt.Errorf("unknown image type %q", s)
	}
}

// SearchQuery describes one portal search. Immutable once constructed.
type SearchQuery struct {
	Location   string    `json:"location"`
	TimePeriod string    `json:"timePeriod"`
	ImageType  ImageType `json:"imageType"`
}

type PeriodKind int

const (
	PeriodRelative PeriodKind = iota
	PeriodRange
	PeriodSingle
)

type RelativeUnit int

const (
	UnitUnknown RelativeUnit = iota
	UnitDay
	UnitWeek
	UnitMonth
)

// TimePeriod is the parsed form of the free-text time expression.
type TimePeriod struct {
	Kind  PeriodKind
	Unit  RelativeUnit // relative periods only
	Count int          // relative periods only, 1 when no count is given
	Start string       // range and single-date periods
	End   string
}

// ParseTimePeriod classifies a free-text time expression. The relative
// branch has priority: a string containing both "last" and "to" parses as
// relative. Anything that is neither relative nor an "A to B" range is a
// single-day query with the same start and end date.
func ParseTimePeriod(s string) TimePeriod {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "last"):
		return parseRelative(lower)
	case strings.Contains(s, "to"):
		parts := strings.SplitN(s, "to", 2)
		return TimePeriod{
			Kind:  PeriodRange,
			Start: strings.TrimSpace(parts[0]),
			End:   strings.TrimSpace(parts[1]),
		}
	default:
		date := strings.TrimSpace(s)
		return TimePeriod{Kind: PeriodSingle, Start: date, End: date}
	}
}

func parseRelative(lower string) TimePeriod {
	p := TimePeriod{Kind: PeriodRelative, Count: 1}
	switch {
	case strings.Contains(lower, "day"):
		p.Unit = UnitDay
		p.Count = relativeCount(lower)
	case strings.Contains(lower, "week"):
		p.Unit = UnitWeek
	case strings.Contains(lower, "month"):
		p.Unit = UnitMonth
	default:
		p.Unit = UnitUnknown
	}
	return p
}

// relativeCount pulls N out of "last N days". A missing or malformed count
// comes back as 1 ("last day").
func relativeCount(lower string) int {
	_, rest, ok := strings.Cut(lower, "last")
	if !ok {
		return 1
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return 1
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 1 {
		return 1
	}
	return n
}
