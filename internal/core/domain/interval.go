package domain

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type Unit string

const (
	Second Unit = "s"
	Minute Unit = "m"
	Hour   Unit = "h"
)

func (u Unit) millis() float64 {
	switch u {
	case Second:
		return 1000
	case Minute:
		return 60000
	default:
		return 3600000
	}
}

// ParseUnit accepts "s", "m" or "h" in any case.
func ParseUnit(s string) (Unit, error) {
	switch Unit(strings.ToLower(strings.TrimSpace(s))) {
	case Second:
		return Second, nil
	case Minute:
		return Minute, nil
	case Hour:
		return Hour, nil
	default:
		return "", fmt.Errorf("unknown interval unit %q", s)
	}
}

// Interval is a normalized repeat period. Milliseconds is always > 0 for an
// Interval returned by a parser.
type Interval struct {
	Magnitude    float64
	Unit         Unit
	Milliseconds int64
	Label        string
}

// MaxIntervalMilliseconds is the longest interval that still fits in a
// time.Duration.
const MaxIntervalMilliseconds = math.MaxInt64 / int64(time.Millisecond)

func (i Interval) Duration() time.Duration {
	return time.Duration(i.Milliseconds) * time.Millisecond
}

var intervalPattern = regexp.MustCompile(`(?i)^(\d*\.?\d+)([smh])?$`)

// IntervalParser turns "30s", "5m", "4h" or a bare number into an Interval.
// A bare number uses DefaultUnit, which is Hour when unset.
type IntervalParser struct {
	DefaultUnit Unit
}

// ParseInterval parses with hours as the default unit.
func ParseInterval(text string) (Interval, error) {
	return IntervalParser{}.Parse(text)
}

func (p IntervalParser) Parse(text string) (Interval, error) {
	raw := strings.TrimSpace(text)

	m := intervalPattern.FindStringSubmatch(raw)
	if m == nil {
		return Interval{}, fmt.Errorf("%w: %q", ErrMalformedInterval, raw)
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Interval{}, fmt.Errorf("%w: %q", ErrMalformedInterval, raw)
	}
	if value <= 0 {
		return Interval{}, fmt.Errorf("%w: must be greater than zero", ErrMalformedInterval)
	}

	unit := p.DefaultUnit
	if unit == "" {
		unit = Hour
	}
	if m[2] != "" {
		unit = Unit(strings.ToLower(m[2]))
	}

	total := math.Round(value * unit.millis())
	if total > float64(MaxIntervalMilliseconds) {
		return Interval{}, fmt.Errorf("%w: longer than %s", ErrMalformedInterval,
			time.Duration(MaxIntervalMilliseconds)*time.Millisecond)
	}

	ms := int64(total)
	if ms <= 0 {
		return Interval{}, fmt.Errorf("%w: shorter than a millisecond", ErrMalformedInterval)
	}

	return Interval{
		Magnitude:    value,
		Unit:         unit,
		Milliseconds: ms,
		Label:        strconv.FormatFloat(value, 'f', -1, 64) + string(unit),
	}, nil
}
