package types

import (
	"strings"
	"sync"
	"time"

	"github.com/rxtech-lab/boerse-charts/pkg/errors"
)

// TimeRange is a time window, inclusive at both endpoints. A zero From
// means an open lower bound.
type TimeRange struct {
	From time.Time `yaml:"from" json:"from"`
	To   time.Time `yaml:"to" json:"to"`
}

// Contains reports whether t falls inside the range.
func (r TimeRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}

	return true
}

// RangeKey selects how far back a chart request reaches.
type RangeKey string

const (
	RangeKeyIntraday RangeKey = "intraday"
	RangeKeyDay      RangeKey = "1d"
	RangeKeyWeek     RangeKey = "1w"
	RangeKeyMonth    RangeKey = "1mo"
	RangeKeyQuarter  RangeKey = "3mo"
	RangeKeyYear     RangeKey = "1y"
	RangeKeyMax      RangeKey = "max"
)

// RangeOption describes how a range key maps onto a fetch window: the
// resolution of the resulting series and the native bar interval the
// exchange serves for that span.
type RangeOption struct {
	Key        RangeKey
	Resolution Resolution
	Interval   string
}

var rangeOptions = map[RangeKey]RangeOption{
	RangeKeyIntraday: {Key: RangeKeyIntraday, Resolution: ResolutionIntraday, Interval: "1m"},
	RangeKeyDay:      {Key: RangeKeyDay, Resolution: ResolutionIntraday, Interval: "1m"},
	RangeKeyWeek:     {Key: RangeKeyWeek, Resolution: ResolutionIntraday, Interval: "5m"},
	RangeKeyMonth:    {Key: RangeKeyMonth, Resolution: ResolutionIntraday, Interval: "30m"},
	RangeKeyQuarter:  {Key: RangeKeyQuarter, Resolution: ResolutionIntraday, Interval: "1h"},
	RangeKeyYear:     {Key: RangeKeyYear, Resolution: ResolutionDaily, Interval: "1d"},
	RangeKeyMax:      {Key: RangeKeyMax, Resolution: ResolutionDaily, Interval: "1d"},
}

// ParseRangeKey converts user input into a RangeKey.
func ParseRangeKey(s string) (RangeKey, error) {
	key := RangeKey(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := rangeOptions[key]; !ok {
		return "", errors.Newf(errors.ErrCodeInvalidRange, "unknown range %q", s)
	}

	return key, nil
}

// Valid reports whether the key is a member of the supported range set.
func (k RangeKey) Valid() bool {
	_, ok := rangeOptions[k]

	return ok
}

// Option returns the fetch options for the key.
func (k RangeKey) Option() (RangeOption, bool) {
	opt, ok := rangeOptions[k]

	return opt, ok
}

// RangeKeys returns every supported key in display order.
func RangeKeys() []RangeKey {
	return []RangeKey{
		RangeKeyIntraday,
		RangeKeyDay,
		RangeKeyWeek,
		RangeKeyMonth,
		RangeKeyQuarter,
		RangeKeyYear,
		RangeKeyMax,
	}
}

// Window computes the time range the key selects, anchored at now.
// The intraday window starts at midnight of now's day in loc; max has an
// open lower bound.
func (k RangeKey) Window(now time.Time, loc *time.Location) TimeRange {
	if loc == nil {
		loc = ExchangeLocation()
	}
	local := now.In(loc)

	switch k {
	case RangeKeyIntraday:
		start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

		return TimeRange{From: start, To: local}
	case RangeKeyDay:
		return TimeRange{From: local.AddDate(0, 0, -1), To: local}
	case RangeKeyWeek:
		return TimeRange{From: local.AddDate(0, 0, -7), To: local}
	case RangeKeyMonth:
		return TimeRange{From: local.AddDate(0, -1, 0), To: local}
	case RangeKeyQuarter:
		return TimeRange{From: local.AddDate(0, -3, 0), To: local}
	case RangeKeyYear:
		return TimeRange{From: local.AddDate(-1, 0, 0), To: local}
	case RangeKeyMax:
		return TimeRange{To: local}
	default:
		return TimeRange{To: local}
	}
}

var exchangeLocation = sync.OnceValue(func() *time.Location {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		// No tzdata on the host. CET without DST is the closest stand-in.
		return time.FixedZone("CET", 60*60)
	}

	return loc
})

// ExchangeLocation returns the exchange-local timezone (Europe/Berlin).
func ExchangeLocation() *time.Location {
	return exchangeLocation()
}
