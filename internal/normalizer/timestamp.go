package normalizer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rxtech-lab/boerse-charts/internal/statetree"
)

// millisThreshold separates epoch seconds from epoch milliseconds. Any
// value above it (~ year 2286 in seconds) is treated as milliseconds.
const millisThreshold = 10_000_000_000

// stringLayouts are the textual timestamp forms the feed has served, tried
// in order. Layouts without a zone are interpreted in the exchange's
// timezone.
var stringLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02.01.2006 15:04:05",
	"2006-01-02",
	"02.01.2006",
}

// coerceTimestamp converts a raw timestamp node (epoch number, numeric
// string, or formatted string) into an instant in loc.
func coerceTimestamp(node statetree.Node, loc *time.Location) (time.Time, bool) {
	if !node.Exists() {
		return time.Time{}, false
	}

	switch v := node.Value().(type) {
	case float64:
		return fromEpoch(v, loc)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return fromEpoch(f, loc)
		}

		return fromLayouts(s, loc)
	default:
		return time.Time{}, false
	}
}

func fromEpoch(f float64, loc *time.Location) (time.Time, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return time.Time{}, false
	}

	if f > millisThreshold {
		return time.UnixMilli(int64(f)).In(loc), true
	}

	sec := math.Trunc(f)
	nsec := int64(math.Round((f - sec) * 1e9))

	return time.Unix(int64(sec), nsec).In(loc), true
}

func fromLayouts(s string, loc *time.Location) (time.Time, bool) {
	for _, layout := range stringLayouts {
		if layout == time.RFC3339 {
			if t, err := time.Parse(layout, s); err == nil {
				return t.In(loc), true
			}

			continue
		}
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
