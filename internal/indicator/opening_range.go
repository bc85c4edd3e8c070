package indicator

import (
	"time"

	"github.com/moznion/go-optional"

	"github.com/rxtech-lab/boerse-charts/internal/types"
)

const (
	// DefaultSessionStart is the Stuttgart floor trading open, as an offset
	// from local midnight.
	DefaultSessionStart = 9 * time.Hour

	// DefaultWindowMinutes is the default opening range width.
	DefaultWindowMinutes = 15
)

// OpeningRange calculates the high/low band of the first windowMinutes of
// the trading session. The session day is the local date of the last
// candle, so on an intraday series the range always describes the current
// session. Candles are counted into the window when their timestamp falls
// inside [start, start+window], both ends inclusive. Returns None when no
// candle lands inside the window.
func OpeningRange(candles []types.Candle, sessionStart time.Duration, windowMinutes int) optional.Option[types.OpeningRange] {
	if len(candles) == 0 || windowMinutes <= 0 {
		return optional.None[types.OpeningRange]()
	}

	last := candles[len(candles)-1].Time
	loc := last.Location()

	start := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, loc).
		Add(sessionStart)
	end := start.Add(time.Duration(windowMinutes) * time.Minute)

	rng := types.OpeningRange{
		WindowMinutes: windowMinutes,
		Start:         start,
		End:           end,
	}

	found := false

	for _, candle := range candles {
		if candle.Time.Before(start) || candle.Time.After(end) {
			continue
		}

		if !found || candle.High > rng.High {
			rng.High = candle.High
		}

		if !found || candle.Low < rng.Low {
			rng.Low = candle.Low
		}

		found = true
	}

	if !found {
		return optional.None[types.OpeningRange]()
	}

	return optional.Some(rng)
}
