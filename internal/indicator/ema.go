package indicator

import (
	"github.com/moznion/go-optional"

	"github.com/rxtech-lab/boerse-charts/internal/types"
)

// EMA calculates the exponential moving average of closes over the given
// period. The first defined value, at index period-1, is the simple average
// of the first period closes; from there each value blends the new close in
// with alpha = 2 / (period + 1).
func EMA(closes []float64, period int) types.IndicatorSeries {
	series := types.IndicatorSeries{
		Type:   types.IndicatorTypeEMA,
		Period: period,
		Values: noneValues(len(closes)),
	}

	if period < 1 || period > len(closes) {
		return series
	}

	seed := 0.0
	for i := 0; i < period; i++ {
		seed += closes[i]
	}

	seed /= float64(period)

	alpha := 2.0 / float64(period+1)

	ema := seed
	series.Values[period-1] = optional.Some(ema)

	for i := period; i < len(closes); i++ {
		ema = (closes[i] * alpha) + (ema * (1 - alpha))
		series.Values[i] = optional.Some(ema)
	}

	return series
}
