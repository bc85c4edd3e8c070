package indicator

import (
	"github.com/moznion/go-optional"

	"github.com/rxtech-lab/boerse-charts/internal/types"
)

// SMA calculates the simple moving average of closes over the given period.
// The result is defined from index period-1 onward; earlier entries are
// None. The rolling sum makes the whole series a single pass regardless of
// the period.
func SMA(closes []float64, period int) types.IndicatorSeries {
	series := types.IndicatorSeries{
		Type:   types.IndicatorTypeSMA,
		Period: period,
		Values: noneValues(len(closes)),
	}

	if period < 1 || period > len(closes) {
		return series
	}

	sum := 0.0

	for i, price := range closes {
		sum += price
		if i >= period {
			sum -= closes[i-period]
		}

		if i >= period-1 {
			series.Values[i] = optional.Some(sum / float64(period))
		}
	}

	return series
}
