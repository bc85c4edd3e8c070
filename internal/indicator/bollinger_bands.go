package indicator

import (
	"github.com/montanaflynn/stats"
	"github.com/moznion/go-optional"

	"github.com/rxtech-lab/boerse-charts/internal/types"
)

// Bollinger calculates Bollinger bands over closes. The middle band is the
// simple moving average of the trailing window; the upper and lower bands
// sit stdDev population standard deviations above and below it. Over a
// constant window the deviation is zero and all three bands coincide.
func Bollinger(closes []float64, period int, stdDev float64) types.BollingerBands {
	bands := types.BollingerBands{
		Period: period,
		StdDev: stdDev,
		Middle: noneValues(len(closes)),
		Upper:  noneValues(len(closes)),
		Lower:  noneValues(len(closes)),
	}

	if period < 1 || period > len(closes) {
		return bands
	}

	for i := period - 1; i < len(closes); i++ {
		window := stats.Float64Data(closes[i-period+1 : i+1])

		mean, err := stats.Mean(window)
		if err != nil {
			continue
		}

		sd, err := stats.StandardDeviation(window)
		if err != nil {
			continue
		}

		bands.Middle[i] = optional.Some(mean)
		bands.Upper[i] = optional.Some(mean + stdDev*sd)
		bands.Lower[i] = optional.Some(mean - stdDev*sd)
	}

	return bands
}
