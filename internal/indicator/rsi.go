package indicator

import (
	"github.com/moznion/go-optional"

	"github.com/rxtech-lab/boerse-charts/internal/types"
)

// RSI calculates the Wilder relative strength index of closes over the
// given period. The first defined value sits at index period, seeded from
// the plain average of the first period price moves; later values use
// Wilder's smoothing. When the average loss is zero the value saturates at
// 100, and a window with neither gains nor losses reads as neutral 50.
func RSI(closes []float64, period int) types.RSISeries {
	series := types.RSISeries{
		Period: period,
		Values: noneValues(len(closes)),
	}

	if period < 1 || len(closes) < period+1 {
		return series
	}

	gains := make([]float64, len(closes)-1)
	losses := make([]float64, len(closes)-1)

	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i-1] = change
		} else {
			losses[i-1] = -change
		}
	}

	avgGain := 0.0
	avgLoss := 0.0

	for i := 0; i < period; i++ {
		avgGain += gains[i]
		avgLoss += losses[i]
	}

	avgGain /= float64(period)
	avgLoss /= float64(period)

	series.Values[period] = optional.Some(rsiValue(avgGain, avgLoss))

	for i := period; i < len(gains); i++ {
		avgGain = (avgGain*float64(period-1) + gains[i]) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + losses[i]) / float64(period)

		series.Values[i+1] = optional.Some(rsiValue(avgGain, avgLoss))
	}

	return series
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}

		return 100
	}

	rs := avgGain / avgLoss

	return 100 - (100 / (1 + rs))
}
