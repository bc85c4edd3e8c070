package indicator

import (
	"github.com/moznion/go-optional"

	"github.com/rxtech-lab/boerse-charts/internal/types"
)

// MACD calculates the moving average convergence divergence of closes. The
// MACD line is the fast EMA minus the slow EMA, defined where both are; the
// signal line is an EMA of the defined MACD values, re-aligned onto the
// source series; the histogram is the line minus the signal wherever both
// exist. With fast < slow the first line value lands at index slowPeriod-1
// and the first signal value signalPeriod-1 defined line values later.
func MACD(closes []float64, fastPeriod, slowPeriod, signalPeriod int) types.MACDResult {
	result := types.MACDResult{
		FastPeriod:   fastPeriod,
		SlowPeriod:   slowPeriod,
		SignalPeriod: signalPeriod,
		Line:         noneValues(len(closes)),
		Signal:       noneValues(len(closes)),
		Histogram:    noneValues(len(closes)),
	}

	if fastPeriod < 1 || slowPeriod < 1 || signalPeriod < 1 {
		return result
	}

	fast := EMA(closes, fastPeriod)
	slow := EMA(closes, slowPeriod)

	lineValues := make([]float64, 0, len(closes))
	lineIndexes := make([]int, 0, len(closes))

	for i := range closes {
		if fast.Values[i].IsNone() || slow.Values[i].IsNone() {
			continue
		}

		line := fast.Values[i].Unwrap() - slow.Values[i].Unwrap()
		result.Line[i] = optional.Some(line)

		lineValues = append(lineValues, line)
		lineIndexes = append(lineIndexes, i)
	}

	signal := EMA(lineValues, signalPeriod)

	for j, value := range signal.Values {
		if value.IsNone() {
			continue
		}

		i := lineIndexes[j]
		result.Signal[i] = value
		result.Histogram[i] = optional.Some(lineValues[j] - value.Unwrap())
	}

	return result
}
