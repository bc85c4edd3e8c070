package types

import (
	"time"

	"github.com/moznion/go-optional"
)

type IndicatorType string

const (
	IndicatorTypeSMA            IndicatorType = "sma"
	IndicatorTypeEMA            IndicatorType = "ema"
	IndicatorTypeBollingerBands IndicatorType = "bollinger_bands"
	IndicatorTypeRSI            IndicatorType = "rsi"
	IndicatorTypeMACD           IndicatorType = "macd"
	IndicatorTypeOpeningRange   IndicatorType = "opening_range"
)

// IndicatorSeries is a per-candle indicator line aligned 1:1 with its
// source candle series. Values are None over the warm-up region where the
// indicator is not yet defined.
type IndicatorSeries struct {
	Type   IndicatorType              `yaml:"type" json:"type"`
	Period int                        `yaml:"period" json:"period"`
	Values []optional.Option[float64] `yaml:"values" json:"values"`
}

// BollingerBands holds the three Bollinger lines. The band width at each
// defined index is StdDev times the population standard deviation of the
// trailing window.
type BollingerBands struct {
	Period int                        `yaml:"period" json:"period"`
	StdDev float64                    `yaml:"std_dev" json:"std_dev"`
	Middle []optional.Option[float64] `yaml:"middle" json:"middle"`
	Upper  []optional.Option[float64] `yaml:"upper" json:"upper"`
	Lower  []optional.Option[float64] `yaml:"lower" json:"lower"`
}

// RSISeries holds Wilder-smoothed relative strength values in [0, 100].
type RSISeries struct {
	Period int                        `yaml:"period" json:"period"`
	Values []optional.Option[float64] `yaml:"values" json:"values"`
}

// MACDResult holds the MACD line, its signal line and the histogram
// (line minus signal), each aligned with the source series.
type MACDResult struct {
	FastPeriod   int                        `yaml:"fast_period" json:"fast_period"`
	SlowPeriod   int                        `yaml:"slow_period" json:"slow_period"`
	SignalPeriod int                        `yaml:"signal_period" json:"signal_period"`
	Line         []optional.Option[float64] `yaml:"line" json:"line"`
	Signal       []optional.Option[float64] `yaml:"signal" json:"signal"`
	Histogram    []optional.Option[float64] `yaml:"histogram" json:"histogram"`
}

// OpeningRange is the high/low band established during the first
// WindowMinutes of a trading session. Computed once per series.
type OpeningRange struct {
	WindowMinutes int       `yaml:"window_minutes" json:"window_minutes"`
	Start         time.Time `yaml:"start" json:"start"`
	End           time.Time `yaml:"end" json:"end"`
	High          float64   `yaml:"high" json:"high"`
	Low           float64   `yaml:"low" json:"low"`
}
