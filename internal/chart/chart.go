// Package chart turns a normalized candle series and an indicator
// configuration into a render-ready payload. Building is additive and
// side-effect-free: the input series is never mutated, indicators the
// config does not request are simply absent from the payload.
package chart

import (
	"github.com/go-playground/validator/v10"

	"github.com/rxtech-lab/boerse-charts/internal/indicator"
	"github.com/rxtech-lab/boerse-charts/internal/types"
	"github.com/rxtech-lab/boerse-charts/pkg/errors"
)

// Default indicator parameters, applied when an indicator is requested
// without explicit settings.
const (
	DefaultBollingerPeriod = 20
	DefaultBollingerStdDev = 2.0
	DefaultRSIPeriod       = 14
	DefaultMACDFastPeriod  = 12
	DefaultMACDSlowPeriod  = 26
	DefaultMACDSignal      = 9
	DefaultORBMinutes      = indicator.DefaultWindowMinutes
)

// BollingerConfig configures the Bollinger band overlay.
type BollingerConfig struct {
	Period int     `yaml:"period" json:"period" validate:"gt=1" jsonschema:"title=Period,description=Window length in bars,minimum=2"`
	StdDev float64 `yaml:"std_dev" json:"std_dev" validate:"gt=0" jsonschema:"title=Standard Deviations,description=Band width as a multiple of the window standard deviation"`
}

// RSIConfig configures the relative strength index pane.
type RSIConfig struct {
	Period int `yaml:"period" json:"period" validate:"gt=0" jsonschema:"title=Period,description=Smoothing period in bars,minimum=1"`
}

// MACDConfig configures the MACD pane. FastPeriod must be shorter than
// SlowPeriod.
type MACDConfig struct {
	FastPeriod   int `yaml:"fast_period" json:"fast_period" validate:"gt=0" jsonschema:"title=Fast Period,description=Fast EMA period in bars,minimum=1"`
	SlowPeriod   int `yaml:"slow_period" json:"slow_period" validate:"gt=0" jsonschema:"title=Slow Period,description=Slow EMA period in bars,minimum=1"`
	SignalPeriod int `yaml:"signal_period" json:"signal_period" validate:"gt=0" jsonschema:"title=Signal Period,description=Signal EMA period over the MACD line,minimum=1"`
}

// Config selects which indicators a chart payload carries. The zero value
// requests a bare candle chart. Nil pointers and empty period lists mean
// the indicator is off; ORBMinutes zero means no opening range.
type Config struct {
	SMAPeriods []int            `yaml:"sma_periods,omitempty" json:"sma_periods,omitempty" validate:"omitempty,dive,gt=0" jsonschema:"title=SMA Periods,description=Simple moving average periods to overlay"`
	EMAPeriods []int            `yaml:"ema_periods,omitempty" json:"ema_periods,omitempty" validate:"omitempty,dive,gt=0" jsonschema:"title=EMA Periods,description=Exponential moving average periods to overlay"`
	Bollinger  *BollingerConfig `yaml:"bollinger,omitempty" json:"bollinger,omitempty" jsonschema:"title=Bollinger,description=Bollinger band settings"`
	RSI        *RSIConfig       `yaml:"rsi,omitempty" json:"rsi,omitempty" jsonschema:"title=RSI,description=Relative strength index settings"`
	MACD       *MACDConfig      `yaml:"macd,omitempty" json:"macd,omitempty" jsonschema:"title=MACD,description=MACD settings"`
	ORBMinutes int              `yaml:"orb_minutes,omitempty" json:"orb_minutes,omitempty" validate:"gte=0" jsonschema:"title=Opening Range Minutes,description=Opening range window length in minutes (0 disables),minimum=0"`
}

// DefaultBollingerConfig returns the standard 20-period, two-sigma band
// settings.
func DefaultBollingerConfig() *BollingerConfig {
	return &BollingerConfig{
		Period: DefaultBollingerPeriod,
		StdDev: DefaultBollingerStdDev,
	}
}

// DefaultRSIConfig returns the standard 14-period RSI settings.
func DefaultRSIConfig() *RSIConfig {
	return &RSIConfig{
		Period: DefaultRSIPeriod,
	}
}

// DefaultMACDConfig returns the standard 12/26/9 MACD settings.
func DefaultMACDConfig() *MACDConfig {
	return &MACDConfig{
		FastPeriod:   DefaultMACDFastPeriod,
		SlowPeriod:   DefaultMACDSlowPeriod,
		SignalPeriod: DefaultMACDSignal,
	}
}

// Validate validates the Config struct.
func (c *Config) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, "invalid chart config", err)
	}

	// Relational rule the tags cannot express.
	if c.MACD != nil && c.MACD.FastPeriod >= c.MACD.SlowPeriod {
		return errors.Newf(errors.ErrCodeInvalidMACDPeriods,
			"MACD fast period %d must be shorter than slow period %d",
			c.MACD.FastPeriod, c.MACD.SlowPeriod)
	}

	return nil
}

// Build computes the indicators the config requests over the series and
// assembles the chart payload. The config is validated before any
// computation happens. Duplicate SMA or EMA periods are computed once,
// preserving the first occurrence.
func Build(series types.CandleSeries, cfg Config) (types.ChartPayload, error) {
	if err := cfg.Validate(); err != nil {
		return types.ChartPayload{}, err
	}

	payload := types.ChartPayload{
		Series: series,
	}

	closes := series.Closes()

	for _, period := range dedupPeriods(cfg.SMAPeriods) {
		payload.SMA = append(payload.SMA, indicator.SMA(closes, period))
	}

	for _, period := range dedupPeriods(cfg.EMAPeriods) {
		payload.EMA = append(payload.EMA, indicator.EMA(closes, period))
	}

	if cfg.Bollinger != nil {
		bands := indicator.Bollinger(closes, cfg.Bollinger.Period, cfg.Bollinger.StdDev)
		payload.Bollinger = &bands
	}

	if cfg.RSI != nil {
		rsi := indicator.RSI(closes, cfg.RSI.Period)
		payload.RSI = &rsi
	}

	if cfg.MACD != nil {
		macd := indicator.MACD(closes, cfg.MACD.FastPeriod, cfg.MACD.SlowPeriod, cfg.MACD.SignalPeriod)
		payload.MACD = &macd
	}

	if cfg.ORBMinutes > 0 {
		payload.OpeningRange = indicator.OpeningRange(series.Candles, indicator.DefaultSessionStart, cfg.ORBMinutes)
	}

	return payload, nil
}

// dedupPeriods drops repeated periods, keeping the first occurrence in
// request order.
func dedupPeriods(periods []int) []int {
	if len(periods) < 2 {
		return periods
	}

	seen := make(map[int]struct{}, len(periods))
	deduped := make([]int, 0, len(periods))

	for _, period := range periods {
		if _, ok := seen[period]; ok {
			continue
		}

		seen[period] = struct{}{}
		deduped = append(deduped, period)
	}

	return deduped
}
