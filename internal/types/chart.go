package types

import "github.com/moznion/go-optional"

// ChartPayload bundles a candle series with every indicator requested for
// it. Optional indicators are nil when not requested; the opening range is
// additionally None when no candle fell inside the session window.
type ChartPayload struct {
	Series       CandleSeries                    `yaml:"series" json:"series"`
	SMA          []IndicatorSeries               `yaml:"sma,omitempty" json:"sma,omitempty"`
	EMA          []IndicatorSeries               `yaml:"ema,omitempty" json:"ema,omitempty"`
	Bollinger    *BollingerBands                 `yaml:"bollinger,omitempty" json:"bollinger,omitempty"`
	RSI          *RSISeries                      `yaml:"rsi,omitempty" json:"rsi,omitempty"`
	MACD         *MACDResult                     `yaml:"macd,omitempty" json:"macd,omitempty"`
	OpeningRange optional.Option[OpeningRange]   `yaml:"opening_range" json:"opening_range"`
	// SkippedRows counts source rows dropped during normalization
	// (unparseable timestamps, non-finite or non-positive prices).
	SkippedRows int `yaml:"skipped_rows" json:"skipped_rows"`
}
