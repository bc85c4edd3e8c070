package types

import (
	"time"

	"github.com/moznion/go-optional"
)

type Resolution string

const (
	ResolutionIntraday Resolution = "intraday"
	ResolutionDaily    Resolution = "daily"
)

// Candle represents a single OHLC bar. Time carries the exchange-local
// timezone so hour-of-day boundaries (session start, opening range) are
// computed against true local trading hours.
type Candle struct {
	Time  time.Time `yaml:"time" json:"time"`
	Open  float64   `yaml:"open" json:"open"`
	High  float64   `yaml:"high" json:"high"`
	Low   float64   `yaml:"low" json:"low"`
	Close float64   `yaml:"close" json:"close"`
	// Volume is absent when the source row carries no volume field.
	Volume optional.Option[float64] `yaml:"volume" json:"volume"`
}

// CandleSeries is an ordered sequence of candles for one instrument,
// ascending by time with no duplicate instants.
type CandleSeries struct {
	Identifier string     `yaml:"identifier" json:"identifier"`
	Name       string     `yaml:"name" json:"name"`
	Resolution Resolution `yaml:"resolution" json:"resolution"`
	Range      RangeKey   `yaml:"range" json:"range"`
	// Snapshot is true when the series was synthesized from a single quote
	// block instead of a candle array, e.g. outside trading hours.
	Snapshot bool     `yaml:"snapshot" json:"snapshot"`
	Candles  []Candle `yaml:"candles" json:"candles"`
}

// Closes returns the closing prices of the series in order.
func (s *CandleSeries) Closes() []float64 {
	closes := make([]float64, len(s.Candles))
	for i, candle := range s.Candles {
		closes[i] = candle.Close
	}

	return closes
}

// IsEmpty returns true if the series contains no candles.
func (s *CandleSeries) IsEmpty() bool {
	return len(s.Candles) == 0
}

// Last returns the most recent candle of the series.
func (s *CandleSeries) Last() (Candle, bool) {
	if len(s.Candles) == 0 {
		return Candle{}, false
	}

	return s.Candles[len(s.Candles)-1], true
}
