package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/moznion/go-optional"

	"github.com/rxtech-lab/boerse-charts/internal/types"
)

// DataGenerator generates realistic candle data for testing and benchmarking.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how candle data is generated.
type GeneratorConfig struct {
	// Identifier is the instrument identifier (usually an ISIN).
	Identifier string
	// Name is the instrument display name.
	Name string
	// StartTime is the beginning of the series.
	StartTime time.Time
	// Interval is the duration between bars.
	Interval time.Duration
	// Count is the number of candles to generate.
	Count int
	// InitialPrice is the starting price.
	InitialPrice float64
	// Volatility controls price movement (0.002 = 0.2% per bar).
	Volatility float64
	// Trend is the drift factor (-0.01 to 0.01 for bearish to bullish).
	Trend float64
	// VolumeBase is the average volume per bar.
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0).
	VolumeVariance float64
}

// DefaultConfig returns a sensible default configuration: one trading day
// of minute bars starting at the exchange open.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Identifier:     "DE0007164600",
		Name:           "SAP SE",
		StartTime:      time.Date(2024, 3, 1, 9, 0, 0, 0, types.ExchangeLocation()),
		Interval:       time.Minute,
		Count:          510,
		InitialPrice:   100.0,
		Volatility:     0.002,
		Trend:          0.0,
		VolumeBase:     10000,
		VolumeVariance: 0.3,
	}
}

// Candles creates a slice of candles based on the configuration. Prices
// follow a geometric Brownian motion model for realistic movement.
func (g *DataGenerator) Candles(config GeneratorConfig) []types.Candle {
	candles := make([]types.Candle, config.Count)
	currentPrice := config.InitialPrice
	currentTime := config.StartTime

	for i := 0; i < config.Count; i++ {
		open := currentPrice

		// Box-Muller transform for a normally distributed step.
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		priceChange := config.Volatility * z
		drift := config.Trend / float64(config.Count)

		close := open * (1 + priceChange + drift)
		if close <= 0 {
			close = open * 0.99
		}

		highExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)
		lowExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)

		high := math.Max(open, close) + highExtension
		low := math.Min(open, close) - lowExtension
		if low <= 0 {
			low = math.Min(open, close) * 0.99
		}

		volumeVariation := 1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance
		volume := config.VolumeBase * volumeVariation
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		candles[i] = types.Candle{
			Time:   currentTime,
			Open:   roundToDecimals(open, 4),
			High:   roundToDecimals(high, 4),
			Low:    roundToDecimals(low, 4),
			Close:  roundToDecimals(close, 4),
			Volume: optional.Some(roundToDecimals(volume, 2)),
		}

		currentPrice = close
		currentTime = currentTime.Add(config.Interval)
	}

	return candles
}

// Series wraps Candles in a CandleSeries with metadata filled in from the
// configuration.
func (g *DataGenerator) Series(config GeneratorConfig) types.CandleSeries {
	resolution := types.ResolutionIntraday
	rangeKey := types.RangeKeyIntraday
	if config.Interval >= 24*time.Hour {
		resolution = types.ResolutionDaily
		rangeKey = types.RangeKeyYear
	}

	return types.CandleSeries{
		Identifier: config.Identifier,
		Name:       config.Name,
		Resolution: resolution,
		Range:      rangeKey,
		Candles:    g.Candles(config),
	}
}

// GenerateSeries is a convenience function for a reproducible default
// series with the given identifier and candle count.
func GenerateSeries(identifier string, count int) types.CandleSeries {
	gen := NewDataGenerator(42)
	config := DefaultConfig()
	config.Identifier = identifier
	config.Count = count

	return gen.Series(config)
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
