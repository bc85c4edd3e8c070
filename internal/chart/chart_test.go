package chart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/boerse-charts/internal/indicator"
	"github.com/rxtech-lab/boerse-charts/internal/types"
	"github.com/rxtech-lab/boerse-charts/pkg/errors"
)

type ChartTestSuite struct {
	suite.Suite
}

func TestChartSuite(t *testing.T) {
	suite.Run(t, new(ChartTestSuite))
}

// intradaySeries builds a session of five-minute candles starting at the
// exchange open.
func intradaySeries(n int) types.CandleSeries {
	loc := types.ExchangeLocation()
	open := time.Date(2024, 3, 1, 9, 0, 0, 0, loc)

	candles := make([]types.Candle, n)
	for i := range candles {
		price := 100 + float64(i)
		candles[i] = types.Candle{
			Time:  open.Add(time.Duration(i) * 5 * time.Minute),
			Open:  price,
			High:  price + 1,
			Low:   price - 1,
			Close: price + 0.5,
		}
	}

	return types.CandleSeries{
		Identifier: "DE0007164600",
		Name:       "SAP SE",
		Resolution: types.ResolutionIntraday,
		Range:      types.RangeKeyIntraday,
		Candles:    candles,
	}
}

func (suite *ChartTestSuite) TestBuildBareConfig() {
	series := intradaySeries(10)

	payload, err := Build(series, Config{})

	suite.NoError(err)
	suite.Equal(series.Identifier, payload.Series.Identifier)
	suite.Len(payload.Series.Candles, 10)
	suite.Empty(payload.SMA)
	suite.Empty(payload.EMA)
	suite.Nil(payload.Bollinger)
	suite.Nil(payload.RSI)
	suite.Nil(payload.MACD)
	suite.True(payload.OpeningRange.IsNone())
}

func (suite *ChartTestSuite) TestBuildDedupsPeriods() {
	series := intradaySeries(30)

	payload, err := Build(series, Config{
		SMAPeriods: []int{5, 10, 5, 10, 5},
		EMAPeriods: []int{8, 8},
	})

	suite.NoError(err)
	suite.Len(payload.SMA, 2)
	suite.Equal(5, payload.SMA[0].Period)
	suite.Equal(10, payload.SMA[1].Period)
	suite.Len(payload.EMA, 1)
	suite.Equal(8, payload.EMA[0].Period)
}

func (suite *ChartTestSuite) TestBuildMatchesIndicatorOutput() {
	series := intradaySeries(40)
	closes := series.Closes()

	payload, err := Build(series, Config{
		SMAPeriods: []int{5},
		RSI:        DefaultRSIConfig(),
	})

	suite.NoError(err)
	suite.Require().Len(payload.SMA, 1)

	expected := indicator.SMA(closes, 5)
	for i := range closes {
		suite.Equal(expected.Values[i].IsSome(), payload.SMA[0].Values[i].IsSome(), "index %d", i)

		if expected.Values[i].IsSome() {
			suite.InDelta(expected.Values[i].Unwrap(), payload.SMA[0].Values[i].Unwrap(), 1e-9)
		}
	}

	suite.Require().NotNil(payload.RSI)
	suite.Equal(DefaultRSIPeriod, payload.RSI.Period)
}

func (suite *ChartTestSuite) TestBuildAllIndicators() {
	series := intradaySeries(60)

	payload, err := Build(series, Config{
		SMAPeriods: []int{20},
		EMAPeriods: []int{9, 21},
		Bollinger:  DefaultBollingerConfig(),
		RSI:        DefaultRSIConfig(),
		MACD:       DefaultMACDConfig(),
		ORBMinutes: 30,
	})

	suite.NoError(err)
	suite.Len(payload.SMA, 1)
	suite.Len(payload.EMA, 2)

	suite.Require().NotNil(payload.Bollinger)
	suite.Equal(DefaultBollingerPeriod, payload.Bollinger.Period)

	suite.Require().NotNil(payload.RSI)
	suite.Equal(DefaultRSIPeriod, payload.RSI.Period)

	suite.Require().NotNil(payload.MACD)
	suite.Equal(DefaultMACDFastPeriod, payload.MACD.FastPeriod)
	suite.Equal(DefaultMACDSlowPeriod, payload.MACD.SlowPeriod)

	suite.True(payload.OpeningRange.IsSome())
	suite.Equal(30, payload.OpeningRange.Unwrap().WindowMinutes)
}

func (suite *ChartTestSuite) TestBuildWithoutORB() {
	series := intradaySeries(10)

	payload, err := Build(series, Config{SMAPeriods: []int{3}})

	suite.NoError(err)
	suite.True(payload.OpeningRange.IsNone())
}

func (suite *ChartTestSuite) TestBuildDoesNotMutateSeries() {
	series := intradaySeries(30)

	closesBefore := series.Closes()

	_, err := Build(series, Config{
		SMAPeriods: []int{5},
		Bollinger:  DefaultBollingerConfig(),
	})

	suite.NoError(err)
	suite.Equal(closesBefore, series.Closes())
}

func (suite *ChartTestSuite) TestValidateRejectsBadPeriods() {
	cfg := Config{SMAPeriods: []int{20, 0}}

	err := cfg.Validate()

	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfig))
}

func (suite *ChartTestSuite) TestValidateRejectsShortBollingerWindow() {
	cfg := Config{Bollinger: &BollingerConfig{Period: 1, StdDev: 2.0}}

	err := cfg.Validate()

	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfig))
}

func (suite *ChartTestSuite) TestValidateRejectsInvertedMACD() {
	cfg := Config{MACD: &MACDConfig{FastPeriod: 26, SlowPeriod: 12, SignalPeriod: 9}}

	err := cfg.Validate()

	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidMACDPeriods))
}

func (suite *ChartTestSuite) TestBuildPropagatesConfigError() {
	series := intradaySeries(10)

	_, err := Build(series, Config{EMAPeriods: []int{-1}})

	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfig))
}

func (suite *ChartTestSuite) TestZeroConfigIsValid() {
	cfg := Config{}
	suite.NoError(cfg.Validate())
}
