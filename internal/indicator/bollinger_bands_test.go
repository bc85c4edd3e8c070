package indicator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/suite"
)

type BollingerBandsTestSuite struct {
	suite.Suite
}

func TestBollingerBandsSuite(t *testing.T) {
	suite.Run(t, new(BollingerBandsTestSuite))
}

func (suite *BollingerBandsTestSuite) TestKnownWindow() {
	// Population standard deviation of this window is exactly 2.
	closes := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	bands := Bollinger(closes, 8, 2.0)

	last := len(closes) - 1
	suite.InDelta(5.0, bands.Middle[last].Unwrap(), 1e-9)
	suite.InDelta(9.0, bands.Upper[last].Unwrap(), 1e-9)
	suite.InDelta(1.0, bands.Lower[last].Unwrap(), 1e-9)

	for i := 0; i < last; i++ {
		suite.True(bands.Middle[i].IsNone(), "index %d should be warm-up", i)
	}
}

func (suite *BollingerBandsTestSuite) TestConstantWindowCollapses() {
	closes := []float64{50, 50, 50, 50, 50, 50}

	bands := Bollinger(closes, 4, 2.0)

	for i := 3; i < len(closes); i++ {
		suite.InDelta(50.0, bands.Middle[i].Unwrap(), 1e-9)
		suite.InDelta(50.0, bands.Upper[i].Unwrap(), 1e-9)
		suite.InDelta(50.0, bands.Lower[i].Unwrap(), 1e-9)
	}
}

func (suite *BollingerBandsTestSuite) TestMiddleMatchesSMA() {
	rng := rand.New(rand.NewSource(7))

	closes := make([]float64, 200)
	for i := range closes {
		closes[i] = 80 + rng.Float64()*40
	}

	period := 20
	bands := Bollinger(closes, period, 2.0)
	sma := SMA(closes, period)

	for i := period - 1; i < len(closes); i++ {
		suite.InDelta(sma.Values[i].Unwrap(), bands.Middle[i].Unwrap(), 1e-9, "index %d", i)
	}
}

func (suite *BollingerBandsTestSuite) TestBandsOrdered() {
	rng := rand.New(rand.NewSource(11))

	closes := make([]float64, 100)
	for i := range closes {
		closes[i] = 100 + rng.Float64()*10
	}

	bands := Bollinger(closes, 10, 1.5)

	for i := 9; i < len(closes); i++ {
		upper := bands.Upper[i].Unwrap()
		middle := bands.Middle[i].Unwrap()
		lower := bands.Lower[i].Unwrap()

		suite.GreaterOrEqual(upper, middle)
		suite.GreaterOrEqual(middle, lower)
	}
}

func (suite *BollingerBandsTestSuite) TestPeriodLongerThanSeries() {
	bands := Bollinger([]float64{1, 2, 3}, 10, 2.0)

	for i := range bands.Middle {
		suite.True(bands.Middle[i].IsNone())
		suite.True(bands.Upper[i].IsNone())
		suite.True(bands.Lower[i].IsNone())
	}
}
