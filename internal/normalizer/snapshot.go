package normalizer

import (
	"time"

	"github.com/moznion/go-optional"

	"github.com/rxtech-lab/boerse-charts/internal/statetree"
	"github.com/rxtech-lab/boerse-charts/internal/types"
)

const quoteBlock = "QuoteBlock"

var quotePaths = [][]any{
	{"quote"},
	{"state", "quote"},
	{"data", "quote"},
	{"instrument", "quote"},
}

// snapshotCandle synthesizes a single candle from the payload's quote
// block. Outside trading hours the page drops the candle array and keeps
// only the latest quote; a flat open=high=low=close bar is still
// renderable. Range filtering does not apply to snapshots since a stale
// quote is the expected content.
func snapshotCandle(tree statetree.Node, loc *time.Location) (types.Candle, bool) {
	quote := tree.Block(quoteBlock)
	if !quote.Exists() {
		for _, path := range quotePaths {
			if node := tree.Path(path...); node.IsObject() {
				quote = node

				break
			}
		}
	}
	if !quote.Exists() {
		return types.Candle{}, false
	}

	price, ok := parseNumber(firstKey(quote, closeKeys))
	if !ok || !validPrice(price) {
		return types.Candle{}, false
	}

	ts, ok := coerceTimestamp(firstKey(quote, timeKeys), loc)
	if !ok {
		return types.Candle{}, false
	}

	candle := types.Candle{
		Time:   ts,
		Open:   price,
		High:   price,
		Low:    price,
		Close:  price,
		Volume: optional.None[float64](),
	}

	for _, key := range []string{"latestTradingVolume", "volume", "v"} {
		if node := quote.Key(key); node.Exists() {
			if volume, ok := parseNumber(node); ok && validVolume(volume) {
				candle.Volume = optional.Some(volume)
			}

			break
		}
	}

	return candle, true
}
