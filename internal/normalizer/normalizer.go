// Package normalizer turns an extracted client-state tree into a typed
// candle series: it locates the candle array among the shapes different
// payload versions use, coerces timestamps into the exchange timezone,
// drops unusable rows, deduplicates and sorts, and filters to the requested
// window. Outside trading hours the payload often carries only a quote
// block; normalization then degrades to a single synthesized snapshot
// candle.
package normalizer

import (
	"sort"
	"time"

	"github.com/moznion/go-optional"

	"github.com/rxtech-lab/boerse-charts/internal/statetree"
	"github.com/rxtech-lab/boerse-charts/internal/types"
	"github.com/rxtech-lab/boerse-charts/pkg/errors"
)

// Hint carries request context the payload may not repeat: the identifier
// the caller asked for, a display name, and the exchange timezone. A nil
// Location defaults to the exchange's home zone.
type Hint struct {
	Identifier string
	Name       string
	Location   *time.Location
}

// candlePaths are the locations candle arrays have been observed at,
// most specific first.
var candlePaths = [][]any{
	{"candles"},
	{"pricehistory", "candles"},
	{"data", 0, "pricehistory", "candles"},
	{"data", "candles"},
	{"chart", "candles"},
	{"chart", "series"},
	{"chart"},
	{"series"},
	{"records"},
	{"results"},
	{"values"},
	{"items"},
	{"data"},
}

const priceHistoryBlock = "PriceHistoryBlock"

// maxUnwrapDepth bounds how many single-key wrapper objects are descended
// through while probing for the candle array.
const maxUnwrapDepth = 4

// Normalize turns an extracted tree into a candle series filtered to
// window. The returned int counts source rows that were dropped
// (unparseable timestamp, non-finite or non-positive price).
//
// When filtering leaves zero candles the series is returned with its
// metadata but no candles, together with an *errors.EmptyRangeError, so
// callers can render an empty chart instead of failing. A payload without
// any candle array degrades to a quote snapshot when one is present and
// fails with ErrCodeCandlesNotFound otherwise.
func Normalize(tree statetree.Node, window types.TimeRange, key types.RangeKey, hint Hint) (types.CandleSeries, int, error) {
	opt, ok := key.Option()
	if !ok {
		return types.CandleSeries{}, 0, errors.Newf(errors.ErrCodeInvalidRange, "unknown range %q", string(key))
	}

	loc := hint.Location
	if loc == nil {
		loc = types.ExchangeLocation()
	}

	identifier, name := seriesMetadata(tree, hint)
	series := types.CandleSeries{
		Identifier: identifier,
		Name:       name,
		Resolution: opt.Resolution,
		Range:      key,
	}

	arr, found := locateCandleArray(tree)
	if !found {
		if snapshot, ok := snapshotCandle(tree, loc); ok {
			series.Snapshot = true
			series.Resolution = types.ResolutionIntraday
			series.Candles = []types.Candle{snapshot}

			return series, 0, nil
		}

		return types.CandleSeries{}, 0, errors.Newf(errors.ErrCodeCandlesNotFound,
			"no candle array in payload for %q", identifier)
	}

	candles, skipped := parseRows(arr, loc)
	if len(candles) == 0 {
		if snapshot, ok := snapshotCandle(tree, loc); ok {
			series.Snapshot = true
			series.Resolution = types.ResolutionIntraday
			series.Candles = []types.Candle{snapshot}

			return series, skipped, nil
		}

		return types.CandleSeries{}, skipped, errors.Newf(errors.ErrCodeCandlesNotFound,
			"candle array for %q contains no usable rows", identifier)
	}

	candles = dedupeAndSort(candles)

	filtered := make([]types.Candle, 0, len(candles))
	for _, candle := range candles {
		if window.Contains(candle.Time) {
			filtered = append(filtered, candle)
		}
	}
	if len(filtered) == 0 {
		return series, skipped, errors.NewEmptyRangeErrorf(window.From, window.To, identifier,
			"no candles for %q between %s and %s", identifier,
			window.From.Format(time.RFC3339), window.To.Format(time.RFC3339))
	}

	series.Candles = filtered

	return series, skipped, nil
}

// locateCandleArray probes the known candle locations, descending through
// single-key wrapper objects between attempts.
func locateCandleArray(tree statetree.Node) (statetree.Node, bool) {
	node := tree
	for depth := 0; depth < maxUnwrapDepth; depth++ {
		if arr, ok := probeCandidates(node); ok {
			return arr, true
		}
		if node.IsObject() && node.Len() == 1 {
			node = node.Key(node.Keys()[0])

			continue
		}

		break
	}

	return statetree.Node{}, false
}

func probeCandidates(node statetree.Node) (statetree.Node, bool) {
	for _, path := range candlePaths {
		candidate := node.Path(path...)
		if isPlausibleCandleArray(candidate) {
			return candidate, true
		}
	}

	if block := node.Block(priceHistoryBlock); block.Exists() {
		candidate := block.Key("candles")
		if isPlausibleCandleArray(candidate) {
			return candidate, true
		}
	}

	if isPlausibleCandleArray(node) {
		return node, true
	}

	return statetree.Node{}, false
}

// isPlausibleCandleArray accepts a non-empty array whose first non-null
// entry looks like a candle row: a tuple of at least five elements, or an
// object carrying both a time-like and a close-like key.
func isPlausibleCandleArray(node statetree.Node) bool {
	if !node.IsArray() || node.Len() == 0 {
		return false
	}
	for _, item := range node.Items() {
		if item.Value() == nil {
			continue
		}

		return isPlausibleRow(item)
	}

	return false
}

func isPlausibleRow(row statetree.Node) bool {
	if row.IsArray() {
		return row.Len() >= 5
	}
	if row.IsObject() {
		return firstKey(row, timeKeys).Exists() && firstKey(row, closeKeys).Exists()
	}

	return false
}

func parseRows(arr statetree.Node, loc *time.Location) ([]types.Candle, int) {
	items := arr.Items()
	candles := make([]types.Candle, 0, len(items))
	skipped := 0

	for _, row := range items {
		candle, ok := parseRow(row, loc)
		if !ok {
			skipped++

			continue
		}
		candles = append(candles, candle)
	}

	return candles, skipped
}

func parseRow(row statetree.Node, loc *time.Location) (types.Candle, bool) {
	if row.IsArray() {
		return parseTupleRow(row, loc)
	}
	if row.IsObject() {
		return parseObjectRow(row, loc)
	}

	return types.Candle{}, false
}

// parseTupleRow reads the positional form [timestamp, open, high, low,
// close, volume?].
func parseTupleRow(row statetree.Node, loc *time.Location) (types.Candle, bool) {
	if row.Len() < 5 {
		return types.Candle{}, false
	}

	ts, ok := coerceTimestamp(row.Index(0), loc)
	if !ok {
		return types.Candle{}, false
	}

	prices := make([]float64, 4)
	for i := 0; i < 4; i++ {
		value, ok := parseNumber(row.Index(i + 1))
		if !ok || !validPrice(value) {
			return types.Candle{}, false
		}
		prices[i] = value
	}

	candle := types.Candle{
		Time:   ts,
		Open:   prices[0],
		High:   prices[1],
		Low:    prices[2],
		Close:  prices[3],
		Volume: optional.None[float64](),
	}
	if row.Len() >= 6 {
		if volume, ok := parseNumber(row.Index(5)); ok && validVolume(volume) {
			candle.Volume = optional.Some(volume)
		}
	}

	return candle, true
}

// parseObjectRow reads the keyed form. Time and close are required; open,
// high and low fall back to close for value-only rows, the shape the
// intraday line feed uses.
func parseObjectRow(row statetree.Node, loc *time.Location) (types.Candle, bool) {
	ts, ok := coerceTimestamp(firstKey(row, timeKeys), loc)
	if !ok {
		return types.Candle{}, false
	}

	closePrice, ok := parseNumber(firstKey(row, closeKeys))
	if !ok || !validPrice(closePrice) {
		return types.Candle{}, false
	}

	candle := types.Candle{
		Time:   ts,
		Open:   closePrice,
		High:   closePrice,
		Low:    closePrice,
		Close:  closePrice,
		Volume: optional.None[float64](),
	}

	for _, field := range []struct {
		keys   []string
		target *float64
	}{
		{openKeys, &candle.Open},
		{highKeys, &candle.High},
		{lowKeys, &candle.Low},
	} {
		node := firstKey(row, field.keys)
		if !node.Exists() {
			continue
		}
		value, ok := parseNumber(node)
		if !ok || !validPrice(value) {
			return types.Candle{}, false
		}
		*field.target = value
	}

	if node := firstKey(row, volumeKeys); node.Exists() {
		if volume, ok := parseNumber(node); ok && validVolume(volume) {
			candle.Volume = optional.Some(volume)
		}
	}

	return candle, true
}

// dedupeAndSort orders candles ascending and collapses duplicate instants,
// keeping the last occurrence. Feeds re-emit the in-progress bar, so the
// later row is the corrected one.
func dedupeAndSort(candles []types.Candle) []types.Candle {
	sort.SliceStable(candles, func(i, j int) bool {
		return candles[i].Time.Before(candles[j].Time)
	})

	deduped := candles[:0]
	for _, candle := range candles {
		if len(deduped) > 0 && deduped[len(deduped)-1].Time.Equal(candle.Time) {
			deduped[len(deduped)-1] = candle

			continue
		}
		deduped = append(deduped, candle)
	}

	return deduped
}

var (
	identifierPaths = [][]any{
		{"instrument", "isin"},
		{"instrument", "identifier"},
		{"instrument", "wkn"},
		{"state", "instrument", "isin"},
		{"data", 0, "instrument", "isin"},
	}
	namePaths = [][]any{
		{"instrument", "name"},
		{"state", "instrument", "name"},
		{"data", 0, "instrument", "name"},
	}
)

// seriesMetadata resolves the instrument identity. The caller's hint wins
// for the identifier; the payload wins for the display name.
func seriesMetadata(tree statetree.Node, hint Hint) (string, string) {
	identifier := hint.Identifier
	if identifier == "" {
		for _, path := range identifierPaths {
			if v, ok := tree.Path(path...).Str(); ok && v != "" {
				identifier = v

				break
			}
		}
		if identifier == "" {
			if v, ok := tree.Block(quoteBlock).Key("isin").Str(); ok {
				identifier = v
			}
		}
	}

	name := ""
	for _, path := range namePaths {
		if v, ok := tree.Path(path...).Str(); ok && v != "" {
			name = v

			break
		}
	}
	if name == "" {
		if v, ok := tree.Block(quoteBlock).Key("name").Str(); ok {
			name = v
		}
	}
	if name == "" {
		name = hint.Name
	}
	if name == "" {
		name = identifier
	}

	return identifier, name
}
