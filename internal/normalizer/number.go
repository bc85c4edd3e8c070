package normalizer

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rxtech-lab/boerse-charts/internal/statetree"
)

// Key aliases observed across payload versions for candle row fields.
var (
	timeKeys   = []string{"t", "time", "date", "timestamp", "quoteDateTime", "datetime"}
	openKeys   = []string{"o", "open"}
	highKeys   = []string{"h", "high"}
	lowKeys    = []string{"l", "low"}
	closeKeys  = []string{"c", "close", "value", "price", "last"}
	volumeKeys = []string{"v", "volume"}
)

func firstKey(row statetree.Node, names []string) statetree.Node {
	for _, name := range names {
		if node := row.Key(name); node.Exists() {
			return node
		}
	}

	return statetree.Node{}
}

// parseNumber reads a numeric node. Plain numbers and English-formatted
// numeric strings pass through; strings containing a comma are read as
// German-formatted ("1.234,56") via exact decimal arithmetic.
func parseNumber(node statetree.Node) (float64, bool) {
	if !node.Exists() {
		return 0, false
	}

	switch v := node.Value().(type) {
	case float64:
		return v, true
	case string:
		return parseNumberString(v)
	default:
		return 0, false
	}
}

func parseNumberString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if strings.Contains(s, ",") {
		cleaned := strings.ReplaceAll(s, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
		d, err := decimal.NewFromString(cleaned)
		if err != nil {
			return 0, false
		}
		f, _ := d.Float64()

		return f, true
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}

	return f, true
}

func validPrice(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f > 0
}

func validVolume(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f >= 0
}
